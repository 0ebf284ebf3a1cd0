// Package modkit provides module composition and dependency injection for
// applications built on the Gin web framework. It organizes an application
// into modules that declare providers, controllers, imports, and exports,
// then bootstraps the whole tree onto a gin.Engine.
//
// modkit does not parse requests, match routes, or encode responses. All of
// that is Gin's job. What modkit contributes is the wiring: a runtime
// dependency container with singleton and transient lifetimes, hierarchical
// lookup, module-level import/export visibility, and cycle detection with
// full diagnostic chains.
//
// # Basic Usage
//
// Declare providers with Injectable, group them into modules, and bootstrap:
//
//	var ServiceToken = modkit.TokenOf[*Service]()
//
//	serviceModule := modkit.NewModule("service",
//	    modkit.Providers(
//	        modkit.Injectable(func(c *modkit.Container) (*Service, error) {
//	            store, err := modkit.Resolve[*Store](c)
//	            if err != nil {
//	                return nil, err
//	            }
//	            return NewService(store), nil
//	        }),
//	    ),
//	    modkit.Controllers(
//	        modkit.NewController("/things", func(r gin.IRouter, c *modkit.Container) error {
//	            svc, err := modkit.Resolve[*Service](c)
//	            if err != nil {
//	                return err
//	            }
//	            r.GET("", func(ctx *gin.Context) { ctx.JSON(200, svc.List()) })
//	            return nil
//	        }),
//	    ),
//	    modkit.Exports(ServiceToken),
//	)
//
//	app, err := modkit.Bootstrap(serviceModule)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.Run(":8080")
//
// # Lifetimes
//
// Providers are Singleton by default: the factory runs at most once and the
// instance is cached in the container that owns the provider. Transient
// providers run their factory on every resolution.
//
// # Modules
//
// A module only sees its own providers, the exports of modules it imports,
// and providers of parent containers. Resolving a token that an imported
// module holds but does not export fails with NotExportedError, naming the
// module that should export it. Modules shared by several importers are
// instantiated once; their singletons are shared.
//
// # Cycle Detection
//
// Both module imports and provider dependencies are checked for cycles.
// Errors carry the complete chain, e.g.
//
//	circular dependency: *a.Service -> *b.Service -> *a.Service
//
// # Bootstrap
//
// Bootstrap flattens the module import tree, wires one container per module
// under a shared application root, eagerly resolves every provider, mounts
// all controllers onto the Gin engine, and returns an App. The App is a
// restricted view of the router: it can serve and shut down gracefully, but
// routes can only be added through controllers and global middleware through
// the WithMiddleware and WithEngine options.
package modkit
