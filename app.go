package modkit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modkit-go/modkit/internal/graph"
)

// Option configures Bootstrap.
type Option func(*appOptions)

type appOptions struct {
	engine     *gin.Engine
	logger     *zap.Logger
	providers  []*Provider
	middleware []gin.HandlerFunc
}

// WithEngine supplies a pre-configured gin engine instead of the default
// gin.New(). Use this to install global middleware or engine settings before
// bootstrap.
func WithEngine(engine *gin.Engine) Option {
	return func(o *appOptions) {
		o.engine = engine
	}
}

// WithLogger sets the logger used during bootstrap and serving. Defaults to
// zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// WithProviders registers application-level providers on the root container.
// Every module container can resolve them through the parent chain, without
// imports or exports.
func WithProviders(providers ...*Provider) Option {
	return func(o *appOptions) {
		o.providers = append(o.providers, providers...)
	}
}

// WithMiddleware installs global middleware on the engine before any
// controller is mounted. Gin snapshots the handler chain at route
// registration, so global middleware must be in place before bootstrap
// mounts the controllers.
func WithMiddleware(middleware ...gin.HandlerFunc) Option {
	return func(o *appOptions) {
		o.middleware = append(o.middleware, middleware...)
	}
}

func defaultAppOptions() *appOptions {
	return &appOptions{
		logger: zap.NewNop(),
	}
}

// Bootstrap wires the module tree rooted at root and mounts it onto a gin
// engine.
//
// It flattens the import tree (modules shared by several importers are wired
// once), rejects import cycles with the full module path, creates one
// container per module under a shared application root, eagerly resolves
// every provider dependencies-first, and runs every controller's setup
// against its route group.
//
// The returned App is a restricted view of the router: it serves, but new
// routes can only come from controllers.
func Bootstrap(root *Module, opts ...Option) (*App, error) {
	if root == nil {
		return nil, BootError{Phase: "flatten", Cause: ErrNilModule}
	}

	options := defaultAppOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	modules, err := flattenModules(root)
	if err != nil {
		return nil, BootError{Phase: "flatten", Cause: err}
	}

	order, err := sortModules(modules)
	if err != nil {
		return nil, BootError{Phase: "flatten", Cause: err}
	}

	rootContainer := NewContainer("app")
	for _, p := range options.providers {
		if err := rootContainer.Register(p); err != nil {
			return nil, BootError{Phase: "wire", Cause: err}
		}
	}

	containers, err := wireModules(rootContainer, modules, order)
	if err != nil {
		return nil, BootError{Phase: "wire", Cause: err}
	}

	for _, name := range order {
		if err := containers[name].ResolveAll(); err != nil {
			return nil, BootError{Phase: "resolve", Cause: ModuleError{Module: name, Cause: err}}
		}
		options.logger.Debug("module resolved",
			zap.String("module", name),
			zap.Int("providers", len(containers[name].Tokens())))
	}

	engine := options.engine
	if engine == nil {
		engine = gin.New()
	}
	engine.Use(options.middleware...)

	if err := mountControllers(engine, modules, containers, options.logger); err != nil {
		return nil, BootError{Phase: "mount", Cause: err}
	}

	options.logger.Info("application bootstrapped",
		zap.Int("modules", len(modules)),
		zap.String("root_container", rootContainer.ID()))

	return &App{
		engine: engine,
		root:   rootContainer,
		log:    options.logger,
	}, nil
}

// flattenModules walks the import tree depth-first and returns every module
// exactly once, in declaration order. Two distinct modules with the same
// name are rejected; the same *Module reached through several importers is
// deduplicated.
func flattenModules(root *Module) ([]*Module, error) {
	var modules []*Module
	seen := make(map[*Module]bool)
	byName := make(map[string]*Module)

	var walk func(m *Module) error
	walk = func(m *Module) error {
		if seen[m] {
			return nil
		}
		seen[m] = true

		if err := m.validate(); err != nil {
			return err
		}

		if existing, ok := byName[m.name]; ok && existing != m {
			return ModuleError{Module: m.name, Cause: errors.New("a different module with this name is already registered")}
		}
		byName[m.name] = m

		modules = append(modules, m)
		for _, imported := range m.imports {
			if err := walk(imported); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return modules, nil
}

// sortModules orders module names dependencies-first so importers are wired
// and resolved after their imports.
func sortModules(modules []*Module) ([]string, error) {
	g := graph.New()
	for _, m := range modules {
		g.AddNode(m.name)
		for _, imported := range m.imports {
			g.AddEdge(m.name, imported.name)
		}
	}
	return g.TopologicalSort()
}

// wireModules creates one container per module under the application root,
// registers providers, links imports, and checks export visibility.
func wireModules(root *Container, modules []*Module, order []string) (map[string]*Container, error) {
	byName := make(map[string]*Module, len(modules))
	for _, m := range modules {
		byName[m.name] = m
	}

	containers := make(map[string]*Container, len(modules))
	for _, name := range order {
		m := byName[name]
		c := root.NewChild(m.name)

		for _, p := range m.providers {
			if err := c.Register(p); err != nil {
				return nil, ModuleError{Module: m.name, Cause: err}
			}
		}

		for _, imported := range m.imports {
			c.Import(containers[imported.name], imported.exports...)
		}

		for _, token := range m.exports {
			if !m.exportable(token) {
				return nil, ModuleError{
					Module: m.name,
					Cause:  fmt.Errorf("cannot export %s: token is neither provided nor imported", token),
				}
			}
		}

		containers[name] = c
	}

	return containers, nil
}

// mountControllers creates a route group per controller and runs its setup
// with the owning module's container. Modules are mounted in declaration
// order so route registration stays deterministic.
func mountControllers(engine *gin.Engine, modules []*Module, containers map[string]*Container, log *zap.Logger) error {
	for _, m := range modules {
		c := containers[m.name]
		for _, ctrl := range m.controllers {
			group := engine.Group(ctrl.prefix)
			if err := ctrl.setup(group, c); err != nil {
				return ControllerError{Module: m.name, Prefix: ctrl.prefix, Cause: err}
			}
			log.Debug("controller mounted",
				zap.String("module", m.name),
				zap.String("prefix", ctrl.prefix))
		}
	}
	return nil
}

// App is the bootstrapped application: a restricted view of the underlying
// gin engine. It serves and shuts down gracefully; routes come exclusively
// from controllers and global middleware from WithMiddleware or WithEngine.
type App struct {
	engine *gin.Engine
	root   *Container
	log    *zap.Logger

	mu     sync.Mutex
	server *http.Server
}

// Handler returns the application as an http.Handler, for mounting into an
// existing server or for httptest.
func (a *App) Handler() http.Handler {
	return a.engine
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

// Root returns the application-level root container. Module containers are
// its children; providers registered with WithProviders live here.
func (a *App) Root() *Container {
	return a.root
}

// Run serves the application on the given address until Shutdown is called
// or the listener fails. It returns nil after a clean shutdown.
func (a *App) Run(addr string) error {
	a.mu.Lock()
	if a.server != nil {
		a.mu.Unlock()
		return errors.New("app is already running")
	}
	server := &http.Server{Addr: addr, Handler: a.engine}
	a.server = server
	a.mu.Unlock()

	a.log.Info("listening", zap.String("addr", addr))

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a running server, waiting for in-flight requests
// up to the context deadline. Calling Shutdown on an app that never ran is a
// no-op.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	server := a.server
	a.server = nil
	a.mu.Unlock()

	if server == nil {
		return nil
	}

	a.log.Info("shutting down")
	return server.Shutdown(ctx)
}
