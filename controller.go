package modkit

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SetupFunc registers a controller's routes. It receives the route group for
// the controller's prefix and the container of the module the controller
// belongs to.
type SetupFunc func(r gin.IRouter, c *Container) error

// Controller binds a route prefix and a setup callback to the router.
// Bootstrap mounts the prefix as a gin route group and invokes the callback
// with the owning module's container.
//
// Example:
//
//	modkit.NewController("/users", func(r gin.IRouter, c *modkit.Container) error {
//	    svc, err := modkit.Resolve[*UserService](c)
//	    if err != nil {
//	        return err
//	    }
//	    r.GET("", svc.handleList)
//	    r.GET("/:id", svc.handleGet)
//	    return nil
//	})
type Controller struct {
	prefix string
	setup  SetupFunc
}

// NewController creates a controller for the given route prefix. The prefix
// is normalized to start with a slash; an empty prefix mounts at the root.
func NewController(prefix string, setup SetupFunc) *Controller {
	return &Controller{
		prefix: normalizePrefix(prefix),
		setup:  setup,
	}
}

// Prefix returns the controller's normalized route prefix.
func (ct *Controller) Prefix() string {
	return ct.prefix
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
