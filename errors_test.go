package modkit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modkit-go/modkit"
)

func TestErrorMessages(t *testing.T) {
	t.Run("DuplicateTokenError", func(t *testing.T) {
		t.Parallel()

		err := modkit.DuplicateTokenError{
			Container: "users",
			Token:     modkit.TokenOf[*testStore](),
		}
		assert.Contains(t, err.Error(), `container "users"`)
		assert.Contains(t, err.Error(), "*testStore")
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("NotFoundError without suggestions", func(t *testing.T) {
		t.Parallel()

		err := modkit.NotFoundError{
			Container: "users",
			Token:     modkit.TokenOf[*testStore](),
		}
		assert.Equal(t, `container "users": no provider for *testStore`, err.Error())
		assert.ErrorIs(t, err, modkit.ErrNotFound)
	})

	t.Run("NotFoundError with suggestions", func(t *testing.T) {
		t.Parallel()

		err := modkit.NotFoundError{
			Container: "users",
			Token:     modkit.TokenOf[*testStore](),
			Available: []modkit.Token{
				modkit.NamedTokenOf[*testStore]("ro"),
				modkit.TokenOf[int](),
			},
		}
		assert.Contains(t, err.Error(), "did you mean")
		assert.Contains(t, err.Error(), `*testStore["ro"]`)
		assert.NotContains(t, err.Error(), "int")
	})

	t.Run("NotExportedError", func(t *testing.T) {
		t.Parallel()

		err := modkit.NotExportedError{
			Token:    modkit.TokenOf[*testLogger](),
			Module:   "storage",
			Importer: "users",
		}
		assert.Contains(t, err.Error(), `module "storage"`)
		assert.Contains(t, err.Error(), "*testLogger")
		assert.Contains(t, err.Error(), "does not export")
		assert.ErrorIs(t, err, modkit.ErrNotExported)
	})

	t.Run("CycleError", func(t *testing.T) {
		t.Parallel()

		err := modkit.CycleError{Chain: []modkit.Token{
			modkit.TokenOf[*testStore](),
			modkit.TokenOf[*testService](),
			modkit.TokenOf[*testStore](),
		}}
		assert.Equal(t, "circular dependency: *testStore -> *testService -> *testStore", err.Error())
	})

	t.Run("ModuleError wraps its cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("bad provider")
		err := modkit.ModuleError{Module: "users", Cause: cause}
		assert.Equal(t, `module "users": bad provider`, err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("ControllerError wraps its cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("setup failed")
		err := modkit.ControllerError{Module: "users", Prefix: "/users", Cause: cause}
		assert.Contains(t, err.Error(), `module "users"`)
		assert.Contains(t, err.Error(), `controller "/users"`)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("BootError names the phase", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("wiring exploded")
		err := modkit.BootError{Phase: "wire", Cause: cause}
		assert.Equal(t, "bootstrap failed during wire: wiring exploded", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("ImportCycleError formats the module path", func(t *testing.T) {
		t.Parallel()

		err := &modkit.ImportCycleError{Path: []string{"a", "b", "a"}}
		assert.Equal(t, "module import cycle: a -> b -> a", err.Error())
	})

	t.Run("LifetimeError", func(t *testing.T) {
		t.Parallel()

		err := modkit.LifetimeError{Value: "sometimes"}
		assert.Equal(t, "invalid lifetime: sometimes", err.Error())
	})
}
