package modkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modkit-go/modkit"
)

func TestInjectable(t *testing.T) {
	t.Run("defaults to singleton", func(t *testing.T) {
		t.Parallel()

		p := loggerProvider()
		assert.Equal(t, modkit.Singleton, p.Lifetime())
		assert.Equal(t, modkit.TokenOf[*testLogger](), p.Token())
	})

	t.Run("interface token", func(t *testing.T) {
		t.Parallel()

		type greeter interface{ Greet() string }

		p := modkit.Injectable(func(*modkit.Container) (greeter, error) {
			return nil, nil
		})
		assert.Equal(t, modkit.TokenOf[greeter](), p.Token())
	})

	t.Run("named token", func(t *testing.T) {
		t.Parallel()

		p := storeProvider(modkit.Name("ro"))
		assert.Equal(t, modkit.NamedTokenOf[*testStore]("ro"), p.Token())
	})

	t.Run("transient lifetime", func(t *testing.T) {
		t.Parallel()

		p := storeProvider(modkit.WithLifetime(modkit.Transient))
		assert.Equal(t, modkit.Transient, p.Lifetime())
	})

	t.Run("invalid lifetime surfaces at registration", func(t *testing.T) {
		t.Parallel()

		p := storeProvider(modkit.WithLifetime(modkit.Lifetime(42)))
		c := modkit.NewContainer("test")

		err := c.Register(p)
		var lifetimeErr modkit.LifetimeError
		assert.ErrorAs(t, err, &lifetimeErr)
	})

	t.Run("backquoted name surfaces at registration", func(t *testing.T) {
		t.Parallel()

		p := storeProvider(modkit.Name("bad`name"))
		c := modkit.NewContainer("test")
		assert.Error(t, c.Register(p))
	})
}

func TestValue(t *testing.T) {
	t.Run("returns the instance as-is", func(t *testing.T) {
		t.Parallel()

		logger := newTestLogger()
		c := modkit.NewContainer("test")
		require.NoError(t, c.Register(modkit.Value(logger)))

		resolved, err := modkit.Resolve[*testLogger](c)
		require.NoError(t, err)
		assert.Same(t, logger, resolved)
	})

	t.Run("rejects transient lifetime", func(t *testing.T) {
		t.Parallel()

		p := modkit.Value(newTestLogger(), modkit.WithLifetime(modkit.Transient))
		c := modkit.NewContainer("test")
		assert.Error(t, c.Register(p))
	})
}

func TestToken(t *testing.T) {
	t.Run("string forms", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "*testStore", modkit.TokenOf[*testStore]().String())
		assert.Equal(t, `*testStore["ro"]`, modkit.NamedTokenOf[*testStore]("ro").String())
		assert.Equal(t, "string", modkit.TokenOf[string]().String())
		assert.Equal(t, "<nil>", modkit.Token{}.String())
	})

	t.Run("zero token", func(t *testing.T) {
		t.Parallel()

		assert.True(t, modkit.Token{}.IsZero())
		assert.False(t, modkit.TokenOf[int]().IsZero())
	})
}

func TestLifetime(t *testing.T) {
	t.Run("string and validity", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Singleton", modkit.Singleton.String())
		assert.Equal(t, "Transient", modkit.Transient.String())
		assert.Equal(t, "Unknown(7)", modkit.Lifetime(7).String())

		assert.True(t, modkit.Singleton.IsValid())
		assert.True(t, modkit.Transient.IsValid())
		assert.False(t, modkit.Lifetime(7).IsValid())
	})

	t.Run("text round trip", func(t *testing.T) {
		t.Parallel()

		text, err := modkit.Transient.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "Transient", string(text))

		var l modkit.Lifetime
		require.NoError(t, l.UnmarshalText([]byte("transient")))
		assert.Equal(t, modkit.Transient, l)

		var invalid modkit.Lifetime
		err = invalid.UnmarshalText([]byte("sometimes"))
		var lifetimeErr modkit.LifetimeError
		assert.ErrorAs(t, err, &lifetimeErr)
	})
}
