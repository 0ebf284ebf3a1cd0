package modkit

import "fmt"

// Resolve returns the value registered for type T, resolving it from the
// given container.
func Resolve[T any](c *Container) (T, error) {
	return resolveToken[T](c, TokenOf[T]())
}

// ResolveNamed returns the value registered for type T under the given name.
func ResolveNamed[T any](c *Container, name string) (T, error) {
	return resolveToken[T](c, NamedTokenOf[T](name))
}

// MustResolve is like Resolve but panics on error. Intended for controller
// setup and application wiring where a missing provider is fatal.
func MustResolve[T any](c *Container) T {
	value, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return value
}

// MustResolveNamed is like ResolveNamed but panics on error.
func MustResolveNamed[T any](c *Container, name string) T {
	value, err := ResolveNamed[T](c, name)
	if err != nil {
		panic(err)
	}
	return value
}

func resolveToken[T any](c *Container, token Token) (T, error) {
	var zero T

	value, err := c.Resolve(token)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("resolve %s: factory produced %T", token, value)
	}
	return typed, nil
}
