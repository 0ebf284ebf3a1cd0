package modkit

import (
	"fmt"
	"reflect"
	"strings"
)

// Provider describes a single injectable: a token, a lifetime, and the
// factory that produces the value. Providers are created with Injectable or
// Value and registered into containers through modules.
type Provider struct {
	token    Token
	lifetime Lifetime
	factory  func(*Container) (any, error)
	err      error // deferred construction error, surfaced at registration
}

// Token returns the token this provider is registered under.
func (p *Provider) Token() Token {
	return p.token
}

// Lifetime returns the provider's lifetime.
func (p *Provider) Lifetime() Lifetime {
	return p.lifetime
}

// Injectable wraps a factory into a Provider for type T. The factory receives
// the container of the module the provider belongs to and resolves its own
// dependencies from it.
//
// Providers are Singleton unless WithLifetime(Transient) is given. Use Name
// to register multiple providers of the same type under different names.
//
// Example:
//
//	modkit.Injectable(func(c *modkit.Container) (*UserService, error) {
//	    store, err := modkit.Resolve[*UserStore](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewUserService(store), nil
//	})
func Injectable[T any](factory func(*Container) (T, error), opts ...ProvideOption) *Provider {
	options := applyProvideOptions(opts)

	p := &Provider{
		token:    Token{Type: reflect.TypeOf((*T)(nil)).Elem(), Name: options.Name},
		lifetime: options.Lifetime,
	}

	if factory == nil {
		p.err = ErrNilFactory
		return p
	}
	if err := options.Validate(); err != nil {
		p.err = err
		return p
	}

	p.factory = func(c *Container) (any, error) {
		return factory(c)
	}
	return p
}

// Value wraps a pre-built instance into a singleton Provider for type T.
// The instance is returned as-is on every resolution.
func Value[T any](value T, opts ...ProvideOption) *Provider {
	options := applyProvideOptions(opts)

	p := &Provider{
		token:    Token{Type: reflect.TypeOf((*T)(nil)).Elem(), Name: options.Name},
		lifetime: Singleton,
	}

	if err := options.Validate(); err != nil {
		p.err = err
		return p
	}
	if options.Lifetime != Singleton {
		p.err = fmt.Errorf("%s: a Value provider is always a singleton", p.token)
		return p
	}

	p.factory = func(*Container) (any, error) {
		return value, nil
	}
	return p
}

// A ProvideOption modifies the default behavior of Injectable and Value.
type ProvideOption interface {
	applyProvideOption(*provideOptions)
}

type provideOptions struct {
	Name     string
	Lifetime Lifetime
}

func applyProvideOptions(opts []ProvideOption) *provideOptions {
	options := &provideOptions{Lifetime: Singleton}
	for _, opt := range opts {
		if opt != nil {
			opt.applyProvideOption(options)
		}
	}
	return options
}

func (o *provideOptions) Validate() error {
	if !o.Lifetime.IsValid() {
		return LifetimeError{Value: o.Lifetime}
	}

	// Names must be representable inside a backquoted string so they render
	// cleanly in error chains.
	if strings.ContainsRune(o.Name, '`') {
		return fmt.Errorf("invalid modkit.Name(%q): names cannot contain backquotes", o.Name)
	}
	return nil
}

// Name is a ProvideOption that registers the provider under a named token.
//
// Given,
//
//	func NewReadOnlyConnection(...) (*Connection, error)
//	func NewReadWriteConnection(...) (*Connection, error)
//
// the following registers two connections, one under the name "ro" and the
// other under "rw":
//
//	modkit.Injectable(newRO, modkit.Name("ro"))
//	modkit.Injectable(newRW, modkit.Name("rw"))
func Name(name string) ProvideOption {
	return provideNameOption(name)
}

type provideNameOption string

func (o provideNameOption) String() string {
	return fmt.Sprintf("Name(%q)", string(o))
}

func (o provideNameOption) applyProvideOption(opts *provideOptions) {
	opts.Name = string(o)
}

// WithLifetime is a ProvideOption that sets the provider's lifetime.
func WithLifetime(lifetime Lifetime) ProvideOption {
	return provideLifetimeOption(lifetime)
}

type provideLifetimeOption Lifetime

func (o provideLifetimeOption) String() string {
	return fmt.Sprintf("WithLifetime(%s)", Lifetime(o))
}

func (o provideLifetimeOption) applyProvideOption(opts *provideOptions) {
	opts.Lifetime = Lifetime(o)
}
