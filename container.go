package modkit

import (
	"errors"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Container is the runtime dependency resolver. It holds a provider registry,
// caches singleton instances, and resolves tokens through a lookup chain:
// own providers first, then the exports of imported containers, then the
// parent chain.
//
// Containers are safe for concurrent use. A singleton factory runs at most
// once even under concurrent resolution.
type Container struct {
	id     string
	name   string
	parent *Container

	mu        *sync.RWMutex
	providers map[Token]*registration
	order     []Token
	imports   []importLink

	// res carries the active resolution chain. It is only set on the views
	// handed to factories, never on the container itself.
	res *resolution
}

// registration pairs a provider with its singleton slot.
type registration struct {
	provider *Provider
	once     sync.Once
	value    any
	err      error
}

// importLink makes another container's exported tokens visible to this one.
type importLink struct {
	container *Container
	exports   map[Token]bool
}

// resolution tracks the chain of tokens being resolved, for cycle detection
// and diagnostics.
type resolution struct {
	chain []Token
}

func (r *resolution) contains(token Token) bool {
	return slices.Contains(r.chain, token)
}

func (r *resolution) push(token Token) *resolution {
	chain := make([]Token, 0, len(r.chain)+1)
	chain = append(chain, r.chain...)
	chain = append(chain, token)
	return &resolution{chain: chain}
}

// NewContainer creates an empty root container. The name appears in error
// messages and logs.
func NewContainer(name string) *Container {
	return &Container{
		id:        uuid.NewString(),
		name:      name,
		mu:        &sync.RWMutex{},
		providers: make(map[Token]*registration),
	}
}

// NewChild creates a container whose resolutions fall back to c for tokens it
// does not own.
func (c *Container) NewChild(name string) *Container {
	child := NewContainer(name)
	child.parent = c
	return child
}

// Name returns the container's name.
func (c *Container) Name() string {
	return c.name
}

// ID returns the container's unique identity.
func (c *Container) ID() string {
	return c.id
}

// Parent returns the parent container, or nil for a root container.
func (c *Container) Parent() *Container {
	return c.parent
}

// Register adds a provider to the container. Registering a second provider
// under the same token fails with DuplicateTokenError.
func (c *Container) Register(p *Provider) error {
	if p == nil {
		return ErrNilProvider
	}
	if p.err != nil {
		return p.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.providers[p.token]; exists {
		return DuplicateTokenError{Container: c.name, Token: p.token}
	}

	c.providers[p.token] = &registration{provider: p}
	c.order = append(c.order, p.token)
	return nil
}

// Import makes the given tokens of another container resolvable from this
// one. Only the listed tokens are visible; resolving any other token the
// imported container holds fails with NotExportedError.
func (c *Container) Import(from *Container, exports ...Token) {
	if from == nil {
		return
	}

	set := make(map[Token]bool, len(exports))
	for _, token := range exports {
		if !token.IsZero() {
			set[token] = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.imports = append(c.imports, importLink{container: from, exports: set})
}

// Contains reports whether the container itself owns a provider for the
// token. Imports and the parent chain are not consulted.
func (c *Container) Contains(token Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.providers[token]
	return exists
}

// Tokens returns the container's own tokens in registration order.
func (c *Container) Tokens() []Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := make([]Token, len(c.order))
	copy(tokens, c.order)
	return tokens
}

// Resolve returns the value for the token, creating it if necessary. For
// singletons the value is created on first resolution and cached in the
// container that owns the provider; transients are created on every call.
//
// Resolution fails with CycleError when the token is already being resolved
// further up the chain, with NotExportedError when an imported module holds
// the token but does not export it, and with NotFoundError otherwise.
func (c *Container) Resolve(token Token) (any, error) {
	res := c.res
	if res == nil {
		res = &resolution{}
	}
	return c.resolve(token, res)
}

func (c *Container) resolve(token Token, res *resolution) (any, error) {
	if token.IsZero() {
		return nil, ErrZeroToken
	}

	if res.contains(token) {
		return nil, CycleError{Chain: res.push(token).chain}
	}

	c.mu.RLock()
	reg := c.providers[token]
	links := c.imports
	c.mu.RUnlock()

	if reg != nil {
		return c.instantiate(reg, token, res)
	}

	var notExported error
	for _, link := range links {
		if link.exports[token] {
			return link.container.resolve(token, res)
		}
		if notExported == nil && link.container.Contains(token) {
			notExported = NotExportedError{
				Token:    token,
				Module:   link.container.name,
				Importer: c.name,
			}
		}
	}

	if c.parent != nil {
		value, err := c.parent.resolve(token, res)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return value, err
		}
	}

	if notExported != nil {
		return nil, notExported
	}

	return nil, NotFoundError{
		Container: c.name,
		Token:     token,
		Available: c.visibleTokens(),
	}
}

// instantiate runs the provider's factory with a view of the container that
// carries the extended resolution chain.
func (c *Container) instantiate(reg *registration, token Token, res *resolution) (any, error) {
	view := c.view(res.push(token))

	if reg.provider.lifetime == Transient {
		return invokeFactory(reg.provider, view)
	}

	reg.once.Do(func() {
		reg.value, reg.err = invokeFactory(reg.provider, view)
	})
	return reg.value, reg.err
}

// view returns a handle sharing the container's state but carrying the given
// resolution chain. Factories receive views, so nested Resolve calls extend
// the chain instead of starting a fresh one.
func (c *Container) view(res *resolution) *Container {
	return &Container{
		id:        c.id,
		name:      c.name,
		parent:    c.parent,
		mu:        c.mu,
		providers: c.providers,
		order:     c.order,
		imports:   c.imports,
		res:       res,
	}
}

func invokeFactory(p *Provider, view *Container) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = FactoryPanicError{Token: p.token, Panic: rec, Stack: debug.Stack()}
		}
	}()

	return p.factory(view)
}

// ResolveAll eagerly resolves every provider owned by the container, in
// registration order. Transient factories are invoked once to validate them;
// their results are discarded.
func (c *Container) ResolveAll() error {
	for _, token := range c.Tokens() {
		if _, err := c.Resolve(token); err != nil {
			return err
		}
	}
	return nil
}

// visibleTokens collects every token resolvable from this container: its
// own, the exports of its imports, and everything visible to its parents.
// Used for suggestions in NotFoundError.
func (c *Container) visibleTokens() []Token {
	seen := make(map[Token]bool)
	var tokens []Token

	add := func(token Token) {
		if !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
	}

	for current := c; current != nil; current = current.parent {
		current.mu.RLock()
		own := make([]Token, len(current.order))
		copy(own, current.order)
		links := current.imports
		current.mu.RUnlock()

		for _, token := range own {
			add(token)
		}
		for _, link := range links {
			for token := range link.exports {
				add(token)
			}
		}
	}

	return tokens
}
