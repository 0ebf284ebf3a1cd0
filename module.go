package modkit

import (
	"errors"
	"fmt"
)

// Module aggregates providers, controllers, imports, and exports under a
// name. At bootstrap every module gets its own container: the module's
// providers resolve against it, and importers see only the tokens listed in
// Exports.
//
// Example:
//
//	var storageModule = modkit.NewModule("storage",
//	    modkit.Providers(modkit.Injectable(openDatabase)),
//	    modkit.Exports(modkit.TokenOf[*gorm.DB]()),
//	)
//
//	var usersModule = modkit.NewModule("users",
//	    modkit.Imports(storageModule),
//	    modkit.Providers(modkit.Injectable(newUserService)),
//	    modkit.Controllers(modkit.NewController("/users", setupUserRoutes)),
//	)
func NewModule(name string, opts ...ModuleOption) *Module {
	m := &Module{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Module is created with NewModule; the zero value is not usable.
type Module struct {
	name        string
	imports     []*Module
	providers   []*Provider
	controllers []*Controller
	exports     []Token
}

// ModuleOption configures a module during NewModule.
type ModuleOption func(*Module)

// Imports declares the modules whose exports this module can resolve.
func Imports(modules ...*Module) ModuleOption {
	return func(m *Module) {
		m.imports = append(m.imports, modules...)
	}
}

// Providers declares the module's injectables.
func Providers(providers ...*Provider) ModuleOption {
	return func(m *Module) {
		m.providers = append(m.providers, providers...)
	}
}

// Controllers declares the module's controllers.
func Controllers(controllers ...*Controller) ModuleOption {
	return func(m *Module) {
		m.controllers = append(m.controllers, controllers...)
	}
}

// Exports lists the tokens this module makes visible to importers. A module
// may re-export tokens it imports.
func Exports(tokens ...Token) ModuleOption {
	return func(m *Module) {
		m.exports = append(m.exports, tokens...)
	}
}

// Name returns the module's name.
func (m *Module) Name() string {
	return m.name
}

// validate checks the module's own declarations. Cross-module checks (export
// visibility, duplicate names, import cycles) happen during Bootstrap.
func (m *Module) validate() error {
	if m.name == "" {
		return ModuleError{Module: m.name, Cause: errors.New("module name cannot be empty")}
	}

	for _, imported := range m.imports {
		if imported == nil {
			return ModuleError{Module: m.name, Cause: ErrNilModule}
		}
	}

	for _, p := range m.providers {
		if p == nil {
			return ModuleError{Module: m.name, Cause: ErrNilProvider}
		}
		if p.err != nil {
			return ModuleError{Module: m.name, Cause: p.err}
		}
	}

	for _, ct := range m.controllers {
		if ct == nil {
			return ModuleError{Module: m.name, Cause: ErrNilController}
		}
		if ct.setup == nil {
			return ModuleError{Module: m.name, Cause: fmt.Errorf("controller %q: %w", ct.prefix, ErrNilSetup)}
		}
	}

	seen := make(map[Token]bool, len(m.exports))
	for _, token := range m.exports {
		if token.IsZero() {
			return ModuleError{Module: m.name, Cause: ErrZeroToken}
		}
		if seen[token] {
			return ModuleError{Module: m.name, Cause: fmt.Errorf("token %s exported twice", token)}
		}
		seen[token] = true
	}

	return nil
}

// exportable reports whether the module can legitimately export the token:
// it either provides the token itself or one of its imports exports it
// (re-export).
func (m *Module) exportable(token Token) bool {
	for _, p := range m.providers {
		if p != nil && p.token == token {
			return true
		}
	}
	for _, imported := range m.imports {
		if imported == nil {
			continue
		}
		for _, exported := range imported.exports {
			if exported == token {
				return true
			}
		}
	}
	return false
}
