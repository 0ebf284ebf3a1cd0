package modkit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modkit-go/modkit/internal/graph"
)

// Sentinel errors. These are wrapped in typed errors when returned so callers
// can match with errors.Is while still getting full diagnostics.
var (
	ErrNotFound      = errors.New("provider not found")
	ErrNotExported   = errors.New("provider not exported")
	ErrZeroToken     = errors.New("token carries no type")
	ErrNilFactory    = errors.New("factory cannot be nil")
	ErrNilProvider   = errors.New("provider cannot be nil")
	ErrNilModule     = errors.New("module cannot be nil")
	ErrNilController = errors.New("controller cannot be nil")
	ErrNilSetup      = errors.New("controller setup cannot be nil")
)

var (
	_ error = LifetimeError{}
	_ error = DuplicateTokenError{}
	_ error = NotFoundError{}
	_ error = NotExportedError{}
	_ error = CycleError{}
	_ error = ModuleError{}
	_ error = ControllerError{}
	_ error = BootError{}
	_ error = FactoryPanicError{}
)

// ImportCycleError reports a cycle in the module import graph. The Path holds
// the module names along the cycle.
type ImportCycleError = graph.CycleError

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime: %v", e.Value)
}

// DuplicateTokenError indicates a token is already registered in a container.
type DuplicateTokenError struct {
	Container string
	Token     Token
}

func (e DuplicateTokenError) Error() string {
	return fmt.Sprintf("container %q: token %s already registered (use NamedTokenOf for multiple providers of one type)",
		e.Container, e.Token)
}

// NotFoundError indicates no provider is registered for a token, neither in
// the container itself nor through its imports or parent chain.
type NotFoundError struct {
	Container string
	Token     Token
	Available []Token // tokens that ARE visible, used for suggestions
}

func (e NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "container %q: no provider for %s", e.Container, e.Token)

	if similar := findSimilarTokens(e.Token, e.Available); len(similar) > 0 {
		b.WriteString(" (did you mean ")
		for i, t := range similar {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.String())
		}
		b.WriteString("?)")
	}

	return b.String()
}

func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}

// findSimilarTokens finds visible tokens with similar type names using a
// simple substring match, capped at three suggestions.
func findSimilarTokens(target Token, available []Token) []Token {
	if target.Type == nil || len(available) == 0 {
		return nil
	}

	targetName := strings.ToLower(target.Type.String())
	targetShort := strings.ToLower(target.Type.Name())
	if targetShort == "" {
		targetShort = targetName
	}

	var similar []Token
	for _, t := range available {
		if t.Type == nil || t == target {
			continue
		}

		name := strings.ToLower(t.Type.String())
		short := strings.ToLower(t.Type.Name())
		if short == "" {
			short = name
		}

		if short == targetShort ||
			strings.Contains(name, targetShort) ||
			strings.Contains(targetName, short) {
			similar = append(similar, t)
		}

		if len(similar) >= 3 {
			break
		}
	}

	return similar
}

// NotExportedError indicates a token exists in an imported module's container
// but the module does not export it to importers.
type NotExportedError struct {
	Token    Token
	Module   string // module that holds the provider
	Importer string // container that attempted the resolution
}

func (e NotExportedError) Error() string {
	return fmt.Sprintf("container %q: module %q provides %s but does not export it (add it to the module's exports)",
		e.Importer, e.Module, e.Token)
}

func (e NotExportedError) Unwrap() error {
	return ErrNotExported
}

// CycleError indicates a circular provider dependency detected during
// resolution. Chain holds the tokens along the cycle, first and last entries
// being the same token.
type CycleError struct {
	Chain []Token
}

func (e CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		parts[i] = t.String()
	}
	return "circular dependency: " + strings.Join(parts, " -> ")
}

// ModuleError wraps errors from module validation or wiring.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// ControllerError wraps errors from a controller setup callback.
type ControllerError struct {
	Module string
	Prefix string
	Cause  error
}

func (e ControllerError) Error() string {
	return fmt.Sprintf("module %q: controller %q: %v", e.Module, e.Prefix, e.Cause)
}

func (e ControllerError) Unwrap() error {
	return e.Cause
}

// BootError wraps errors that occur during Bootstrap, tagged with the phase
// that failed.
type BootError struct {
	Phase string // "flatten", "wire", "resolve", "mount"
	Cause error
}

func (e BootError) Error() string {
	return fmt.Sprintf("bootstrap failed during %s: %v", e.Phase, e.Cause)
}

func (e BootError) Unwrap() error {
	return e.Cause
}

// FactoryPanicError indicates a provider factory panicked during resolution.
// It captures the panic value and stack trace.
type FactoryPanicError struct {
	Token Token
	Panic any
	Stack []byte
}

func (e FactoryPanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "factory for %s panicked: %v", e.Token, e.Panic)
	if len(e.Stack) > 0 {
		b.WriteString("\n")
		b.Write(e.Stack)
	}
	return b.String()
}
