package modkit

import (
	"fmt"
	"reflect"
)

// Token uniquely identifies a provider in a container. A token is a service
// type plus an optional name, so multiple providers of the same type can
// coexist under different names.
type Token struct {
	Type reflect.Type
	Name string
}

// TokenOf returns the token for type T.
func TokenOf[T any]() Token {
	return Token{Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// NamedTokenOf returns the token for type T under the given name.
func NamedTokenOf[T any](name string) Token {
	return Token{Type: reflect.TypeOf((*T)(nil)).Elem(), Name: name}
}

// IsZero reports whether the token carries no type.
func (t Token) IsZero() bool {
	return t.Type == nil
}

// String returns a short human-readable form used in error messages and logs.
func (t Token) String() string {
	if t.Name != "" {
		return fmt.Sprintf("%s[%q]", formatType(t.Type), t.Name)
	}
	return formatType(t.Type)
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
