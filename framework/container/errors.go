package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ── Sentinels ─────────────────────────────────────────────────────────────────

// Every typed error below matches exactly one of these with errors.Is.
var (
	ErrConfiguration        = errors.New("container: configuration error")
	ErrUnresolvedDependency = errors.New("container: unresolved dependency")
	ErrCircularDependency   = errors.New("container: circular dependency")
	ErrInstantiation        = errors.New("container: instantiation failed")

	// ErrAlreadyRegistered is returned by a second call to Register.
	ErrAlreadyRegistered = errors.New("container: Register has already been called")

	// ErrNotReady is returned by Resolve before a successful Register, or after a failed one.
	ErrNotReady = errors.New("container: resolver is not ready")
)

// ── ConfigurationError ────────────────────────────────────────────────────────

// ConfigurationError reports a type that cannot be managed as declared: two
// lifecycle markers, an ambiguous constructor, an invalid candidate or a
// contract bound by two concrete types.
type ConfigurationError struct {
	Type   reflect.Type
	Other  reflect.Type // competing concrete type, for ambiguous bindings
	Reason string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("container: configuration error")
	if e.Type != nil {
		fmt.Fprintf(&b, " for [%s]", e.Type)
	}
	if e.Other != nil {
		fmt.Fprintf(&b, " (competing with [%s])", e.Other)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ── UnresolvedDependencyError ─────────────────────────────────────────────────

// UnresolvedDependencyError reports a type that has no usable binding.
// RequiredBy is nil when the type was requested directly through Resolve.
type UnresolvedDependencyError struct {
	Dependency  reflect.Type
	RequiredBy  reflect.Type
	Reason      string
	Suggestions []string
}

func (e *UnresolvedDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "container: could not resolve [%s]", e.Dependency)
	if e.RequiredBy != nil {
		fmt.Fprintf(&b, " required by [%s]", e.RequiredBy)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *UnresolvedDependencyError) Is(target error) bool { return target == ErrUnresolvedDependency }

// ── CircularDependencyError ───────────────────────────────────────────────────

// CircularDependencyError reports a dependency cycle. Root is the type the
// cycle returns to; Path lists the chain from Root back to Root.
type CircularDependencyError struct {
	Root reflect.Type
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	names := make([]string, len(e.Path))
	for i, t := range e.Path {
		names[i] = t.String()
	}
	return fmt.Sprintf("container: circular dependency on [%s]: %s", e.Root, strings.Join(names, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ── InstantiationError ────────────────────────────────────────────────────────

// InstantiationError wraps a failure raised while constructing Type.
type InstantiationError struct {
	Type  reflect.Type
	Cause error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("container: could not instantiate [%s]: %v", e.Type, e.Cause)
}

func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }

func (e *InstantiationError) Unwrap() error { return e.Cause }

// errorKind labels an error for metrics and logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUnresolvedDependency):
		return "unresolved"
	case errors.Is(err, ErrCircularDependency):
		return "circular"
	case errors.Is(err, ErrInstantiation):
		return "instantiation"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	default:
		return "other"
	}
}
