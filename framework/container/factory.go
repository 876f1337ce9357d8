package container

import (
	"errors"
	"fmt"
	"reflect"
)

var errNilInstance = errors.New("constructor returned nil")

// resolve produces a value for t on behalf of requiredBy (nil for a direct
// Resolve). Contracts are translated to their implementer first.
//
// Singletons without an instance are built here; that only happens during
// Register, which builds every singleton before the resolver becomes Ready.
func (r *registry) resolve(t, requiredBy reflect.Type) (reflect.Value, error) {
	concrete, reason, ok := r.target(t)
	if !ok {
		if err := r.ambiguous(t); err != nil {
			return reflect.Value{}, err
		}
		return reflect.Value{}, &UnresolvedDependencyError{
			Dependency:  t,
			RequiredBy:  requiredBy,
			Reason:      reason,
			Suggestions: r.suggest(t),
		}
	}

	e, managed := r.entries[concrete]
	if managed && e.lifetime == LifetimeSingleton {
		if !e.instance.IsValid() {
			v, err := r.instantiate(concrete)
			if err != nil {
				return reflect.Value{}, err
			}
			e.instance = v
		}
		return e.instance, nil
	}
	return r.instantiate(concrete)
}

// instantiate builds a fresh t, resolving its constructor parameters
// recursively. The validator has already proven the recursion terminates.
func (r *registry) instantiate(t reflect.Type) (reflect.Value, error) {
	ctor := r.catalog[t]
	if ctor == nil || !ctor.fn.IsValid() {
		return newValue(t), nil
	}

	args := make([]reflect.Value, len(ctor.params))
	for i, p := range ctor.params {
		if def, optional := ctor.defaults[i]; optional {
			if _, _, ok := r.target(p); !ok {
				args[i] = def
				continue
			}
		}
		v, err := r.resolve(p, t)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}
	return ctor.call(args)
}

// call invokes the constructor, turning panics, returned errors and nil
// results into an InstantiationError.
func (c *constructor) call(args []reflect.Value) (v reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			cause, ok := rec.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", rec)
			}
			v, err = reflect.Value{}, &InstantiationError{Type: c.typ, Cause: cause}
		}
	}()

	out := c.fn.Call(args)
	if c.returns && !out[1].IsNil() {
		return reflect.Value{}, &InstantiationError{Type: c.typ, Cause: out[1].Interface().(error)}
	}
	if isNil(out[0]) {
		return reflect.Value{}, &InstantiationError{Type: c.typ, Cause: errNilInstance}
	}
	return out[0], nil
}

// newValue builds a constructor-less type directly: new(T) for *T, the zero
// value otherwise.
func newValue(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem())
	}
	return reflect.New(t).Elem()
}
