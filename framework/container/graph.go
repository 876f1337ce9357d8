package container

import "reflect"

// edges derives t's ordered dependency edges from its constructor. Required
// parameters must be resolvable; defaulted parameters only add an edge when
// their type is, since that is the value the factory will then use.
func (r *registry) edges(t reflect.Type) ([]reflect.Type, error) {
	ctor := r.catalog[t]
	if ctor == nil || !ctor.fn.IsValid() {
		return nil, nil
	}

	out := make([]reflect.Type, 0, len(ctor.params))
	for i, p := range ctor.params {
		dep, reason, ok := r.target(p)
		if _, optional := ctor.defaults[i]; optional {
			if ok {
				out = append(out, dep)
			}
			continue
		}
		if !ok {
			return nil, &UnresolvedDependencyError{
				Dependency:  p,
				RequiredBy:  t,
				Reason:      reason,
				Suggestions: r.suggest(p),
			}
		}
		out = append(out, dep)
	}
	return out, nil
}

// ── Validator ─────────────────────────────────────────────────────────────────

// validator walks the dependency graph depth-first from every node. done
// spans the whole walk so shared subgraphs are visited once; stack holds the
// chain below the current root.
type validator struct {
	reg     *registry
	done    map[reflect.Type]bool
	onStack map[reflect.Type]bool
	stack   []reflect.Type
	order   []reflect.Type
}

// validate checks every registered and catalogued type for cycles and
// unresolved edges. On success it returns the types in dependency-first
// order.
func validate(reg *registry) ([]reflect.Type, error) {
	v := &validator{
		reg:     reg,
		done:    make(map[reflect.Type]bool),
		onStack: make(map[reflect.Type]bool),
	}

	roots := make([]reflect.Type, 0, len(reg.managed)+len(reg.unmanaged))
	roots = append(roots, reg.managed...)
	roots = append(roots, reg.unmanaged...)

	for _, root := range roots {
		if err := v.visit(root); err != nil {
			return nil, err
		}
	}
	return v.order, nil
}

func (v *validator) visit(t reflect.Type) error {
	if v.done[t] {
		return nil
	}
	if v.onStack[t] {
		return v.cycle(t)
	}

	v.onStack[t] = true
	v.stack = append(v.stack, t)

	deps, err := v.reg.edges(t)
	if err != nil {
		return err
	}
	v.reg.deps[t] = deps

	for _, dep := range deps {
		if err := v.visit(dep); err != nil {
			return err
		}
	}

	v.stack = v.stack[:len(v.stack)-1]
	v.onStack[t] = false
	v.done[t] = true
	v.order = append(v.order, t)
	return nil
}

// cycle builds the error for an edge that leads back to t, which is on the
// stack: either the current root or a type below it.
func (v *validator) cycle(t reflect.Type) error {
	start := 0
	for i, s := range v.stack {
		if s == t {
			start = i
			break
		}
	}
	path := append([]reflect.Type(nil), v.stack[start:]...)
	path = append(path, t)
	return &CircularDependencyError{Root: t, Path: path}
}
