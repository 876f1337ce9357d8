package container

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ConflictPolicy decides what happens when two concrete types implement the
// same contract.
type ConflictPolicy int

const (
	// ConflictFail aborts Register with a ConfigurationError naming both types.
	ConflictFail ConflictPolicy = iota
	// ConflictInvalidate keeps going but marks the contract unresolved, so any
	// use of it fails with an UnresolvedDependencyError.
	ConflictInvalidate
)

func (p ConflictPolicy) String() string {
	if p == ConflictInvalidate {
		return "invalidate"
	}
	return "fail"
}

// ParseConflictPolicy maps "fail" and "invalidate" to a policy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return ConflictFail, nil
	case "invalidate":
		return ConflictInvalidate, nil
	}
	return ConflictFail, fmt.Errorf("container: unknown conflict policy %q", s)
}

// ── Registry ──────────────────────────────────────────────────────────────────

// entry is the registration of one concrete type. Contract keys share the
// entry of their implementer, so a singleton has one instance however it is
// reached.
type entry struct {
	concrete reflect.Type
	lifetime Lifetime
	instance reflect.Value // singleton instance, set once during Register
}

// constructor is the catalogued way to build one concrete type. fn is the
// zero Value for types built directly.
type constructor struct {
	typ      reflect.Type
	fn       reflect.Value
	returns  bool
	params   []reflect.Type
	defaults map[int]reflect.Value
	instance reflect.Value
}

// registry holds everything Register computes. It is written only while the
// resolver is Registering and read-only afterwards, except for the implicit
// contract cache.
type registry struct {
	policy ConflictPolicy

	// every known concrete type, managed or not
	catalog map[reflect.Type]*constructor
	known   []reflect.Type

	// type (concrete or contract) → registration entry
	entries map[reflect.Type]*entry

	// contract → bound implementer
	implementers map[reflect.Type]reflect.Type

	// contract → competing implementers, under ConflictInvalidate
	conflicts map[reflect.Type][]reflect.Type

	// concrete → contracts it is bound to
	boundTo map[reflect.Type][]reflect.Type

	// concrete → ordered dependency edges, filled by the validator
	deps map[reflect.Type][]reflect.Type

	contracts []reflect.Type
	managed   []reflect.Type
	unmanaged []reflect.Type

	// interface → managed implementers, for interfaces no candidate named.
	// Filled lazily by concurrent Resolve calls.
	implicit sync.Map
}

func newRegistry(policy ConflictPolicy) *registry {
	return &registry{
		policy:       policy,
		catalog:      make(map[reflect.Type]*constructor),
		entries:      make(map[reflect.Type]*entry),
		implementers: make(map[reflect.Type]reflect.Type),
		conflicts:    make(map[reflect.Type][]reflect.Type),
		boundTo:      make(map[reflect.Type][]reflect.Type),
		deps:         make(map[reflect.Type][]reflect.Type),
	}
}

// scanAndRegister catalogs the candidates, classifies each concrete type and
// binds managed types to the contracts they implement.
func (r *registry) scanAndRegister(candidates []Candidate) error {
	seenContract := make(map[reflect.Type]bool)
	addContract := func(t reflect.Type) {
		if !seenContract[t] && !isMarker(t) {
			seenContract[t] = true
			r.contracts = append(r.contracts, t)
		}
	}

	for _, c := range candidates {
		if c.err != nil {
			return c.err
		}
		if c.isContract() {
			addContract(c.typ)
			continue
		}
		if err := r.catalogue(c); err != nil {
			return err
		}
	}

	// Interfaces named by constructor parameters are contracts as well.
	for _, t := range r.known {
		for _, p := range r.catalog[t].params {
			if p.Kind() == reflect.Interface {
				addContract(p)
			}
		}
	}

	for _, t := range r.known {
		if err := r.register(t); err != nil {
			return err
		}
	}
	return nil
}

// catalogue records how to build c's type. A type may have at most one
// constructor or instance; a bare Type[T] mention never overrides one.
func (r *registry) catalogue(c Candidate) error {
	next := &constructor{typ: c.typ, defaults: c.defaults, instance: c.instance}
	if c.hasConstructor() {
		next.fn = c.ctor
		next.returns = c.returns
		ft := c.ctor.Type()
		next.params = make([]reflect.Type, ft.NumIn())
		for i := range next.params {
			next.params[i] = ft.In(i)
		}
	}

	prev, exists := r.catalog[c.typ]
	if !exists {
		r.catalog[c.typ] = next
		r.known = append(r.known, c.typ)
		return nil
	}
	if !prev.buildable() {
		r.catalog[c.typ] = next
		return nil
	}
	if !next.buildable() {
		return nil
	}
	return &ConfigurationError{Type: c.typ, Reason: "ambiguous constructor: more than one constructor or instance supplied"}
}

func (c *constructor) buildable() bool { return c.fn.IsValid() || c.instance.IsValid() }

// register classifies t and, when managed, registers it and its contracts.
func (r *registry) register(t reflect.Type) error {
	ctor := r.catalog[t]

	lifetime, err := Classify(t)
	if err != nil {
		return err
	}
	if ctor.instance.IsValid() {
		lifetime = LifetimeSingleton
	}
	if lifetime == NotManaged {
		r.unmanaged = append(r.unmanaged, t)
		return nil
	}

	e := &entry{concrete: t, lifetime: lifetime, instance: ctor.instance}
	r.entries[t] = e
	r.managed = append(r.managed, t)

	for _, contract := range r.contracts {
		if !t.Implements(contract) {
			continue
		}
		if err := r.bind(contract, e); err != nil {
			return err
		}
	}
	return nil
}

// bind maps contract to e's concrete type, applying the conflict policy when
// the contract is already taken.
func (r *registry) bind(contract reflect.Type, e *entry) error {
	if competing, conflicted := r.conflicts[contract]; conflicted {
		r.conflicts[contract] = append(competing, e.concrete)
		return nil
	}

	current, taken := r.implementers[contract]
	if !taken {
		r.implementers[contract] = e.concrete
		r.entries[contract] = e
		r.boundTo[e.concrete] = append(r.boundTo[e.concrete], contract)
		return nil
	}

	if r.policy == ConflictFail {
		return &ConfigurationError{
			Type:   current,
			Other:  e.concrete,
			Reason: fmt.Sprintf("both implement contract [%s]; a contract may have only one implementer", contract),
		}
	}

	delete(r.implementers, contract)
	delete(r.entries, contract)
	r.conflicts[contract] = []reflect.Type{current, e.concrete}
	return nil
}

// target translates t into the concrete type that serves it. When t cannot
// be served, reason says why.
func (r *registry) target(t reflect.Type) (concrete reflect.Type, reason string, ok bool) {
	if t.Kind() == reflect.Interface {
		if competing, conflicted := r.conflicts[t]; conflicted {
			return nil, "contract is bound by more than one concrete type: " + typeNames(competing), false
		}
		if impl, bound := r.implementers[t]; bound {
			return impl, "", true
		}
		switch found := r.implementersOf(t); len(found) {
		case 0:
			return nil, "no managed concrete type implements this contract", false
		case 1:
			return found[0], "", true
		default:
			return nil, "contract is implemented by more than one concrete type: " + typeNames(found), false
		}
	}
	if _, ok := r.entries[t]; ok {
		return t, "", true
	}
	if _, ok := r.catalog[t]; ok {
		return t, "", true
	}
	return nil, "type is not registered", false
}

// implementersOf lists the managed types implementing an interface that was
// never enumerated as a contract during Register.
func (r *registry) implementersOf(t reflect.Type) []reflect.Type {
	if isMarker(t) {
		return nil
	}
	if cached, ok := r.implicit.Load(t); ok {
		return cached.([]reflect.Type)
	}
	var found []reflect.Type
	for _, concrete := range r.managed {
		if concrete.Implements(t) {
			found = append(found, concrete)
		}
	}
	cached, _ := r.implicit.LoadOrStore(t, found)
	return cached.([]reflect.Type)
}

// ambiguous reports, under ConflictFail, an interface that was never
// enumerated as a contract but has more than one managed implementer.
func (r *registry) ambiguous(t reflect.Type) error {
	if r.policy != ConflictFail || t.Kind() != reflect.Interface {
		return nil
	}
	if _, conflicted := r.conflicts[t]; conflicted {
		return nil
	}
	found := r.implementersOf(t)
	if len(found) < 2 {
		return nil
	}
	return &ConfigurationError{
		Type:   found[0],
		Other:  found[1],
		Reason: fmt.Sprintf("both implement contract [%s]; a contract may have only one implementer", t),
	}
}

func typeNames(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
