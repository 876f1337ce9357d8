package container

import "reflect"

// Binding is a read-only description of one concrete type known to a Ready
// resolver.
type Binding struct {
	Type         string   `json:"type" yaml:"type"`
	Lifetime     string   `json:"lifetime" yaml:"lifetime"`
	Contracts    []string `json:"contracts,omitempty" yaml:"contracts,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Constructor  bool     `json:"constructor" yaml:"constructor"`
}

// Conflict describes a contract invalidated under ConflictInvalidate.
type Conflict struct {
	Contract     string   `json:"contract" yaml:"contract"`
	Implementers []string `json:"implementers" yaml:"implementers"`
}

// Describe lists managed types in registration order followed by unmanaged
// ones. It returns nil unless the resolver is Ready.
func (r *Resolver) Describe() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil
	}

	out := make([]Binding, 0, len(r.reg.managed)+len(r.reg.unmanaged))
	add := func(t reflect.Type, l Lifetime) {
		out = append(out, Binding{
			Type:         t.String(),
			Lifetime:     l.String(),
			Contracts:    typeStrings(r.reg.boundTo[t]),
			Dependencies: typeStrings(r.reg.deps[t]),
			Constructor:  r.reg.catalog[t].fn.IsValid(),
		})
	}
	for _, t := range r.reg.managed {
		add(t, r.reg.entries[t].lifetime)
	}
	for _, t := range r.reg.unmanaged {
		add(t, NotManaged)
	}
	return out
}

// Conflicts lists contracts invalidated by competing implementers.
func (r *Resolver) Conflicts() []Conflict {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil
	}
	out := make([]Conflict, 0, len(r.reg.conflicts))
	for _, contract := range r.reg.contracts {
		if competing, ok := r.reg.conflicts[contract]; ok {
			out = append(out, Conflict{Contract: contract.String(), Implementers: typeStrings(competing)})
		}
	}
	return out
}
