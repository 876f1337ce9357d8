package container

import (
	"reflect"
	"sort"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// suggest returns the names of known types closest to t, for "did you mean"
// hints on unresolved dependencies. A pointer/value mix-up is always offered.
func (r *registry) suggest(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	want := t.String()
	limit := max(2, len(want)/4)

	type candidate struct {
		name string
		dist int
	}
	var found []candidate
	seen := make(map[string]bool)
	consider := func(k reflect.Type) {
		if k == t {
			return
		}
		name := k.String()
		if seen[name] {
			return
		}
		seen[name] = true

		if (k.Kind() == reflect.Pointer && k.Elem() == t) || (t.Kind() == reflect.Pointer && t.Elem() == k) {
			found = append(found, candidate{name, 0})
			return
		}
		if d := levenshtein.ComputeDistance(want, name); d <= limit {
			found = append(found, candidate{name, d})
		}
	}

	for _, k := range r.known {
		consider(k)
	}
	for _, k := range r.contracts {
		if _, bound := r.implementers[k]; bound {
			consider(k)
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	if len(found) > maxSuggestions {
		found = found[:maxSuggestions]
	}
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.name
	}
	return out
}
