package container

import (
	"fmt"
	"math"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ── Candidate ─────────────────────────────────────────────────────────────────

// Candidate is one entry of the discovery source handed to New: a constructor
// function, a bare type, or a pre-built instance.
type Candidate struct {
	typ      reflect.Type
	ctor     reflect.Value
	returns  bool // ctor returns (T, error)
	defaults map[int]reflect.Value
	instance reflect.Value
	err      error
}

// ParamOption configures a constructor candidate.
type ParamOption func(*Candidate)

// Constructor declares fn as the one constructor of its result type. fn must
// be a function returning T or (T, error), where T is concrete. Every
// parameter without a Default is a dependency edge.
//
//	container.Constructor(NewWorker)
//	container.Constructor(NewPool, container.Default(0, 5))
func Constructor(fn any, opts ...ParamOption) Candidate {
	c := Candidate{ctor: reflect.ValueOf(fn)}
	if fn == nil || c.ctor.Kind() != reflect.Func {
		c.err = &ConfigurationError{Reason: fmt.Sprintf("constructor must be a function, got %T", fn)}
		return c
	}

	ft := c.ctor.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		c.returns = true
	default:
		c.err = &ConfigurationError{Reason: fmt.Sprintf("constructor %s must return T or (T, error)", ft)}
		return c
	}

	c.typ = ft.Out(0)
	if c.typ.Kind() == reflect.Interface {
		c.err = &ConfigurationError{Type: c.typ, Reason: "constructor must return a concrete type, not an interface"}
		return c
	}
	if ft.IsVariadic() {
		c.err = &ConfigurationError{Type: c.typ, Reason: "variadic constructors are not supported"}
		return c
	}

	for _, opt := range opts {
		opt(&c)
		if c.err != nil {
			return c
		}
	}
	return c
}

// Default supplies the value used for parameter index when its type cannot be
// resolved. A defaulted parameter is not a required dependency.
func Default(index int, value any) ParamOption {
	return func(c *Candidate) {
		ft := c.ctor.Type()
		if index < 0 || index >= ft.NumIn() {
			c.err = &ConfigurationError{Type: c.typ, Reason: fmt.Sprintf("default for parameter %d out of range", index)}
			return
		}
		pt := ft.In(index)
		v, ok := coerce(value, pt)
		if !ok {
			c.err = &ConfigurationError{Type: c.typ, Reason: fmt.Sprintf("default %v (%T) is not assignable to parameter %d (%s)", value, value, index, pt)}
			return
		}
		if c.defaults == nil {
			c.defaults = make(map[int]reflect.Value)
		}
		c.defaults[index] = v
	}
}

// Type names T without a constructor. Interfaces become explicit contracts;
// concrete types are built directly (new(T) for pointer types, the zero value
// otherwise).
func Type[T any]() Candidate {
	return Candidate{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// Instance registers a pre-built value as a singleton under its dynamic type
// and every contract that type implements.
//
//	container.Instance(cfg) // *config.Config
func Instance(v any) Candidate {
	if v == nil {
		return Candidate{err: &ConfigurationError{Reason: "instance cannot be nil"}}
	}
	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return Candidate{typ: rv.Type(), err: &ConfigurationError{Type: rv.Type(), Reason: "instance cannot be nil"}}
	}
	return Candidate{typ: rv.Type(), instance: rv}
}

// Describes reports the type the candidate contributes.
func (c Candidate) Describes() reflect.Type { return c.typ }

func (c Candidate) isContract() bool {
	return c.err == nil && c.typ != nil && c.typ.Kind() == reflect.Interface
}

func (c Candidate) hasConstructor() bool { return c.ctor.IsValid() }

// ── Catalog ───────────────────────────────────────────────────────────────────

// Catalog is an ordered, append-only collection of candidates. Service
// providers add to it during their Register phase.
type Catalog struct {
	candidates []Candidate
}

// NewCatalog creates a catalog holding the given candidates.
func NewCatalog(candidates ...Candidate) *Catalog {
	return &Catalog{candidates: append([]Candidate(nil), candidates...)}
}

// Add appends candidates and returns the catalog for chaining.
func (c *Catalog) Add(candidates ...Candidate) *Catalog {
	c.candidates = append(c.candidates, candidates...)
	return c
}

// Candidates returns a copy of the collected candidates in insertion order.
func (c *Catalog) Candidates() []Candidate {
	return append([]Candidate(nil), c.candidates...)
}

// Len returns the number of candidates.
func (c *Catalog) Len() int { return len(c.candidates) }

// ── helpers ───────────────────────────────────────────────────────────────────

// coerce converts value to t, allowing untyped constants such as 5 to fill an
// int64 or time.Duration parameter.
func coerce(value any, t reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, true
	}
	if v.Type().ConvertibleTo(t) && v.Kind() != reflect.String && t.Kind() != reflect.String {
		if lossy(v, t) {
			return reflect.Value{}, false
		}
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

// lossy reports whether converting the numeric v to t would change its value:
// overflow, a negative into an unsigned type, or a fraction into an integer.
func lossy(v reflect.Value, t reflect.Type) bool {
	dst := reflect.New(t).Elem()
	switch {
	case v.CanInt():
		n := v.Int()
		switch {
		case dst.CanInt():
			return dst.OverflowInt(n)
		case dst.CanUint():
			return n < 0 || dst.OverflowUint(uint64(n))
		case dst.CanFloat():
			return dst.OverflowFloat(float64(n))
		}
	case v.CanUint():
		n := v.Uint()
		switch {
		case dst.CanInt():
			return n > math.MaxInt64 || dst.OverflowInt(int64(n))
		case dst.CanUint():
			return dst.OverflowUint(n)
		case dst.CanFloat():
			return dst.OverflowFloat(float64(n))
		}
	case v.CanFloat():
		f := v.Float()
		switch {
		case dst.CanFloat():
			return dst.OverflowFloat(f)
		case dst.CanInt():
			return f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f))
		case dst.CanUint():
			return f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || dst.OverflowUint(uint64(f))
		}
	}
	return false
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
