package container

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ── State ─────────────────────────────────────────────────────────────────────

// State is the lifecycle of a Resolver:
//
//	Unregistered → Registering → Ready
//	                           ↘ Failed (terminal)
type State int

const (
	StateUnregistered State = iota
	StateRegistering
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRegistering:
		return "registering"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unregistered"
	}
}

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver is the dependency-resolution engine. Build one with New, call
// Register exactly once at startup, then call Resolve from any goroutine.
//
// The resolver registers itself as a singleton, so a constructor taking a
// *Resolver receives the resolver that built it.
type Resolver struct {
	mu    sync.RWMutex
	state State
	err   error

	candidates []Candidate
	reg        *registry

	log     *zap.Logger
	metrics *Metrics
	policy  ConflictPolicy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records resolutions and failures on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithConflictPolicy sets what happens when two types implement one contract.
// The default is ConflictFail.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(r *Resolver) { r.policy = p }
}

// New creates an unregistered resolver over the given candidates.
func New(candidates []Candidate, opts ...Option) *Resolver {
	r := &Resolver{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.candidates = make([]Candidate, 0, len(candidates)+1)
	r.candidates = append(r.candidates, Instance(r))
	r.candidates = append(r.candidates, candidates...)
	return r
}

// Register scans the candidates, validates the dependency graph and builds
// every singleton. It must be called once; later calls return
// ErrAlreadyRegistered. Any failure leaves the resolver Failed for good.
//
// The lock is not held while constructors run, so a constructor that calls
// back into the resolver sees StateRegistering and gets ErrNotReady.
func (r *Resolver) Register() error {
	r.mu.Lock()
	if r.state != StateUnregistered {
		state := r.state
		r.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrAlreadyRegistered, state)
	}
	r.state = StateRegistering
	r.mu.Unlock()

	start := time.Now()
	reg, err := r.register()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.state = StateFailed
		r.err = err
		r.metrics.observeFailure(err)
		r.log.Error("container registration failed",
			zap.String("kind", errorKind(err)),
			zap.Error(err),
		)
		return err
	}

	r.reg = reg
	r.state = StateReady
	elapsed := time.Since(start)
	r.metrics.observeRegister(elapsed, reg)
	r.log.Info("container ready",
		zap.Int("managed", len(reg.managed)),
		zap.Int("unmanaged", len(reg.unmanaged)),
		zap.Int("contracts", len(reg.implementers)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

// register builds the registry without publishing it.
func (r *Resolver) register() (*registry, error) {
	reg := newRegistry(r.policy)
	if err := reg.scanAndRegister(r.candidates); err != nil {
		return nil, err
	}

	order, err := validate(reg)
	if err != nil {
		return nil, err
	}

	for _, t := range order {
		e, ok := reg.entries[t]
		if !ok || e.lifetime != LifetimeSingleton {
			continue
		}
		if _, err := reg.resolve(t, nil); err != nil {
			return nil, err
		}
		r.log.Debug("singleton built", zap.Stringer("type", t))
	}

	for _, t := range reg.managed {
		e := reg.entries[t]
		r.log.Debug("registered",
			zap.Stringer("type", t),
			zap.Stringer("lifetime", e.lifetime),
			zap.Strings("contracts", typeStrings(reg.boundTo[t])),
		)
	}
	for contract, competing := range reg.conflicts {
		r.log.Warn("contract invalidated by conflicting bindings",
			zap.Stringer("contract", contract),
			zap.Strings("implementers", typeStrings(competing)),
		)
	}
	return reg, nil
}

// Resolve returns an instance of t, which may be a contract or a concrete
// type. It fails with ErrNotReady unless Register has succeeded, and never
// returns a nil instance without an error.
func (r *Resolver) Resolve(t reflect.Type) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state != StateReady {
		return nil, fmt.Errorf("%w (state %s)", ErrNotReady, r.state)
	}
	if t == nil {
		return nil, &UnresolvedDependencyError{Reason: "nil type"}
	}

	v, err := r.reg.resolve(t, nil)
	if err != nil {
		r.metrics.observeFailure(err)
		r.log.Debug("resolve failed", zap.Stringer("type", t), zap.Error(err))
		return nil, err
	}
	r.metrics.observeResolve(t, r.lifetimeOf(t))
	return v.Interface(), nil
}

// State returns the current lifecycle state.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Err returns the error that made Register fail, or nil.
func (r *Resolver) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Has reports whether t can be resolved. It is false until Register succeeds.
func (r *Resolver) Has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady || t == nil {
		return false
	}
	_, _, ok := r.reg.target(t)
	return ok
}

func (r *Resolver) lifetimeOf(t reflect.Type) Lifetime {
	concrete, _, ok := r.reg.target(t)
	if !ok {
		return NotManaged
	}
	if e, managed := r.reg.entries[concrete]; managed {
		return e.lifetime
	}
	return NotManaged
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// TypeOf returns the reflect.Type of T, including interface types.
//
//	r.Resolve(container.TypeOf[Logger]())
func TypeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Resolve is the typed form of Resolver.Resolve.
//
//	worker, err := container.Resolve[*Worker](r)
func Resolve[T any](r *Resolver) (T, error) {
	var zero T
	instance, err := r.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: resolved to %T", TypeOf[T](), instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Meant for composition
// roots where a failure is fatal anyway.
func MustResolve[T any](r *Resolver) T {
	typed, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return typed
}

func typeStrings(types []reflect.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
