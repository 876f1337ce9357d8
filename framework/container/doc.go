// Package container provides a reflection-driven IoC (Inversion of Control)
// container with constructor injection and two lifecycle markers.
//
// # Overview
//
// The host hands the container a set of candidates: constructor functions,
// bare types and pre-built instances. Register scans them once, builds the
// registry of contracts (interfaces) and concrete types, validates the
// dependency graph for cycles and unresolved bindings, and eagerly builds
// every singleton. Resolve then wires object graphs on demand.
//
// # Resolver Lifecycle
//
//  1. Create:   r := container.New(candidates)
//  2. Register: r.Register()                  // once, at startup; fatal on error
//  3. Resolve:  container.Resolve[*Worker](r)  // from any goroutine
//
// A failed Register leaves the resolver Failed; every later Resolve returns
// ErrNotReady.
//
// # Lifecycle Markers
//
// A struct opts in by embedding exactly one marker:
//
//	type Logger struct {
//	    container.Singleton // one instance, built during Register
//	}
//
//	type Worker struct {
//	    container.Transient // a fresh instance per Resolve
//	    log Sink
//	}
//
// A type with no marker is unmanaged: it is never bound to a contract, but it
// can still be resolved directly or injected by its concrete type, and is
// built fresh every time. Embedding both markers is a ConfigurationError.
//
// # Constructors
//
// Each concrete type has at most one constructor, a function returning T or
// (T, error). Its parameters are the type's dependencies:
//
//	func NewWorker(log Sink) *Worker { return &Worker{log: log} }
//
//	r := container.New([]container.Candidate{
//	    container.Constructor(NewLogger),
//	    container.Constructor(NewWorker),
//	    container.Constructor(NewPool, container.Default(0, 5)), // size defaults to 5
//	    container.Instance(cfg),
//	})
//
// Interface parameters are contracts and resolve to the single managed type
// implementing them. A parameter with a Default falls back to that value
// when its type cannot be resolved. Supplying two constructors for one type
// is a ConfigurationError.
//
// # Contracts
//
// Every managed type is bound to every contract it implements. Contracts are
// the interfaces named by constructor parameters plus any listed with
// Type[SomeInterface](). When two managed types implement one contract,
// Register fails (ConflictFail, the default) or the contract is marked
// unresolved (ConflictInvalidate).
//
// Resolve also accepts an interface no candidate named. It resolves to the
// one managed type implementing it; with several it fails the same way.
//
// # Errors
//
//	errors.Is(err, container.ErrConfiguration)        // *ConfigurationError
//	errors.Is(err, container.ErrUnresolvedDependency) // *UnresolvedDependencyError
//	errors.Is(err, container.ErrCircularDependency)   // *CircularDependencyError
//	errors.Is(err, container.ErrInstantiation)        // *InstantiationError
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Catalog) {
//	    c.Add(container.Constructor(NewMailer))
//	}
//
//	registry := container.NewProviderRegistry(container.WithLogger(log))
//	registry.Register(&AppServiceProvider{})
//	r, err := registry.Boot()
package container
