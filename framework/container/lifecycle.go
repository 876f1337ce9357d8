package container

import "reflect"

// ── Lifecycle markers ─────────────────────────────────────────────────────────

// Transient marks a struct as a transient dependency: every Resolve builds a
// fresh instance. Opt in by embedding it.
//
//	type Worker struct {
//	    container.Transient
//	    log Logger
//	}
type Transient struct{}

func (Transient) transientLifecycle() {}

// Singleton marks a struct as a singleton dependency: one instance is built
// during Register and shared by every Resolve.
//
//	type Logger struct {
//	    container.Singleton
//	}
type Singleton struct{}

func (Singleton) singletonLifecycle() {}

type transientMarker interface{ transientLifecycle() }

type singletonMarker interface{ singletonLifecycle() }

var (
	transientMarkerType = reflect.TypeOf((*transientMarker)(nil)).Elem()
	singletonMarkerType = reflect.TypeOf((*singletonMarker)(nil)).Elem()
)

// ── Lifetime ──────────────────────────────────────────────────────────────────

// Lifetime is the classification of a concrete type.
type Lifetime int

const (
	NotManaged        Lifetime = iota // no marker: built on demand, never bound
	LifetimeTransient                 // new instance per Resolve
	LifetimeSingleton                 // one instance, built eagerly by Register
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeTransient:
		return "transient"
	case LifetimeSingleton:
		return "singleton"
	default:
		return "unmanaged"
	}
}

// Classify decides whether t is a managed dependency and, if so, its lifetime.
// Interfaces are never classified. Carrying both markers is a
// ConfigurationError.
func Classify(t reflect.Type) (Lifetime, error) {
	if t == nil || t.Kind() == reflect.Interface {
		return NotManaged, nil
	}
	transient := t.Implements(transientMarkerType)
	singleton := t.Implements(singletonMarkerType)

	switch {
	case transient && singleton:
		return NotManaged, &ConfigurationError{
			Type:   t,
			Reason: "embeds both container.Transient and container.Singleton, but may only embed one",
		}
	case transient:
		return LifetimeTransient, nil
	case singleton:
		return LifetimeSingleton, nil
	default:
		return NotManaged, nil
	}
}

// isMarker reports whether an interface is unusable as a contract: the marker
// interfaces themselves and empty interfaces, which every type satisfies.
func isMarker(t reflect.Type) bool {
	return t == transientMarkerType || t == singletonMarkerType || t.NumMethod() == 0
}
