package container

import (
	"errors"
	"fmt"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the candidates of one feature and the work that has
// to happen once they can be resolved.
//
// Register runs first, for every provider, and may only add candidates.
// Boot runs after the resolver is Ready, in registration order, and may
// resolve anything.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Catalog) {
//	    c.Add(container.Constructor(NewMailer))
//	}
//
//	func (p *AppServiceProvider) Boot(r *container.Resolver) error {
//	    mailer, err := container.Resolve[*Mailer](r)
//	    ...
//	}
type ServiceProvider interface {
	Register(c *Catalog)
	Boot(r *Resolver) error
}

// BaseProvider is an embeddable no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Resolver) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ErrBooted is returned when providers are added or booted after Boot.
var ErrBooted = errors.New("container: providers already booted")

// ProviderRegistry collects providers, builds one Resolver from their
// candidates and boots them.
type ProviderRegistry struct {
	opts       []Option
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	resolver   *Resolver
	booted     bool
}

// NewProviderRegistry creates a registry whose resolver is built with opts.
func NewProviderRegistry(opts ...Option) *ProviderRegistry {
	return &ProviderRegistry{
		opts:       opts,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Adding the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.booted {
		return ErrBooted
	}
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)
	return nil
}

// Boot runs every provider's Register, registers the resulting resolver, then
// runs every provider's Boot. It may be called once.
func (r *ProviderRegistry) Boot() (*Resolver, error) {
	if r.booted {
		return r.resolver, ErrBooted
	}
	r.booted = true

	catalog := NewCatalog()
	for _, p := range r.providers {
		p.Register(catalog)
	}

	r.resolver = New(catalog.Candidates(), r.opts...)
	if err := r.resolver.Register(); err != nil {
		return r.resolver, err
	}

	for _, p := range r.providers {
		if err := p.Boot(r.resolver); err != nil {
			return r.resolver, fmt.Errorf("container: booting %T: %w", p, err)
		}
	}
	return r.resolver, nil
}

// Booted returns true once Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Resolver returns the resolver built by Boot, or nil before Boot.
func (r *ProviderRegistry) Resolver() *Resolver { return r.resolver }

// Providers returns the registered providers in order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	return append([]ServiceProvider(nil), r.providers...)
}
