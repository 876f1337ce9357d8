package app

import (
	"fmt"

	"github.com/km-arc/venus/framework/container"
	"github.com/km-arc/venus/framework/routing"
)

// AppServiceProvider registers the sample services and their routes.
type AppServiceProvider struct{}

func (p *AppServiceProvider) Register(c *container.Catalog) {
	c.Add(container.Constructor(NewSystemClock)).
		Add(container.Constructor(NewVisitCounter)).
		Add(container.Constructor(NewOperationRunner)).
		Add(container.Constructor(NewDependent)).
		Add(container.Constructor(NewController))
}

// Boot resolves one Dependent to prove the graph is wired, then mounts the
// controller.
func (p *AppServiceProvider) Boot(r *container.Resolver) error {
	if _, err := container.Resolve[*Dependent](r); err != nil {
		return fmt.Errorf("app: resolving Dependent: %w", err)
	}

	router, err := container.Resolve[*routing.Router](r)
	if err != nil {
		return err
	}
	controller, err := container.Resolve[*Controller](r)
	if err != nil {
		return err
	}
	controller.Routes(router)
	return nil
}
