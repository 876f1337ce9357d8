package app

import (
	"net/http"

	"github.com/km-arc/venus/framework/config"
	"github.com/km-arc/venus/framework/container"
	gohttp "github.com/km-arc/venus/framework/http"
	"github.com/km-arc/venus/framework/routing"
)

// Controller serves the sample endpoints. It resolves a Dependent per
// request, so each /run sees a new Runner and the same Counter.
type Controller struct {
	container.Singleton
	resolver *container.Resolver
	cfg      *config.Config
}

func NewController(resolver *container.Resolver, cfg *config.Config) *Controller {
	return &Controller{resolver: resolver, cfg: cfg}
}

// Routes registers the controller's endpoints.
//
//	GET /                      → Index
//	GET /run                   → Run
//	GET /container             → Bindings
//	GET /container/{type}      → Binding
func (c *Controller) Routes(r *routing.Router) {
	r.Get("/", c.Index)
	r.Get("/run", c.Run)
	r.Prefix("/container", func(r *routing.Router) {
		r.Get("/", c.Bindings)
		r.Get("/{type}", c.Binding)
	})
}

func (c *Controller) Index(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(map[string]any{
		"app":       c.cfg.App.Name,
		"env":       c.cfg.App.Env,
		"container": c.resolver.State().String(),
	})
}

func (c *Controller) Run(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	dependent, err := container.Resolve[*Dependent](c.resolver)
	if err != nil {
		res.ServerError(err.Error())
		return
	}
	res.Success(dependent.Handle())
}

func (c *Controller) Bindings(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	bindings := c.resolver.Describe()
	if bindings == nil {
		res.Unavailable()
		return
	}
	res.Success(map[string]any{
		"bindings":  bindings,
		"conflicts": c.resolver.Conflicts(),
	})
}

// Binding looks up one concrete type by name, e.g. /container/*app.VisitCounter.
func (c *Controller) Binding(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	name := routing.Param(r, "type")
	for _, b := range c.resolver.Describe() {
		if b.Type == name {
			res.Success(b)
			return
		}
	}
	res.NotFound("No binding for " + name + ".")
}
