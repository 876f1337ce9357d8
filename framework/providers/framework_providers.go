package providers

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/km-arc/venus/framework/config"
	"github.com/km-arc/venus/framework/container"
	"github.com/km-arc/venus/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Resolvable types:
//   - *config.Config
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->instance('config', $config = new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(c *container.Catalog) {
	c.Add(container.Instance(p.Config))
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the application logger.
//
// Resolvable types:
//   - *zap.Logger
type LogServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LogServiceProvider) Register(c *container.Catalog) {
	c.Add(container.Instance(p.Logger))
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus registry and, once booted,
// exposes it at Path on the router.
//
// Resolvable types:
//   - *prometheus.Registry
type MetricsServiceProvider struct {
	Registry *prometheus.Registry
	Path     string // default: "/metrics"
}

func (p *MetricsServiceProvider) Register(c *container.Catalog) {
	c.Add(container.Instance(p.Registry))
}

func (p *MetricsServiceProvider) Boot(r *container.Resolver) error {
	router, err := container.Resolve[*routing.Router](r)
	if err != nil {
		return err
	}
	path := p.Path
	if path == "" {
		path = "/metrics"
	}
	router.Handle(path, promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry}))
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router and serves APP_PUBLIC_DIR
// under /public when the directory exists.
//
// Resolvable types:
//   - *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct{}

func (p *RoutingServiceProvider) Register(c *container.Catalog) {
	c.Add(container.Constructor(routing.New))
}

func (p *RoutingServiceProvider) Boot(r *container.Resolver) error {
	cfg, err := container.Resolve[*config.Config](r)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](r)
	if err != nil {
		return err
	}
	if info, err := os.Stat(cfg.App.PublicDir); err == nil && info.IsDir() {
		router.Static("/public", cfg.App.PublicDir)
	}
	return nil
}
