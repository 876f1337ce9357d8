package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/km-arc/venus/framework/config"
	"github.com/km-arc/venus/framework/container"
	"github.com/km-arc/venus/framework/log"
	"github.com/km-arc/venus/framework/providers"
	"github.com/km-arc/venus/framework/routing"
)

const shutdownTimeout = 10 * time.Second

// Application is the top-level application kernel, the counterpart of $app
// in Laravel's bootstrap/app.php. Providers are registered first; Boot
// builds the resolver from their candidates and runs their Boot hooks.
type Application struct {
	Providers *container.ProviderRegistry

	config   *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	resolver *container.Resolver
}

// New loads configuration from envFiles and creates the application.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	return NewWithConfig(cfg, log.New(cfg.Log))
}

// NewWithConfig creates the application from an already loaded
// configuration and logger.
func NewWithConfig(cfg *config.Config, logger *zap.Logger) *Application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	policy, err := container.ParseConflictPolicy(cfg.Container.Conflicts)
	if err != nil {
		logger.Warn("falling back to default conflict policy", zap.Error(err))
	}

	a := &Application{
		Providers: container.NewProviderRegistry(
			container.WithLogger(logger.Named("container")),
			container.WithMetrics(container.NewMetrics(registry)),
			container.WithConflictPolicy(policy),
		),
		config:   cfg,
		logger:   logger,
		registry: registry,
	}

	// Framework core providers, in boot order.
	_ = a.Providers.Register(&providers.ConfigServiceProvider{Config: cfg})
	_ = a.Providers.Register(&providers.LogServiceProvider{Logger: logger})
	_ = a.Providers.Register(&providers.RoutingServiceProvider{})
	_ = a.Providers.Register(&providers.MetricsServiceProvider{Registry: registry})

	return a
}

// Register adds a ServiceProvider to the application. It fails once the
// application has booted.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot builds the resolver and runs every provider's Boot. A failure here is
// a configuration error and should abort startup.
func (a *Application) Boot() error {
	resolver, err := a.Providers.Boot()
	a.resolver = resolver
	if err != nil {
		return fmt.Errorf("app: boot: %w", err)
	}
	return nil
}

// Booted reports whether Boot has been called.
func (a *Application) Booted() bool { return a.Providers.Booted() }

// Resolver returns the booted resolver, or nil before Boot.
func (a *Application) Resolver() *container.Resolver { return a.resolver }

func (a *Application) Config() *config.Config        { return a.config }
func (a *Application) Logger() *zap.Logger           { return a.logger }
func (a *Application) Metrics() *prometheus.Registry { return a.registry }

// Router resolves *routing.Router. It is only valid after a successful Boot.
func (a *Application) Router() (*routing.Router, error) {
	if a.resolver == nil {
		return nil, container.ErrNotReady
	}
	return container.Resolve[*routing.Router](a.resolver)
}

// Run boots the application if needed and serves HTTP on APP_PORT until ctx
// is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.App.Addr())
	if err != nil {
		return fmt.Errorf("app: listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if !a.Booted() {
		if err := a.Boot(); err != nil {
			ln.Close()
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(a.logger),
	}

	a.banner(ln.Addr())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

func (a *Application) banner(addr net.Addr) {
	cfg := a.config.App
	a.logger.Info("listening",
		zap.String("app", cfg.Name),
		zap.String("env", cfg.Env),
		zap.Stringer("addr", addr),
	)
	if cfg.IsProduction() {
		return
	}
	bold := color.New(color.FgCyan, color.Bold)
	bold.Fprintf(os.Stderr, "%s running on %s%s  [%s]\n",
		cfg.Name, cfg.URL, portOf(addr), color.YellowString(cfg.Env))
}

func portOf(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return fmt.Sprintf(":%d", tcp.Port)
	}
	return ""
}
