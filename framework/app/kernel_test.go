package app_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/venus/framework/app"
	"github.com/km-arc/venus/framework/config"
	"github.com/km-arc/venus/framework/container"
	"github.com/km-arc/venus/framework/routing"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:      "Venus",
			Env:       "production",
			URL:       "http://localhost",
			Port:      "0",
			PublicDir: "testdata/missing",
		},
		Container: config.ContainerConfig{Conflicts: "fail"},
	}
}

// pingProvider adds a route once the router can be resolved.
type pingProvider struct{ container.BaseProvider }

func (p *pingProvider) Register(*container.Catalog) {}

func (p *pingProvider) Boot(r *container.Resolver) error {
	router, err := container.Resolve[*routing.Router](r)
	if err != nil {
		return err
	}
	router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	return nil
}

type failingProvider struct{ container.BaseProvider }

func (p *failingProvider) Register(*container.Catalog) {}

func (p *failingProvider) Boot(*container.Resolver) error { return errors.New("not today") }

func TestApplication_Boot(t *testing.T) {
	t.Parallel()

	a := app.NewWithConfig(testConfig(), zap.NewNop())
	require.NoError(t, a.Register(&pingProvider{}))

	_, err := a.Router()
	assert.ErrorIs(t, err, container.ErrNotReady)

	require.NoError(t, a.Boot())
	assert.True(t, a.Booted())
	assert.Equal(t, container.StateReady, a.Resolver().State())

	router, err := a.Router()
	require.NoError(t, err)
	assert.Contains(t, router.Routes(), "GET /ping")

	assert.Same(t, a.Config(), container.MustResolve[*config.Config](a.Resolver()))
	assert.Same(t, a.Metrics(), container.MustResolve[*prometheus.Registry](a.Resolver()))

	assert.ErrorIs(t, a.Register(&pingProvider{}), container.ErrBooted)
}

func TestApplication_BootFailure(t *testing.T) {
	t.Parallel()

	a := app.NewWithConfig(testConfig(), zap.NewNop())
	require.NoError(t, a.Register(&failingProvider{}))

	err := a.Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not today")
}

func TestApplication_UnknownConflictPolicyWarns(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	cfg := testConfig()
	cfg.Container.Conflicts = "shrug"

	a := app.NewWithConfig(cfg, zap.New(core))
	require.NoError(t, a.Boot())

	assert.Equal(t, 1, logs.FilterMessage("falling back to default conflict policy").Len())
}

func TestApplication_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	a := app.NewWithConfig(testConfig(), zap.NewNop())
	require.NoError(t, a.Register(&pingProvider{}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url + "/ping")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	resp, err = http.Get(url + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
