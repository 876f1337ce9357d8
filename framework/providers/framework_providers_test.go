package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/venus/framework/config"
	"github.com/km-arc/venus/framework/container"
	"github.com/km-arc/venus/framework/providers"
	"github.com/km-arc/venus/framework/routing"
)

func boot(t *testing.T, cfg *config.Config) *container.Resolver {
	t.Helper()

	registry := prometheus.NewRegistry()
	reg := container.NewProviderRegistry(container.WithMetrics(container.NewMetrics(registry)))
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{Config: cfg}))
	require.NoError(t, reg.Register(&providers.LogServiceProvider{Logger: zap.NewNop()}))
	require.NoError(t, reg.Register(&providers.MetricsServiceProvider{Registry: registry}))
	require.NoError(t, reg.Register(&providers.RoutingServiceProvider{}))

	r, err := reg.Boot()
	require.NoError(t, err)
	return r
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestFrameworkProviders_BindCoreServices(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{App: config.AppConfig{Name: "Venus", PublicDir: "testdata/missing"}}
	r := boot(t, cfg)

	assert.Same(t, cfg, container.MustResolve[*config.Config](r))
	assert.NotNil(t, container.MustResolve[*zap.Logger](r))
	assert.NotNil(t, container.MustResolve[*prometheus.Registry](r))
	assert.Same(t, container.MustResolve[*routing.Router](r), container.MustResolve[*routing.Router](r))
}

func TestMetricsServiceProvider_MountsHandler(t *testing.T) {
	t.Parallel()

	r := boot(t, &config.Config{App: config.AppConfig{PublicDir: "testdata/missing"}})
	router := container.MustResolve[*routing.Router](r)

	rr := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "venus_container_bindings")
	assert.Contains(t, rr.Body.String(), `venus_container_resolutions_total{lifetime="singleton",type="*config.Config"}`)
}

func TestRoutingServiceProvider_ServesPublicDir(t *testing.T) {
	t.Parallel()

	r := boot(t, &config.Config{App: config.AppConfig{PublicDir: "testdata/public"}})
	router := container.MustResolve[*routing.Router](r)

	rr := get(t, router, "/public/app.css")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "body{}\n", rr.Body.String())
}

func TestRoutingServiceProvider_SkipsMissingPublicDir(t *testing.T) {
	t.Parallel()

	r := boot(t, &config.Config{App: config.AppConfig{PublicDir: "testdata/missing"}})
	router := container.MustResolve[*routing.Router](r)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/public/app.css").Code)
}

func TestLogServiceProvider_NilLoggerFailsRegistration(t *testing.T) {
	t.Parallel()

	reg := container.NewProviderRegistry()
	require.NoError(t, reg.Register(&providers.LogServiceProvider{}))

	_, err := reg.Boot()
	assert.ErrorIs(t, err, container.ErrConfiguration)
}
