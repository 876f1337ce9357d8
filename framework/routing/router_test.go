package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/venus/framework/container"
	"github.com/km-arc/venus/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	t.Parallel()

	r := routing.New(zap.NewNop())
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/hello", http.StatusOK},
		{http.MethodPost, "/users", http.StatusOK},
		{http.MethodDelete, "/users/1", http.StatusOK},
		{http.MethodPost, "/hello", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, r, tt.method, tt.path).Code)
		})
	}
}

func TestRouter_Handle(t *testing.T) {
	t.Parallel()

	r := routing.New(zap.NewNop())
	r.Handle("/metrics", http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/metrics").Code)
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	t.Parallel()

	r := routing.New(zap.NewNop())
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "42", rr.Body.String())
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	t.Parallel()

	r := routing.New(zap.NewNop())
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/users").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users").Code)
}

func TestRouter_GroupMiddleware(t *testing.T) {
	t.Parallel()

	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New(zap.NewNop())
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})
	r.Get("/open", okHandler)

	do(t, r, http.MethodGet, "/open")
	assert.False(t, called, "group middleware must not run outside the group")

	do(t, r, http.MethodGet, "/protected")
	assert.True(t, called)
}

func TestRouter_Static(t *testing.T) {
	t.Parallel()

	r := routing.New(zap.NewNop())
	r.Static("/public/", "testdata/public")

	rr := do(t, r, http.MethodGet, "/public/hello.txt")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello static\n", rr.Body.String())
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	r := routing.New(zap.NewNop())
	r.Get("/", okHandler)
	r.Prefix("/api", func(api *routing.Router) {
		api.Post("/run", okHandler)
	})

	assert.ElementsMatch(t, []string{"GET /", "POST /api/run"}, r.Routes())
}

// ── Middleware ───────────────────────────────────────────────────────────────

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	r := routing.New(zap.New(core))
	r.Get("/ok", okHandler)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	do(t, r, http.MethodGet, "/ok")
	rr := do(t, r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", ok["path"])
	assert.EqualValues(t, http.StatusOK, ok["status"])
	assert.NotEmpty(t, ok["request_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusInternalServerError, entries[1].ContextMap()["status"])
}

// ── Container ────────────────────────────────────────────────────────────────

func TestRouter_IsContainerSingleton(t *testing.T) {
	t.Parallel()

	r := container.New([]container.Candidate{
		container.Instance(zap.NewNop()),
		container.Constructor(routing.New),
	})
	require.NoError(t, r.Register())

	first := container.MustResolve[*routing.Router](r)
	second := container.MustResolve[*routing.Router](r)
	assert.Same(t, first, second)

	lifetime, err := container.Classify(container.TypeOf[*routing.Router]())
	require.NoError(t, err)
	assert.Equal(t, container.LifetimeSingleton, lifetime)
}
