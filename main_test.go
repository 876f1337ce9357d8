package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/venus/app"
	foundation "github.com/km-arc/venus/framework/app"
	"github.com/km-arc/venus/framework/config"
	"github.com/km-arc/venus/framework/container"
)

func bootedResolver(t *testing.T) *container.Resolver {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{Name: "Venus", PublicDir: "testdata/missing"}}
	a := foundation.NewWithConfig(cfg, zap.NewNop())
	require.NoError(t, a.Register(&app.AppServiceProvider{}))
	require.NoError(t, a.Boot())
	return a.Resolver()
}

func TestRenderGraph_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderGraph(&buf, "json", bootedResolver(t)))

	var report graphReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "ready", report.State)
	assert.NotEmpty(t, report.Bindings)
	assert.Empty(t, report.Conflicts)
}

func TestRenderGraph_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderGraph(&buf, "yaml", bootedResolver(t)))

	var report graphReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "ready", report.State)

	var found bool
	for _, b := range report.Bindings {
		if b.Type == "*app.Dependent" {
			found = true
			assert.Equal(t, "unmanaged", b.Lifetime)
			assert.Equal(t, []string{"*app.OperationRunner", "*app.VisitCounter"}, b.Dependencies)
		}
	}
	assert.True(t, found, "*app.Dependent missing from graph")
}

func TestRenderGraph_Text(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, renderGraph(&buf, "text", bootedResolver(t)))

	out := buf.String()
	assert.Contains(t, out, "container ready")
	assert.Contains(t, out, "singleton  *app.VisitCounter")
	assert.Contains(t, out, "implements app.Counter")
	assert.Contains(t, out, "<- *app.SystemClock")
}

func TestRenderGraph_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := renderGraph(&buf, "toml", bootedResolver(t))
	assert.EqualError(t, err, `unknown format "toml" (want text, json or yaml)`)
}

func TestGraphCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"graph", "--format", "json", "--env-file", "testdata/test.env"})

	require.NoError(t, cmd.Execute())

	var report graphReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "ready", report.State)
}
