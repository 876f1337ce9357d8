package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
}

type AppConfig struct {
	Name      string
	Env       string // local | production | testing
	Debug     bool
	URL       string
	Port      string
	PublicDir string
}

// IsProduction reports whether APP_ENV is production.
func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// Addr is the listen address for the HTTP server.
func (c AppConfig) Addr() string { return ":" + c.Port }

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

type ContainerConfig struct {
	// Conflicts is what the resolver does when two types implement one
	// contract: fail or invalidate.
	Conflicts string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	app := AppConfig{
		Name:      env("APP_NAME", "Venus"),
		Env:       env("APP_ENV", "local"),
		Debug:     envBool("APP_DEBUG", true),
		URL:       env("APP_URL", "http://localhost"),
		Port:      strconv.Itoa(GetInt("APP_PORT", 8000)),
		PublicDir: env("APP_PUBLIC_DIR", "./public"),
	}

	level := "info"
	if app.Debug {
		level = "debug"
	}
	format := "console"
	if app.IsProduction() {
		format = "json"
	}

	return &Config{
		App: app,
		Log: LogConfig{
			Level:  strings.ToLower(env("LOG_LEVEL", level)),
			Format: strings.ToLower(env("LOG_FORMAT", format)),
		},
		Container: ContainerConfig{
			Conflicts: env("CONTAINER_CONFLICTS", "fail"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
