package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/storefront/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if yaml != "" {
		require.NoError(t, os.WriteFile(configFile, []byte(yaml), 0o600))
	}
	return configloader.Load[*Config](ServiceName, configloader.Options{
		Defaults:   Defaults(),
		ConfigFile: configFile,
		EnvFile:    filepath.Join(dir, ".env"),
	})
}

func Test_Load_Defaults(t *testing.T) {
	// when
	cfg, err := load(t, "")
	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 6, cfg.Catalog.Featured)
	assert.Empty(t, cfg.Catalog.Path)
	assert.False(t, cfg.Nats.Enabled)
	assert.True(t, cfg.Telemetry.Metrics.Enabled)
	assert.False(t, cfg.Theme.DefaultDark)
}

func Test_Load_FileAndEnv(t *testing.T) {
	// given
	t.Setenv("STOREFRONT_SERVER_PORT", "9090")
	t.Setenv("STOREFRONT_CATALOG_FEATURED", "3")
	// when
	cfg, err := load(t, `
log:
  level: debug
theme:
  defaultDark: true
  preferenceFile: /tmp/theme.yaml
catalog:
  featured: 4
  path: ./products.json
`)
	// then
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPServer.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Catalog.Featured)
	assert.Equal(t, "./products.json", cfg.Catalog.Path)
	assert.True(t, cfg.Theme.DefaultDark)
	assert.Equal(t, "/tmp/theme.yaml", cfg.Theme.PreferenceFile)
	assert.Contains(t, cfg.String(), "theme.defaultDark: true")
}

func Test_Load_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{name: "bad port", yaml: "server:\n  port: 70000\n"},
		{name: "bad log level", yaml: "log:\n  level: verbose\n"},
		{name: "zero featured", yaml: "catalog:\n  featured: 0\n"},
		{name: "nats without url", yaml: "nats:\n  enabled: true\n  url: \"\"\n"},
		{name: "traces without endpoint", yaml: "telemetry:\n  traces:\n    enabled: true\n"},
		{name: "pprof with bad address", yaml: "pprof:\n  enabled: true\n  addr: nocolon\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			_, err := load(t, tc.yaml)
			// then
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}
