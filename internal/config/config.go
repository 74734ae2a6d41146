// Package config defines the storefront configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/config/configloader"
)

// ServiceName prefixes environment variables (STOREFRONT_SERVER_PORT) and names telemetry.
const ServiceName = "storefront"

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Nats       config.NATSConfig      `koanf:"nats"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Catalog    CatalogConfig          `koanf:"catalog"`
	Theme      ThemeConfig            `koanf:"theme"`
}

// CatalogConfig locates the product catalog. The embedded catalog is used when Path is empty.
type CatalogConfig struct {
	Path     string `koanf:"path"`
	Featured int    `koanf:"featured"`
}

// ThemeConfig sets the initial theme. DefaultDark stands in for the system preference
// and applies when no preference has been stored in PreferenceFile.
type ThemeConfig struct {
	DefaultDark    bool   `koanf:"defaultDark"`
	PreferenceFile string `koanf:"preferenceFile"`
}

// Defaults returns the values used for keys no other source sets.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxHeaderBytes":     1 << 20,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "120s",
		"server.timeout.readHeader": "2s",
		"log.level":                 "info",
		"pprof.enabled":             false,
		"pprof.addr":                "localhost:6060",
		"shutdown.timeout":          "10s",
		"nats.enabled":              false,
		"nats.url":                  "nats://localhost:4222",
		"nats.timeout":              "5s",
		"nats.stream":               "ORDERS",
		"nats.consumer":             "storefront-notifications",
		"nats.workers":              1,
		"nats.interval":             "1s",
		"telemetry.metrics.enabled": true,
		"telemetry.traces.enabled":  false,
		"catalog.featured":          6,
	}
}

// Load reads the storefront configuration from defaults, config.yaml, .env and STOREFRONT_* variables.
func Load() (*Config, error) {
	return configloader.Load[*Config](ServiceName, configloader.Options{Defaults: Defaults()})
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Telemetry.String())

	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  catalog.path: %s\n", orEmbedded(c.Catalog.Path)))
	b.WriteString(fmt.Sprintf("  catalog.featured: %d\n", c.Catalog.Featured))

	b.WriteString("\n--- Theme ---\n")
	b.WriteString(fmt.Sprintf("  theme.defaultDark: %t\n", c.Theme.DefaultDark))
	b.WriteString(fmt.Sprintf("  theme.preferenceFile: %s\n", c.Theme.PreferenceFile))
	return b.String()
}

func orEmbedded(path string) string {
	if path == "" {
		return "<embedded>"
	}
	return path
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if c.Catalog.Featured <= 0 {
		return fmt.Errorf("catalog.featured must be positive, got %d", c.Catalog.Featured)
	}
	return nil
}
