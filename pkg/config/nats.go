package config

import (
	"fmt"
	"strings"
	"time"
)

type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
	// Consumer is the durable name of the order notification consumer; empty disables it.
	Consumer string        `koanf:"consumer"`
	Workers  int           `koanf:"workers"`
	Interval time.Duration `koanf:"interval"`
}

// String returns a string representation of the NATS configuration.
func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.Url))
	b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  nats.stream: %s\n", c.Stream))
	b.WriteString(fmt.Sprintf("  nats.consumer: %s\n", c.Consumer))
	b.WriteString(fmt.Sprintf("  nats.workers: %d\n", c.Workers))
	b.WriteString(fmt.Sprintf("  nats.interval: %s\n", c.Interval))
	return b.String()
}

// Validate checks the connection settings only when publishing is enabled.
func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats dial timeout is not configured")
	}
	if c.Stream == "" {
		return fmt.Errorf("nats stream is not configured")
	}
	if c.Consumer != "" {
		if c.Workers <= 0 {
			return fmt.Errorf("nats consumer %s needs at least one worker", c.Consumer)
		}
		if c.Interval <= 0 {
			return fmt.Errorf("nats retry interval is not configured")
		}
	}
	return nil
}
