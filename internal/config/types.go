// Package config loads driftsql project configuration from
// driftsql.yaml, environment variables, and CLI flags.
package config

import (
	"fmt"
	"strings"

	"github.com/driftsql/driftsql/pkg/connector"
)

// Datasource describes one named database a project can query.
type Datasource struct {
	Type string `koanf:"type"` // sqlite, postgres, mysql
	URL  string `koanf:"url"`

	// Params holds connector-specific configuration, e.g. the list of
	// SQLite files to attach on first use.
	Params map[string]any `koanf:"params"`
}

// Validate checks the datasource against the connector registry.
func (d *Datasource) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("datasource type is required")
	}
	if !connector.IsRegistered(strings.ToLower(d.Type)) {
		return &connector.UnknownConnectorError{
			Type:      d.Type,
			Available: connector.List(),
		}
	}
	if d.URL == "" {
		return fmt.Errorf("datasource url is required")
	}
	return nil
}

// Config holds all driftsql configuration options.
type Config struct {
	Default      string                `koanf:"default"`
	Datasources  map[string]Datasource `koanf:"datasources"`
	Verbose      bool                  `koanf:"verbose"`
	OutputFormat string                `koanf:"output"`
}

// Datasource returns the named datasource, falling back to the
// configured default when name is empty.
func (c *Config) Datasource(name string) (Datasource, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" {
		if len(c.Datasources) == 1 {
			for _, ds := range c.Datasources {
				return ds, nil
			}
		}
		return Datasource{}, fmt.Errorf("no datasource selected and no default configured")
	}
	ds, ok := c.Datasources[name]
	if !ok {
		names := make([]string, 0, len(c.Datasources))
		for n := range c.Datasources {
			names = append(names, n)
		}
		return Datasource{}, fmt.Errorf("unknown datasource %q (configured: %s)", name, strings.Join(names, ", "))
	}
	return ds, nil
}

// Default configuration values.
const (
	DefaultEnv    = "dev"
	DefaultOutput = "auto" // auto-detect: TTY=table, non-TTY=json
)
