// Package shared holds the context passed to all CLI commands.
package shared

import (
	"github.com/go-ports/library/internal/config"
	"github.com/go-ports/library/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// File overrides the catalog path.
	// When empty, resolution falls through to LIBRARY_FILE env var → persisted config → library.json.
	File string
	// LogLevel overrides log.level from the global config.
	LogLevel string

	// Config and Source are filled in by the root command before any
	// subcommand runs.
	Config *config.Config
	Source string
}

// ResolveConfig returns the effective configuration, resolving it on first use.
func (c *Context) ResolveConfig() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	cfg, source, err := config.Resolve(c.File)
	if err != nil {
		return nil, err
	}
	c.Config, c.Source = cfg, source
	return cfg, nil
}

// Service opens the catalog named by the effective configuration.
func (c *Context) Service() (*service.Service, error) {
	cfg, err := c.ResolveConfig()
	if err != nil {
		return nil, err
	}
	return service.New(cfg)
}
