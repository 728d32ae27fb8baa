// Package commands implements the driftsql subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/driftsql/driftsql/internal/config"
	"github.com/driftsql/driftsql/pkg/connector"
	"github.com/driftsql/driftsql/pkg/connectors/sqlite"
)

type configKey struct{}
type loggerKey struct{}

// WithRuntime stores the loaded config and logger in the command context.
func WithRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{OutputFormat: config.DefaultOutput}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CommandContext bundles what most commands need.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext creates a CommandContext from the command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    GetConfig(cmd.Context()),
		Logger: GetLogger(cmd.Context()),
	}
}

// OpenDatasource connects to the selected datasource and returns the
// connection plus a cleanup function that must be called (typically
// via defer).
func (c *CommandContext) OpenDatasource(ctx context.Context) (connector.Queryable, func(), error) {
	ds, err := c.Cfg.Datasource("")
	if err != nil {
		return nil, nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, nil, err
	}

	conn, err := connector.Connect(ctx, ds.Type, ds.URL, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = conn.Close() }

	// SQLite datasources can declare files to attach up front.
	if sc, ok := conn.(*sqlite.Connector); ok {
		opts, err := sqlite.ParseOptions(ds.Params)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("invalid sqlite params: %w", err)
		}
		names := opts.Attach
		if dbName := sc.Params().DBName; dbName != "" {
			names = append([]string{dbName}, names...)
		}
		for _, name := range names {
			if err := sc.AttachDatabase(ctx, name); err != nil {
				cleanup()
				return nil, nil, err
			}
		}
	}

	return conn, cleanup, nil
}
