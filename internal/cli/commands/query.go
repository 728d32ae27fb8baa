package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driftsql/driftsql/pkg/connector"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a SQL query against a datasource",
		Long: `Run a SQL query against a configured datasource.

The datasource is selected with --datasource (or the configured
default). Supports multiple output formats for scripting and
integration.

When invoked without arguments on a terminal, enters interactive
REPL mode.`,
		Example: `  # Execute SQL directly
  driftsql query "SELECT * FROM users"

  # Query a named datasource
  driftsql query -d analytics "SELECT count(*) FROM events"

  # Read SQL from a file
  driftsql query -i report.sql

  # Output as JSON
  driftsql query "SELECT * FROM users" --format json

  # Interactive mode
  driftsql query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, opts)
	}

	conn, cleanup, err := cmdCtx.OpenDatasource(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	return executeAndRender(cmd.Context(), cmd, conn, sqlQuery, opts.Format)
}

func executeAndRender(ctx context.Context, cmd *cobra.Command, conn connector.Queryable, sqlQuery, format string) error {
	rs, err := conn.QueryRaw(ctx, sqlQuery, nil)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return renderResults(cmd.OutOrStdout(), rs, format)
}

// NewExecCommand creates the exec command for write statements.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <SQL>",
		Short: "Execute a SQL write statement",
		Long: `Execute a SQL write statement (INSERT, UPDATE, DELETE, DDL)
against a configured datasource and report the affected-row count.`,
		Example: `  driftsql exec "DELETE FROM sessions WHERE expired = 1"
  driftsql exec -d analytics "CREATE TABLE events (id INTEGER PRIMARY KEY)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			conn, cleanup, err := cmdCtx.OpenDatasource(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := conn.ExecuteRaw(cmd.Context(), strings.Join(args, " "), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}
	return cmd
}

// NewDatasourcesCommand creates the datasources command.
func NewDatasourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "datasources",
		Short: "List configured datasources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if len(cmdCtx.Cfg.Datasources) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No datasources configured (create a driftsql.yaml)")
				return nil
			}
			for name, ds := range cmdCtx.Cfg.Datasources {
				marker := " "
				if name == cmdCtx.Cfg.Default {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %s\n", marker, name, ds.Type)
			}
			return nil
		},
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
