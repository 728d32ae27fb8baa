package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/driftsql/driftsql/pkg/connector"
)

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, opts *QueryOptions) error {
	ctx := cmd.Context()

	conn, cleanup, err := cmdCtx.OpenDatasource(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ds, _ := cmdCtx.Cfg.Datasource("")

	// History is kept per user, not per project.
	historyFile := filepath.Join(os.TempDir(), "driftsql_history")
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".driftsql_history")
	}

	completer := newTableCompleter(ctx, conn, ds.Type)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "driftsql> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "driftsql REPL (datasource: %s)\n", ds.Type)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("driftsql> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") {
			if handled := handleDotCommand(ctx, cmd, conn, ds.Type, line, opts.Format); handled {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("driftsql> ")

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRender(ctx, cmd, conn, query, opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func handleDotCommand(ctx context.Context, cmd *cobra.Command, conn connector.Queryable, dsType, line, format string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".tables":
		if err := listTables(ctx, cmd.OutOrStdout(), conn, dsType, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".fk":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .fk on|off")
			return true
		}
		var err error
		if parts[1] == "on" {
			err = conn.TurnOnForeignKeyConstraints(ctx)
		} else {
			err = conn.TurnOffForeignKeyConstraints(ctx)
		}
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List tables in the datasource
  .fk on|off      Toggle foreign-key enforcement
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// tableListSQL returns the engine-specific catalog query for table names.
func tableListSQL(dsType string) string {
	switch dsType {
	case "postgres":
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' ORDER BY table_name`
	case "mysql":
		return `SELECT table_name FROM information_schema.tables
			WHERE table_schema = DATABASE() ORDER BY table_name`
	default:
		return `SELECT name FROM sqlite_master
			WHERE type IN ('table', 'view')
			AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
	}
}

func listTables(ctx context.Context, w io.Writer, conn connector.Queryable, dsType, format string) error {
	rs, err := conn.QueryRaw(ctx, tableListSQL(dsType), nil)
	if err != nil {
		return err
	}
	return renderResults(w, rs, format)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, conn connector.Queryable, dsType string) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Best-effort; an empty completer is fine for autocomplete.
	if rs, err := conn.QueryRaw(ctx, tableListSQL(dsType), nil); err == nil {
		for _, row := range rs.Rows {
			if len(row.Values) == 0 {
				continue
			}
			if name, ok := row.Values[0].AsText(); ok {
				items = append(items, readline.PcItem(name))
			}
		}
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".fk", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
