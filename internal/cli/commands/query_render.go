package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/driftsql/driftsql/pkg/core"
)

func renderResults(w io.Writer, rs *core.ResultSet, format string) error {
	switch format {
	case "json":
		return renderJSON(w, rs)
	case "csv":
		return renderCSV(w, rs)
	case "md", "markdown":
		return renderMarkdown(w, rs)
	default:
		return renderTable(w, rs)
	}
}

func renderTable(w io.Writer, rs *core.ResultSet) error {
	if rs.IsEmpty() {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rs.Rows {
		cells := make(table.Row, len(row.Values))
		for i, v := range row.Values {
			cells[i] = formatValue(v)
		}
		t.AppendRow(cells)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", rs.Len())
	return nil
}

func renderJSON(w io.Writer, rs *core.ResultSet) error {
	results := make([]map[string]any, 0, rs.Len())
	for _, row := range rs.Rows {
		m := make(map[string]any, len(rs.Columns))
		for i, col := range rs.Columns {
			m[col] = jsonValue(row.Values[i])
		}
		results = append(results, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCSV(w io.Writer, rs *core.ResultSet) error {
	_, _ = fmt.Fprintln(w, strings.Join(rs.Columns, ","))
	for _, row := range rs.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = escapeCSV(formatValue(v))
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, rs *core.ResultSet) error {
	if rs.IsEmpty() {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(rs.Columns, " | "))
	seps := make([]string, len(rs.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range rs.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = formatValue(v)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	return nil
}

func formatValue(v core.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	return v.String()
}

// jsonValue maps a typed value to its natural JSON representation.
func jsonValue(v core.Value) any {
	if v.IsNull() {
		return nil
	}
	return v.Driver()
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
