package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/driftsql/driftsql/pkg/core"
)

// Dialect describes how one backend renders placeholders and
// identifiers. Each connector package exports its own instance.
type Dialect struct {
	Name string

	// Placeholder returns the parameter marker for the 1-based
	// position n ("?" for SQLite and MySQL, "$n" for Postgres).
	Placeholder func(n int) string

	// QuoteIdent quotes a table or column name.
	QuoteIdent func(ident string) string

	// SupportsReturning reports whether INSERT ... RETURNING is
	// rendered for Insert.Returning.
	SupportsReturning bool
}

// QuestionPlaceholder renders "?" regardless of position.
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder renders "$1", "$2", ...
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// QuoteANSI quotes an identifier with double quotes.
func QuoteANSI(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteBacktick quotes an identifier with backticks (MySQL).
func QuoteBacktick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// Build lowers a structured query to SQL text and its ordered
// parameter list.
func (d Dialect) Build(q Query) (string, []core.Value, error) {
	v := &visitor{d: d}
	switch stmt := q.(type) {
	case *Select:
		return v.buildSelect(stmt)
	case *Insert:
		return v.buildInsert(stmt)
	case *Update:
		return v.buildUpdate(stmt)
	case *Delete:
		return v.buildDelete(stmt)
	default:
		return "", nil, fmt.Errorf("unsupported query type %T", q)
	}
}

type visitor struct {
	d      Dialect
	sb     strings.Builder
	params []core.Value
}

func (v *visitor) bind(val core.Value) string {
	v.params = append(v.params, val)
	return v.d.Placeholder(len(v.params))
}

func (v *visitor) quoteAll(idents []string) []string {
	quoted := make([]string, len(idents))
	for i, id := range idents {
		quoted[i] = v.d.QuoteIdent(id)
	}
	return quoted
}

func (v *visitor) writeWhere(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	v.sb.WriteString(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			v.sb.WriteString(" AND ")
		}
		op := c.Op
		if op == "" {
			op = "="
		}
		v.sb.WriteString(v.d.QuoteIdent(c.Column))
		v.sb.WriteString(" ")
		v.sb.WriteString(op)
		v.sb.WriteString(" ")
		v.sb.WriteString(v.bind(c.Value))
	}
}

func (v *visitor) buildSelect(s *Select) (string, []core.Value, error) {
	if s.Table == "" {
		return "", nil, fmt.Errorf("select requires a table")
	}
	v.sb.WriteString("SELECT ")
	if len(s.Columns) == 0 {
		v.sb.WriteString("*")
	} else {
		v.sb.WriteString(strings.Join(v.quoteAll(s.Columns), ", "))
	}
	v.sb.WriteString(" FROM ")
	v.sb.WriteString(v.d.QuoteIdent(s.Table))
	v.writeWhere(s.Where)
	if len(s.OrderBy) > 0 {
		v.sb.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			v.sb.WriteString(v.d.QuoteIdent(o.Column))
			if o.Desc {
				v.sb.WriteString(" DESC")
			}
		}
	}
	if s.Limit > 0 {
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(strconv.Itoa(s.Limit))
	}
	if s.Offset > 0 {
		v.sb.WriteString(" OFFSET ")
		v.sb.WriteString(strconv.Itoa(s.Offset))
	}
	return v.sb.String(), v.params, nil
}

func (v *visitor) buildInsert(ins *Insert) (string, []core.Value, error) {
	if ins.Table == "" {
		return "", nil, fmt.Errorf("insert requires a table")
	}
	if len(ins.Columns) != len(ins.Values) {
		return "", nil, fmt.Errorf("insert has %d columns but %d values", len(ins.Columns), len(ins.Values))
	}
	v.sb.WriteString("INSERT INTO ")
	v.sb.WriteString(v.d.QuoteIdent(ins.Table))
	v.sb.WriteString(" (")
	v.sb.WriteString(strings.Join(v.quoteAll(ins.Columns), ", "))
	v.sb.WriteString(") VALUES (")
	for i, val := range ins.Values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.bind(val))
	}
	v.sb.WriteString(")")
	if ins.Returning != "" && v.d.SupportsReturning {
		v.sb.WriteString(" RETURNING ")
		v.sb.WriteString(v.d.QuoteIdent(ins.Returning))
	}
	return v.sb.String(), v.params, nil
}

func (v *visitor) buildUpdate(u *Update) (string, []core.Value, error) {
	if u.Table == "" {
		return "", nil, fmt.Errorf("update requires a table")
	}
	if len(u.Set) == 0 {
		return "", nil, fmt.Errorf("update requires at least one assignment")
	}
	v.sb.WriteString("UPDATE ")
	v.sb.WriteString(v.d.QuoteIdent(u.Table))
	v.sb.WriteString(" SET ")
	for i, a := range u.Set {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.d.QuoteIdent(a.Column))
		v.sb.WriteString(" = ")
		v.sb.WriteString(v.bind(a.Value))
	}
	v.writeWhere(u.Where)
	return v.sb.String(), v.params, nil
}

func (v *visitor) buildDelete(del *Delete) (string, []core.Value, error) {
	if del.Table == "" {
		return "", nil, fmt.Errorf("delete requires a table")
	}
	v.sb.WriteString("DELETE FROM ")
	v.sb.WriteString(v.d.QuoteIdent(del.Table))
	v.writeWhere(del.Where)
	return v.sb.String(), v.params, nil
}
