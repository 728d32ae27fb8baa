// Package builder provides the backend-agnostic structured-query
// representation and the per-dialect visitor that lowers it to SQL
// text plus an ordered parameter list. Connectors always lower
// structured queries through a Dialect before touching the engine; the
// raw-SQL path bypasses this package entirely.
package builder

import "github.com/driftsql/driftsql/pkg/core"

// Query is a structured statement. It is lowered to
// (sql_text, ordered_params) by Dialect.Build.
type Query interface {
	node()
}

// Condition is a single comparison in a WHERE clause. Conditions on the
// same statement are conjoined with AND.
type Condition struct {
	Column string
	Op     string // defaults to "="
	Value  core.Value
}

// Ordering names a column in an ORDER BY clause.
type Ordering struct {
	Column string
	Desc   bool
}

// Select reads rows from a single table.
type Select struct {
	Table   string
	Columns []string // empty selects all columns
	Where   []Condition
	OrderBy []Ordering
	Limit   int // 0 means no limit
	Offset  int
}

// Insert adds one row. Columns and Values are positional pairs.
// Returning names the column a backend should report back for
// generated-identifier retrieval; backends whose dialect cannot render
// RETURNING ignore it and read the identifier from the connection
// instead.
type Insert struct {
	Table     string
	Columns   []string
	Values    []core.Value
	Returning string
}

// Assignment is one column update in an UPDATE statement.
type Assignment struct {
	Column string
	Value  core.Value
}

// Update modifies rows in a single table.
type Update struct {
	Table string
	Set   []Assignment
	Where []Condition
}

// Delete removes rows from a single table.
type Delete struct {
	Table string
	Where []Condition
}

func (*Select) node() {}
func (*Insert) node() {}
func (*Update) node() {}
func (*Delete) node() {}
