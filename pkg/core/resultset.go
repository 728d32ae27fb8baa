package core

import "fmt"

// ID is a database-generated identifier captured right after an insert
// completes. Every backend currently reports 64-bit signed integers.
type ID struct {
	Int64 int64
}

// Row is one result row. Values are ordered exactly like the owning
// result set's column names and can be addressed by column name.
type Row struct {
	index  map[string]int
	Values []Value
}

// Get returns the value for the named column.
func (r Row) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.Values[i], true
}

// ResultSet is a fully materialized query result. It carries the
// engine-reported column order and has no identity beyond the call
// that produced it.
type ResultSet struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewResultSet creates an empty result set with the given column names.
func NewResultSet(columns []string) *ResultSet {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &ResultSet{Columns: columns, index: index}
}

// Append adds one row. The value count must match the column count.
func (rs *ResultSet) Append(values []Value) error {
	if len(values) != len(rs.Columns) {
		return fmt.Errorf("row has %d values, result set has %d columns", len(values), len(rs.Columns))
	}
	rs.Rows = append(rs.Rows, Row{index: rs.index, Values: values})
	return nil
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int { return len(rs.Rows) }

// IsEmpty reports whether the result set holds no rows.
func (rs *ResultSet) IsEmpty() bool { return len(rs.Rows) == 0 }

// Get returns the i-th row.
func (rs *ResultSet) Get(i int) Row { return rs.Rows[i] }
