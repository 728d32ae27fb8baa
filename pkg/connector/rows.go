package connector

import (
	"database/sql"

	"github.com/driftsql/driftsql/pkg/core"
)

// CollectRows maps engine rows into a fully materialized ResultSet,
// preserving the engine-reported column order and each column's native
// type. The cursor is drained before returning so callers never hold
// engine resources past the call; an empty result keeps the reported
// column names with zero rows.
func CollectRows(rows *sql.Rows) (*core.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := core.NewResultSet(cols)
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		values := make([]core.Value, len(cols))
		for i, v := range raw {
			values[i] = core.ValueOf(v)
		}
		if err := rs.Append(values); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
