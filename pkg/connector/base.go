package connector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/core"
)

// Base provides the shared database/sql plumbing for pool-backed
// connectors. Embed it in concrete implementations to get standard
// Query, QueryRaw, ExecuteRaw, RawCmd, and Close implementations.
//
// The SQLite connector does not use Base: it pins exactly one native
// connection and serializes callers itself.
type Base struct {
	DB      *sql.DB
	Dialect builder.Dialect
	Logger  *slog.Logger
	Metrics Recorder
}

// Op qualifies an operation name with the backend's dialect name, e.g.
// "postgres.query_raw".
func (b *Base) Op(name string) string {
	return b.Dialect.Name + "." + name
}

// Query lowers a structured read statement and runs it through
// QueryRaw.
func (b *Base) Query(ctx context.Context, q builder.Query) (*core.ResultSet, error) {
	sqlStr, params, err := b.Dialect.Build(q)
	if err != nil {
		return nil, err
	}
	return b.QueryRaw(ctx, sqlStr, params)
}

// QueryRaw runs SQL text with positional parameters and materializes
// the whole result.
func (b *Base) QueryRaw(ctx context.Context, sqlStr string, params []core.Value) (*core.ResultSet, error) {
	return Observe(b.Metrics, b.Op("query_raw"), sqlStr, params, func() (*core.ResultSet, error) {
		if b.DB == nil {
			return nil, fmt.Errorf("database connection not established")
		}
		rows, err := b.DB.QueryContext(ctx, sqlStr, core.DriverArgs(params)...)
		if err != nil {
			return nil, &core.EngineError{Op: b.Op("query_raw"), Err: err}
		}
		defer func() { _ = rows.Close() }()

		rs, err := CollectRows(rows)
		if err != nil {
			return nil, &core.EngineError{Op: b.Op("query_raw"), Err: err}
		}
		return rs, nil
	})
}

// ExecuteRaw runs SQL text with positional parameters and returns the
// affected-row count.
func (b *Base) ExecuteRaw(ctx context.Context, sqlStr string, params []core.Value) (uint64, error) {
	return Observe(b.Metrics, b.Op("execute_raw"), sqlStr, params, func() (uint64, error) {
		if b.DB == nil {
			return 0, fmt.Errorf("database connection not established")
		}
		res, err := b.DB.ExecContext(ctx, sqlStr, core.DriverArgs(params)...)
		if err != nil {
			return 0, &core.EngineError{Op: b.Op("execute_raw"), Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &core.EngineError{Op: b.Op("execute_raw"), Err: err}
		}
		if n < 0 {
			return 0, fmt.Errorf("%s: engine reported negative affected-row count %d", b.Op("execute_raw"), n)
		}
		return uint64(n), nil
	})
}

// RawCmd runs a possibly multi-statement SQL batch without parameter
// binding.
func (b *Base) RawCmd(ctx context.Context, sqlStr string) error {
	_, err := Observe(b.Metrics, b.Op("raw_cmd"), sqlStr, nil, func() (struct{}, error) {
		if b.DB == nil {
			return struct{}{}, fmt.Errorf("database connection not established")
		}
		if _, err := b.DB.ExecContext(ctx, sqlStr); err != nil {
			return struct{}{}, &core.EngineError{Op: b.Op("raw_cmd"), Err: err}
		}
		return struct{}{}, nil
	})
	return err
}

// Close closes the connection pool.
func (b *Base) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}
