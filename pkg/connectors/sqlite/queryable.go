package sqlite

import (
	"context"
	"fmt"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/connector"
	"github.com/driftsql/driftsql/pkg/core"
)

// Compile-time contract checks.
var (
	_ connector.Queryable          = (*Connector)(nil)
	_ connector.TransactionCapable = (*Connector)(nil)
)

// Execute lowers a structured statement, runs it through ExecuteRaw,
// and for inserts reads the generated row identifier back from the
// same connection. Non-insert statements return nil.
func (c *Connector) Execute(ctx context.Context, q builder.Query) (*core.ID, error) {
	sqlStr, params, err := Dialect.Build(q)
	if err != nil {
		return nil, err
	}

	if _, err := c.ExecuteRaw(ctx, sqlStr, params); err != nil {
		return nil, err
	}

	if _, ok := q.(*builder.Insert); !ok {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var id int64
	if err := c.conn.QueryRowContext(ctx, "SELECT last_insert_rowid()").Scan(&id); err != nil {
		return nil, &core.EngineError{Op: "sqlite.execute", Err: err}
	}
	return &core.ID{Int64: id}, nil
}

// Query lowers a structured read statement and delegates to QueryRaw.
func (c *Connector) Query(ctx context.Context, q builder.Query) (*core.ResultSet, error) {
	sqlStr, params, err := Dialect.Build(q)
	if err != nil {
		return nil, err
	}
	return c.QueryRaw(ctx, sqlStr, params)
}

// QueryRaw prepares sqlStr through the statement cache, binds params,
// and drains every row into a materialized result set before the
// connection lock is released.
func (c *Connector) QueryRaw(ctx context.Context, sqlStr string, params []core.Value) (*core.ResultSet, error) {
	return connector.Observe(c.metrics, "sqlite.query_raw", sqlStr, params, func() (*core.ResultSet, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		stmt, cached, err := c.prepareLocked(ctx, sqlStr)
		if err != nil {
			return nil, &core.EngineError{Op: "sqlite.query_raw", Err: err}
		}
		if !cached {
			defer func() { _ = stmt.Close() }()
		}

		rows, err := stmt.QueryContext(ctx, core.DriverArgs(params)...)
		if err != nil {
			return nil, &core.EngineError{Op: "sqlite.query_raw", Err: err}
		}
		defer func() { _ = rows.Close() }()

		rs, err := connector.CollectRows(rows)
		if err != nil {
			return nil, &core.EngineError{Op: "sqlite.query_raw", Err: err}
		}
		return rs, nil
	})
}

// ExecuteRaw prepares sqlStr through the statement cache, binds
// params, executes, and returns the affected-row count.
func (c *Connector) ExecuteRaw(ctx context.Context, sqlStr string, params []core.Value) (uint64, error) {
	return connector.Observe(c.metrics, "sqlite.execute_raw", sqlStr, params, func() (uint64, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		stmt, cached, err := c.prepareLocked(ctx, sqlStr)
		if err != nil {
			return 0, &core.EngineError{Op: "sqlite.execute_raw", Err: err}
		}
		if !cached {
			defer func() { _ = stmt.Close() }()
		}

		res, err := stmt.ExecContext(ctx, core.DriverArgs(params)...)
		if err != nil {
			return 0, &core.EngineError{Op: "sqlite.execute_raw", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &core.EngineError{Op: "sqlite.execute_raw", Err: err}
		}
		if n < 0 {
			return 0, fmt.Errorf("sqlite.execute_raw: engine reported negative affected-row count %d", n)
		}
		return uint64(n), nil
	})
}

// TurnOffForeignKeyConstraints disables referential enforcement for
// the session.
func (c *Connector) TurnOffForeignKeyConstraints(ctx context.Context) error {
	_, err := c.QueryRaw(ctx, "PRAGMA foreign_keys = OFF", nil)
	return err
}

// TurnOnForeignKeyConstraints re-enables referential enforcement.
func (c *Connector) TurnOnForeignKeyConstraints(ctx context.Context) error {
	_, err := c.QueryRaw(ctx, "PRAGMA foreign_keys = ON", nil)
	return err
}

// RawCmd executes a possibly multi-statement batch without parameter
// binding, holding the connection lock for the whole batch.
func (c *Connector) RawCmd(ctx context.Context, cmd string) error {
	_, err := connector.Observe(c.metrics, "sqlite.raw_cmd", cmd, nil, func() (struct{}, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if _, err := c.conn.ExecContext(ctx, cmd); err != nil {
			return struct{}{}, &core.EngineError{Op: "sqlite.raw_cmd", Err: err}
		}
		return struct{}{}, nil
	})
	return err
}

// StartTransaction opts into the default transaction protocol with no
// overrides.
func (c *Connector) StartTransaction(ctx context.Context) (*connector.Transaction, error) {
	return connector.Begin(ctx, c)
}
