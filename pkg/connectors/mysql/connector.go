// Package mysql provides a MySQL connector for driftsql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/connector"
	"github.com/driftsql/driftsql/pkg/core"
)

// Dialect renders structured queries for MySQL.
var Dialect = builder.Dialect{
	Name:        "mysql",
	Placeholder: builder.QuestionPlaceholder,
	QuoteIdent:  builder.QuoteBacktick,
}

// Connector implements the query-capable contract over a go-sql-driver
// connection pool.
type Connector struct {
	connector.Base

	logger *slog.Logger
}

// Compile-time contract checks.
var (
	_ connector.Queryable          = (*Connector)(nil)
	_ connector.TransactionCapable = (*Connector)(nil)
)

// New opens a connector for a MySQL DSN
// (user:pass@tcp(host:port)/dbname). A connection_limit DSN parameter
// bounds the pool; it is stripped before the DSN reaches the driver.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Connector, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cleaned, limit, err := splitConnectionLimit(dsn)
	if err != nil {
		return nil, err
	}

	logger.Debug("connecting to mysql", slog.Int("connection_limit", limit))

	db, err := sql.Open("mysql", cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	db.SetMaxOpenConns(limit)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	c := &Connector{logger: logger}
	c.Base = connector.Base{
		DB:      db,
		Dialect: Dialect,
		Logger:  logger,
		Metrics: connector.NewLogRecorder(logger),
	}
	return c, nil
}

// splitConnectionLimit pops the connection_limit parameter off the DSN
// and returns the cleaned DSN plus the limit (defaulted when absent).
func splitConnectionLimit(dsn string) (string, int, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse mysql DSN: %w", err)
	}

	limit := 2*runtime.NumCPU() + 1
	if raw, ok := cfg.Params["connection_limit"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return "", 0, fmt.Errorf("connection_limit %q: %w", raw, core.ErrInvalidConnectionArguments)
		}
		limit = n
		delete(cfg.Params, "connection_limit")
	}
	return cfg.FormatDSN(), limit, nil
}

// Execute lowers a structured write statement. Inserts report the
// identifier generated by the engine; other statements return nil.
func (c *Connector) Execute(ctx context.Context, q builder.Query) (*core.ID, error) {
	sqlStr, params, err := Dialect.Build(q)
	if err != nil {
		return nil, err
	}

	if _, isInsert := q.(*builder.Insert); !isInsert {
		_, err := c.ExecuteRaw(ctx, sqlStr, params)
		return nil, err
	}

	return connector.Observe(c.Metrics, "mysql.execute", sqlStr, params, func() (*core.ID, error) {
		res, err := c.DB.ExecContext(ctx, sqlStr, core.DriverArgs(params)...)
		if err != nil {
			return nil, &core.EngineError{Op: "mysql.execute", Err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, &core.EngineError{Op: "mysql.execute", Err: err}
		}
		return &core.ID{Int64: id}, nil
	})
}

// TurnOffForeignKeyConstraints disables referential enforcement for
// the session.
func (c *Connector) TurnOffForeignKeyConstraints(ctx context.Context) error {
	return c.RawCmd(ctx, "SET FOREIGN_KEY_CHECKS = 0")
}

// TurnOnForeignKeyConstraints re-enables referential enforcement.
func (c *Connector) TurnOnForeignKeyConstraints(ctx context.Context) error {
	return c.RawCmd(ctx, "SET FOREIGN_KEY_CHECKS = 1")
}

// StartTransaction opts into the default transaction protocol with no
// overrides.
func (c *Connector) StartTransaction(ctx context.Context) (*connector.Transaction, error) {
	return connector.Begin(ctx, c)
}
