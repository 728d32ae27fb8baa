// Package postgres provides a PostgreSQL connector for driftsql.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"runtime"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/connector"
	"github.com/driftsql/driftsql/pkg/core"
)

// Dialect renders structured queries for PostgreSQL.
var Dialect = builder.Dialect{
	Name:              "postgres",
	Placeholder:       builder.DollarPlaceholder,
	QuoteIdent:        builder.QuoteANSI,
	SupportsReturning: true,
}

// Connector implements the query-capable contract over a pgx-backed
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

// New opens a connector for a postgres:// address. A connection_limit
// query parameter bounds the pool; it is stripped before the address
// reaches the driver.
func New(ctx context.Context, addr string, logger *slog.Logger) (*Connector, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dsn, limit, err := splitConnectionLimit(addr)
	if err != nil {
		return nil, err
	}

	logger.Debug("connecting to postgres", slog.Int("connection_limit", limit))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(limit)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
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

// splitConnectionLimit pops the connection_limit parameter off the
// address and returns the cleaned DSN plus the limit (defaulted when
// absent).
func splitConnectionLimit(addr string) (string, int, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse postgres URL: %w", err)
	}

	limit := defaultConnectionLimit()
	q := u.Query()
	if raw := q.Get("connection_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return "", 0, fmt.Errorf("connection_limit %q: %w", raw, core.ErrInvalidConnectionArguments)
		}
		limit = n
		q.Del("connection_limit")
		u.RawQuery = q.Encode()
	}
	return u.String(), limit, nil
}

// Execute lowers a structured write statement. Inserts that name a
// Returning column run as a RETURNING query and report the generated
// identifier; everything else executes and returns nil.
func (c *Connector) Execute(ctx context.Context, q builder.Query) (*core.ID, error) {
	sqlStr, params, err := Dialect.Build(q)
	if err != nil {
		return nil, err
	}

	ins, ok := q.(*builder.Insert)
	if !ok || ins.Returning == "" {
		_, err := c.ExecuteRaw(ctx, sqlStr, params)
		return nil, err
	}

	rs, err := c.QueryRaw(ctx, sqlStr, params)
	if err != nil {
		return nil, err
	}
	if rs.IsEmpty() {
		return nil, nil
	}
	v, ok := rs.Get(0).Get(ins.Returning)
	if !ok {
		return nil, fmt.Errorf("postgres.execute: column %q missing from RETURNING row", ins.Returning)
	}
	id, ok := v.AsInt64()
	if !ok {
		return nil, fmt.Errorf("postgres.execute: column %q is not an integer", ins.Returning)
	}
	return &core.ID{Int64: id}, nil
}

// TurnOffForeignKeyConstraints disables trigger-based referential
// enforcement for the session.
func (c *Connector) TurnOffForeignKeyConstraints(ctx context.Context) error {
	return c.RawCmd(ctx, "SET session_replication_role = 'replica'")
}

// TurnOnForeignKeyConstraints restores referential enforcement.
func (c *Connector) TurnOnForeignKeyConstraints(ctx context.Context) error {
	return c.RawCmd(ctx, "SET session_replication_role = 'origin'")
}

// StartTransaction opts into the default transaction protocol with no
// overrides.
func (c *Connector) StartTransaction(ctx context.Context) (*connector.Transaction, error) {
	return connector.Begin(ctx, c)
}

func defaultConnectionLimit() int {
	return 2*runtime.NumCPU() + 1
}
