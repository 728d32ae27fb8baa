// Package sqlite provides the SQLite connector: a query-capable
// adapter that serializes all callers onto one native connection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/connector"
	"github.com/driftsql/driftsql/pkg/core"

	_ "modernc.org/sqlite" // sqlite driver
)

// Dialect renders structured queries for SQLite.
var Dialect = builder.Dialect{
	Name:        "sqlite",
	Placeholder: builder.QuestionPlaceholder,
	QuoteIdent:  builder.QuoteANSI,
}

// stmtCacheLimit bounds the per-connection statement cache. Once full,
// new SQL shapes are prepared per call and closed after use instead of
// cached.
const stmtCacheLimit = 512

// Connector owns exactly one native SQLite connection. The engine
// cannot run concurrent statements on one connection, so a mutex
// guards every prepare/bind/execute/drain sequence; callers queue at
// the lock in arrival order with no further fairness guarantee.
// Callers needing parallelism open multiple Connector instances.
type Connector struct {
	mu    sync.Mutex
	db    *sql.DB
	conn  *sql.Conn
	stmts map[string]*sql.Stmt

	filePath string
	params   *Params
	logger   *slog.Logger
	metrics  connector.Recorder
}

// New opens a connector for the given address string. The session
// starts on an in-memory database; the on-disk file is attached lazily
// via AttachDatabase so several logical names can share one session.
func New(ctx context.Context, url string, logger *slog.Logger) (*Connector, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	params, err := ParseParams(url, logger)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite session: %w", err)
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to pin sqlite connection: %w", err)
	}

	logger.Debug("sqlite connector ready", slog.String("path", params.FilePath))

	return &Connector{
		db:       db,
		conn:     conn,
		stmts:    make(map[string]*sql.Stmt),
		filePath: params.FilePath,
		params:   params,
		logger:   logger,
		metrics:  connector.NewLogRecorder(logger),
	}, nil
}

// FilePath returns the resolved on-disk database path.
func (c *Connector) FilePath() string { return c.filePath }

// Params returns the parsed connection configuration.
func (c *Connector) Params() Params { return *c.params }

// AttachDatabase binds the connector's file under the given logical
// name, skipping names that are already attached, and re-enables
// foreign-key enforcement either way.
func (c *Connector) AttachDatabase(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	attached, err := c.attachedDatabasesLocked(ctx)
	if err != nil {
		return err
	}

	if !attached[name] {
		// Both values are bound, never concatenated into the statement.
		if _, err := c.conn.ExecContext(ctx, "ATTACH DATABASE ? AS ?", c.filePath, name); err != nil {
			return &core.EngineError{Op: "sqlite.attach", Err: err}
		}
		c.logger.Debug("attached database", slog.String("name", name), slog.String("path", c.filePath))
	}

	if _, err := c.conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return &core.EngineError{Op: "sqlite.attach", Err: err}
	}
	return nil
}

// attachedDatabasesLocked lists the logical names currently attached
// to the session. Callers must hold c.mu.
func (c *Connector) attachedDatabasesLocked(ctx context.Context) (map[string]bool, error) {
	rows, err := c.conn.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, &core.EngineError{Op: "sqlite.attach", Err: err}
	}
	defer func() { _ = rows.Close() }()

	attached := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, &core.EngineError{Op: "sqlite.attach", Err: err}
		}
		attached[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &core.EngineError{Op: "sqlite.attach", Err: err}
	}
	return attached, nil
}

// prepareLocked returns a prepared statement for sqlStr through the
// per-connection cache. The second return reports whether the
// statement is cached; uncached statements must be closed by the
// caller after use. Callers must hold c.mu.
func (c *Connector) prepareLocked(ctx context.Context, sqlStr string) (*sql.Stmt, bool, error) {
	if stmt, ok := c.stmts[sqlStr]; ok {
		return stmt, true, nil
	}
	stmt, err := c.conn.PrepareContext(ctx, sqlStr)
	if err != nil {
		return nil, false, err
	}
	if len(c.stmts) < stmtCacheLimit {
		c.stmts[sqlStr] = stmt
		return stmt, true, nil
	}
	return stmt, false, nil
}

// Close releases the statement cache and the native connection.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, stmt := range c.stmts {
		_ = stmt.Close()
	}
	c.stmts = nil

	c.logger.Debug("closing sqlite connector", slog.String("path", c.filePath))

	var firstErr error
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			firstErr = err
		}
		c.conn = nil
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.db = nil
	}
	return firstErr
}
