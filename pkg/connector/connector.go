// Package connector defines the query-capable contract every driftsql
// backend implements, along with the factory registry, the default
// transaction protocol, and the instrumentation wrapper applied to
// every engine-touching operation.
//
// Concrete connector implementations are in pkg/connectors/
// subdirectories and register themselves in their init() functions.
package connector

import (
	"context"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/core"
)

// Queryable is the shared query-execution contract. Structured queries
// are always lowered to raw SQL plus parameters before touching a
// connection, so QueryRaw and ExecuteRaw are the single choke point for
// locking, caching, and instrumentation.
//
// Operations run blocking engine calls to completion inside the calling
// goroutine. The context cancels waiting for the connection, not work
// the engine has already started.
type Queryable interface {
	// Execute runs a structured write statement. For inserts it
	// returns the generated identifier of the new row; for other
	// statements it returns nil.
	Execute(ctx context.Context, q builder.Query) (*core.ID, error)

	// Query runs a structured read statement.
	Query(ctx context.Context, q builder.Query) (*core.ResultSet, error)

	// QueryRaw runs SQL text with positional parameters and drains the
	// whole result before returning; it never hands out a live cursor.
	QueryRaw(ctx context.Context, sql string, params []core.Value) (*core.ResultSet, error)

	// ExecuteRaw runs SQL text with positional parameters and returns
	// the affected-row count.
	ExecuteRaw(ctx context.Context, sql string, params []core.Value) (uint64, error)

	// TurnOffForeignKeyConstraints disables referential enforcement
	// for the session.
	TurnOffForeignKeyConstraints(ctx context.Context) error

	// TurnOnForeignKeyConstraints re-enables referential enforcement.
	TurnOnForeignKeyConstraints(ctx context.Context) error

	// RawCmd runs a possibly multi-statement SQL batch without
	// parameter binding.
	RawCmd(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close() error
}

// TransactionCapable marks backends that support the default
// BEGIN/COMMIT/ROLLBACK protocol. Implementations delegate to Begin
// with no overrides; the statements travel through the same raw-SQL
// path, and therefore the same connection lock, as every other
// operation.
type TransactionCapable interface {
	Queryable

	StartTransaction(ctx context.Context) (*Transaction, error)
}
