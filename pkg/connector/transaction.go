package connector

import (
	"context"
	"errors"

	"github.com/driftsql/driftsql/pkg/builder"
	"github.com/driftsql/driftsql/pkg/core"
)

// ErrTransactionFinished is returned when a committed or rolled-back
// transaction is used again.
var ErrTransactionFinished = errors.New("transaction already finished")

// Transaction is the default transaction protocol: BEGIN on start,
// COMMIT or ROLLBACK on finish, every statement routed through the
// owning connector's raw-SQL path.
type Transaction struct {
	q        Queryable
	finished bool
}

// Begin opens a transaction on q.
func Begin(ctx context.Context, q Queryable) (*Transaction, error) {
	if err := q.RawCmd(ctx, "BEGIN"); err != nil {
		return nil, err
	}
	return &Transaction{q: q}, nil
}

// Commit finishes the transaction, making its writes durable.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.finish(ctx, "COMMIT")
}

// Rollback finishes the transaction, discarding its writes.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.finish(ctx, "ROLLBACK")
}

func (t *Transaction) finish(ctx context.Context, cmd string) error {
	if t.finished {
		return ErrTransactionFinished
	}
	t.finished = true
	return t.q.RawCmd(ctx, cmd)
}

// Execute runs a structured write statement inside the transaction.
func (t *Transaction) Execute(ctx context.Context, q builder.Query) (*core.ID, error) {
	if t.finished {
		return nil, ErrTransactionFinished
	}
	return t.q.Execute(ctx, q)
}

// Query runs a structured read statement inside the transaction.
func (t *Transaction) Query(ctx context.Context, q builder.Query) (*core.ResultSet, error) {
	if t.finished {
		return nil, ErrTransactionFinished
	}
	return t.q.Query(ctx, q)
}

// QueryRaw runs raw SQL inside the transaction.
func (t *Transaction) QueryRaw(ctx context.Context, sql string, params []core.Value) (*core.ResultSet, error) {
	if t.finished {
		return nil, ErrTransactionFinished
	}
	return t.q.QueryRaw(ctx, sql, params)
}

// ExecuteRaw runs raw SQL inside the transaction.
func (t *Transaction) ExecuteRaw(ctx context.Context, sql string, params []core.Value) (uint64, error) {
	if t.finished {
		return 0, ErrTransactionFinished
	}
	return t.q.ExecuteRaw(ctx, sql, params)
}
