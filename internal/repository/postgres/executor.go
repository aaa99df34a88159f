package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor runs statements. *pgxpool.Pool, pgx.Tx and pgxmock pools all satisfy it.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...interface{}) pgx.Row
}

type txKey struct{}

// withTx binds the unit of work opened by TransactionManager to ctx
func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// GetExecutor returns the transaction bound to ctx, or pool outside one.
// Every repository statement goes through it so a service-level ExecTx
// covers all reads and writes of one operation.
func GetExecutor(ctx context.Context, pool Executor) Executor {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}
