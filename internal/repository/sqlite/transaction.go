package sqlite

import (
	"context"

	"gorm.io/gorm"

	"dataroom/internal/domain/repositories"
)

type txContextKey struct{}

func withTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func transactionFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// TransactionManager runs units of work inside a gorm transaction
type TransactionManager struct {
	client *Client
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(client *Client) repositories.TransactionManager {
	return &TransactionManager{client: client}
}

// ExecTx executes fn within a transaction, reusing one already bound to ctx
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if transactionFromContext(ctx) != nil {
		return fn(ctx)
	}
	return tm.client.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTransaction(ctx, tx))
	})
}
