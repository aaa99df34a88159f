package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
// Repositories called with the ctx handed to fn participate in the transaction.
type TransactionManager interface {
	// ExecTx executes a function within a transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	ExecTx(ctx context.Context, fn TxFn) error
}
