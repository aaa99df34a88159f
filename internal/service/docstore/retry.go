package docstore

import (
	"context"
	"log/slog"

	"dataroom/internal/config"
	"dataroom/internal/domain"
	"dataroom/internal/domain/repositories"
)

// retryOnConflict runs a unit of work in a fresh transaction, retrying while a
// unique index rejects the resolved name or the store aborts the unit to break
// a lock cycle. Sibling sets and paths are re-read on every attempt. The last
// error is returned once attempts run out.
func retryOnConflict(ctx context.Context, tm repositories.TransactionManager, logger *slog.Logger, op string, fn repositories.TxFn) error {
	var err error
	for attempt := 1; attempt <= config.MaxNameResolutionAttempts; attempt++ {
		err = tm.ExecTx(ctx, fn)
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
		logger.Debug("concurrent writer won, retrying",
			"op", op,
			"attempt", attempt,
			"error", err,
		)
	}
	return err
}
