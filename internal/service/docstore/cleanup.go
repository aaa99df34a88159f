package docstore

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"dataroom/internal/blob"
	models "dataroom/internal/domain/models/docstore"
)

// blobReleaser deletes blobs whose metadata rows are already gone.
// Failures are logged and counted, never returned.
type blobReleaser struct {
	store       blob.Store
	concurrency int
	logger      *slog.Logger
}

func newBlobReleaser(store blob.Store, concurrency int, logger *slog.Logger) *blobReleaser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &blobReleaser{store: store, concurrency: concurrency, logger: logger}
}

// Release deletes every locator and returns how many deletes failed.
// Runs detached from ctx cancellation: the rows are already committed.
func (r *blobReleaser) Release(ctx context.Context, locators []string) int {
	if len(locators) == 0 {
		return 0
	}
	ctx = context.WithoutCancel(ctx)

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, locator := range locators {
		g.Go(func() error {
			if err := r.store.Delete(ctx, locator); err != nil {
				failed.Add(1)
				r.logger.Warn("failed to delete blob",
					"locator", locator,
					"error", err,
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(failed.Load())
}

func storagePaths(files []models.File) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.StoragePath)
	}
	return paths
}
