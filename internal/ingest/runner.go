package ingest

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kelvinosei/momograph/internal/domain"
)

// BatchLoader is the storage contract the runner needs: one transactional,
// idempotent write per batch.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.Record) error
}

// Runner splits records into fixed-size batches and feeds them to the
// loader. With one worker batches commit strictly in order; more workers
// commit independent batches concurrently, which is safe because every write
// is an upsert guarded by uniqueness constraints. A failed run can simply be
// re-invoked: committed batches replay as no-ops.
type Runner struct {
	loader    BatchLoader
	batchSize int
	workers   int
	logger    *slog.Logger
}

// NewRunner builds a Runner, normalizing non-positive settings.
func NewRunner(loader BatchLoader, batchSize, workers int, logger *slog.Logger) *Runner {
	if batchSize <= 0 {
		batchSize = 500
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		loader:    loader,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// Run ingests all records. The first batch error aborts the run.
func (r *Runner) Run(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	batches := Split(records, r.batchSize)
	total := len(batches)

	if r.workers == 1 {
		for i, batch := range batches {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.logger.Info("loading batch", "batch", i+1, "of", total, "rows", len(batch))
			if err := r.loader.LoadBatch(ctx, batch); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			r.logger.Info("loading batch", "batch", i+1, "of", total, "rows", len(batch))
			return r.loader.LoadBatch(gctx, batch)
		})
	}
	return g.Wait()
}

// Split partitions records into consecutive batches of at most size rows.
func Split(records []domain.Record, size int) [][]domain.Record {
	if size <= 0 {
		size = 500
	}
	var batches [][]domain.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}
