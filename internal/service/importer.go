package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/source"
)

// Importer creates jobs from an import feed with a pool of workers.
// Records go through JobService.Create, so they are validated and get their
// creation history exactly like API-created jobs. Re-running an import
// creates the jobs again.
type Importer struct {
	jobs      *JobService
	workers   int
	batchSize int
}

// ImporterConfig holds configuration for the importer.
type ImporterConfig struct {
	Workers   int
	BatchSize int
}

// ImportStats holds statistics for an import run.
type ImportStats struct {
	TotalItems   int64
	CreatedItems int64
	FailedItems  int64
	StartTime    time.Time
	EndTime      time.Time
}

// NewImporter creates a new importer.
func NewImporter(jobs *JobService, cfg *ImporterConfig) *Importer {
	imp := &Importer{jobs: jobs, workers: 4, batchSize: 50}
	if cfg != nil && cfg.Workers > 0 {
		imp.workers = cfg.Workers
	}
	if cfg != nil && cfg.BatchSize > 0 {
		imp.batchSize = cfg.BatchSize
	}
	return imp
}

// Import reads up to limit records from src and creates a job for each,
// under the tenant carried by ctx. A limit of zero or less means no limit.
// Parameters:
//   - ctx: context carrying the tenant identity; cancellation stops the run.
//   - src: import feed.
//   - limit: maximum number of records to read.
//
// Returns:
//   - *ImportStats: counts for the run; non-nil whenever the run started.
//   - error: non-nil if ctx carries no identity, a batch could not be
//     fetched, or ctx was canceled before the feed was exhausted.
func (imp *Importer) Import(ctx context.Context, src source.Source, limit int) (*ImportStats, error) {
	if _, err := imp.jobs.resolve(ctx); err != nil {
		return nil, err
	}

	stats := &ImportStats{StartTime: time.Now()}
	ctx = logger.WithField(ctx, "source", src.GetSourceID())
	log := logger.FromContext(ctx)
	log.WithFields(logger.Fields{
		"limit":   limit,
		"workers": imp.workers,
	}).Info("Starting import")

	records := make(chan source.JobRecord, imp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < imp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			imp.worker(ctx, records, stats)
		}()
	}

	var runErr error
	cursor := ""
	fetched := 0
fetch:
	for ctx.Err() == nil {
		batchLimit := imp.batchSize
		if limit > 0 {
			remaining := limit - fetched
			if remaining <= 0 {
				break
			}
			if batchLimit > remaining {
				batchLimit = remaining
			}
		}

		batch, next, err := src.FetchBatch(ctx, cursor, batchLimit)
		if err != nil {
			log.WithError(err).WithField("cursor", cursor).Error("Failed to fetch batch")
			runErr = fmt.Errorf("failed to fetch batch at cursor %q: %w", cursor, err)
			break
		}
		if len(batch) == 0 {
			break
		}
		if len(batch) > batchLimit {
			batch = batch[:batchLimit]
		}

		atomic.AddInt64(&stats.TotalItems, int64(len(batch)))
		fetched += len(batch)

		for _, rec := range batch {
			select {
			case records <- rec:
			case <-ctx.Done():
				break fetch
			}
		}

		if next == "" {
			break
		}
		cursor = next
	}

	close(records)
	wg.Wait()
	stats.EndTime = time.Now()
	if runErr == nil && ctx.Err() != nil {
		runErr = fmt.Errorf("import interrupted: %w", ctx.Err())
	}

	logger.With(logger.Fields{
		"total":   stats.TotalItems,
		"created": stats.CreatedItems,
		"failed":  stats.FailedItems,
	}).WithDuration(stats.EndTime.Sub(stats.StartTime).Milliseconds()).Info(ctx, "Import completed")

	return stats, runErr
}

func (imp *Importer) worker(ctx context.Context, records <-chan source.JobRecord, stats *ImportStats) {
	for rec := range records {
		if ctx.Err() != nil {
			atomic.AddInt64(&stats.FailedItems, 1)
			continue
		}

		in, err := rec.ToCreateInput()
		if err == nil {
			_, err = imp.jobs.Create(ctx, in)
		}
		if err != nil {
			atomic.AddInt64(&stats.FailedItems, 1)
			logger.FromContext(ctx).WithField("external_id", rec.ExternalID).WithError(err).Warn("Failed to import record")
			continue
		}
		atomic.AddInt64(&stats.CreatedItems, 1)
	}
}
