package service

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/domain"
	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/repository"
	"github.com/timmy/jobtrack/internal/storage"
	"github.com/timmy/jobtrack/internal/tenant"
)

// storageCleanupTimeout bounds best-effort photo removal after a delete.
const storageCleanupTimeout = 10 * time.Second

// JobService exposes job operations for the tenant carried by the request context.
// It logs through the logger carried by that context.
type JobService struct {
	jobs    *repository.JobRepository
	storage storage.ObjectStorage
}

// NewJobService creates a new job service.
// Parameters:
//   - jobs: job repository.
//   - objectStorage: photo storage; nil disables URL resolution and cleanup.
//
// Returns:
//   - *JobService: service instance.
func NewJobService(jobs *repository.JobRepository, objectStorage storage.ObjectStorage) *JobService {
	return &JobService{jobs: jobs, storage: objectStorage}
}

// resolve returns the tenant of ctx. It runs before any repository call.
func (s *JobService) resolve(ctx context.Context) (tenant.Identity, error) {
	id, err := tenant.FromContext(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("Rejected job request without identity")
		return tenant.Identity{}, err
	}
	return id, nil
}

// fail passes coded errors through and turns anything else into an
// internal error after logging the cause.
func (s *JobService) fail(ctx context.Context, op string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Code != apperr.CodeInternal {
		return appErr
	}
	logger.FromContext(ctx).WithField(logger.FieldOperation, op).WithError(err).Error("Job store operation failed")
	return apperr.Internal("failed to "+op, err)
}

// List returns a filtered, sorted page of the tenant's jobs.
func (s *JobService) List(ctx context.Context, opts domain.JobListOptions) (*domain.JobPage, error) {
	id, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := s.jobs.List(ctx, id.BusinessID, opts)
	if err != nil {
		return nil, s.fail(ctx, "list jobs", err)
	}

	logger.With(logger.Fields{
		logger.FieldOperation: "list",
	}).WithDuration(time.Since(start).Milliseconds()).
		WithCount(len(page.Items)).
		Debug(ctx, "Listed jobs page %d of %d", page.Pagination.Page, page.Pagination.TotalPages)
	return page, nil
}

// Get returns one job with its children. Photos stored without a URL get
// one from object storage.
func (s *JobService) Get(ctx context.Context, jobID int64) (*domain.JobDetail, error) {
	id, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.jobs.Get(ctx, id.BusinessID, jobID)
	if err != nil {
		return nil, s.fail(ctx, "get job", err)
	}

	if s.storage != nil {
		for i := range detail.Photos {
			p := &detail.Photos[i]
			if p.URL == "" && p.StorageKey != "" {
				p.URL = s.storage.GetURL(p.StorageKey)
			}
		}
	}
	return detail, nil
}

// Create stores a new job for the tenant. Its status is always scheduled.
func (s *JobService) Create(ctx context.Context, in *domain.JobCreateInput) (*domain.Job, error) {
	id, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.Create(ctx, id.BusinessID, in)
	if err != nil {
		return nil, s.fail(ctx, "create job", err)
	}

	logger.FromContext(logger.SetJobID(ctx, job.ID)).Info("Job created")
	return job, nil
}

// Update applies a partial update to one of the tenant's jobs.
func (s *JobService) Update(ctx context.Context, jobID int64, patch *domain.JobPatch) (*domain.Job, error) {
	id, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.Update(ctx, id.BusinessID, jobID, patch)
	if err != nil {
		return nil, s.fail(ctx, "update job", err)
	}

	if patch.Status.Set {
		logger.FromContext(logger.SetJobID(ctx, job.ID)).WithField(logger.FieldStatus, job.Status).Info("Job updated")
	}
	return job, nil
}

// Delete removes one of the tenant's jobs with everything attached to it.
// Photo objects are then removed from storage; failures there are logged only.
func (s *JobService) Delete(ctx context.Context, jobID int64) error {
	id, err := s.resolve(ctx)
	if err != nil {
		return err
	}

	keys, err := s.jobs.Delete(ctx, id.BusinessID, jobID)
	if err != nil {
		return s.fail(ctx, "delete job", err)
	}

	ctx = logger.SetJobID(ctx, jobID)
	logger.FromContext(ctx).WithField(logger.FieldCount, len(keys)).Info("Job deleted")
	s.removeObjects(ctx, keys)
	return nil
}

func (s *JobService) removeObjects(ctx context.Context, keys []string) {
	if s.storage == nil || len(keys) == 0 {
		return
	}

	// The request may already be finished; cleanup gets its own deadline.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storageCleanupTimeout)
	defer cancel()

	for _, key := range keys {
		if err := s.storage.Delete(cleanupCtx, key); err != nil {
			logger.FromContext(ctx).WithField("storage_key", key).WithError(err).Warn("Failed to delete job photo object")
		}
	}
}

// Stats aggregates the tenant's jobs.
func (s *JobService) Stats(ctx context.Context) (*domain.JobStats, error) {
	id, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.jobs.Stats(ctx, id.BusinessID)
	if err != nil {
		return nil, s.fail(ctx, "compute job stats", err)
	}
	return stats, nil
}
