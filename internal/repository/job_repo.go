package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/domain"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	defaultMaxLimit  = 100
)

// JobRepositoryConfig tunes listing bounds and the status transition policy.
type JobRepositoryConfig struct {
	DefaultLimit int
	MaxLimit     int
	// StrictTransitions rejects status changes the transition table does not allow.
	StrictTransitions bool
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// JobRepository handles job data operations. Every statement is scoped by
// business_id, including joins to related rows.
type JobRepository struct {
	db      *gorm.DB
	history *StatusHistoryRepository
	cfg     JobRepositoryConfig
	now     func() time.Time
}

// NewJobRepository creates a new JobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//   - history: recorder invoked inside job write transactions.
//   - cfg: listing and transition settings; zero values get defaults.
//
// Returns:
//   - *JobRepository: repository instance bound to db.
func NewJobRepository(db *gorm.DB, history *StatusHistoryRepository, cfg JobRepositoryConfig) *JobRepository {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultListLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaultMaxLimit
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	history.now = now
	return &JobRepository{db: db, history: history, cfg: cfg, now: now}
}

// Create inserts a job with status scheduled and its creation history entry
// in one transaction. Any status the caller had in mind is ignored.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - businessID: owning tenant.
//   - in: creation payload.
//
// Returns:
//   - *domain.Job: the stored job.
//   - error: validation error for missing fields, or the store failure.
func (r *JobRepository) Create(ctx context.Context, businessID int64, in *domain.JobCreateInput) (*domain.Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	job := &domain.Job{
		BusinessID:         businessID,
		CustomerID:         *in.CustomerID,
		EstimateID:         in.EstimateID,
		AssignedEmployeeID: in.AssignedEmployeeID,
		Title:              in.Title,
		Description:        in.Description,
		ScheduledDate:      in.ScheduledDate.UTC(),
		Status:             domain.JobStatusScheduled,
		TotalCost:          in.TotalCost,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("failed to insert job: %w", err)
		}
		_, err := r.history.RecordCreation(tx, job.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns a job with its items, photos, notes, history and related summaries.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - businessID: owning tenant.
//   - jobID: job ID.
//
// Returns:
//   - *domain.JobDetail: the job and everything attached to it.
//   - error: NotFound if the job does not exist for the tenant.
func (r *JobRepository) Get(ctx context.Context, businessID, jobID int64) (*domain.JobDetail, error) {
	db := r.db.WithContext(ctx)

	job, err := findJob(db, businessID, jobID)
	if err != nil {
		return nil, err
	}

	detail := &domain.JobDetail{
		Job:    *job,
		Items:  []domain.JobItem{},
		Photos: []domain.JobPhoto{},
		Notes:  []domain.JobNote{},
	}

	if err := db.Where("job_id = ?", jobID).Order("id ASC").Find(&detail.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load job items: %w", err)
	}
	if err := db.Where("job_id = ?", jobID).Order("created_at ASC").Order("id ASC").Find(&detail.Photos).Error; err != nil {
		return nil, fmt.Errorf("failed to load job photos: %w", err)
	}
	if err := db.Where("job_id = ?", jobID).Order("created_at DESC").Order("id DESC").Find(&detail.Notes).Error; err != nil {
		return nil, fmt.Errorf("failed to load job notes: %w", err)
	}
	if detail.StatusHistory, err = r.history.ListByJob(ctx, jobID); err != nil {
		return nil, err
	}

	if detail.Customer, err = customerSummary(db, businessID, job.CustomerID); err != nil {
		return nil, err
	}
	if job.AssignedEmployeeID != nil {
		if detail.Employee, err = employeeSummary(db, businessID, *job.AssignedEmployeeID); err != nil {
			return nil, err
		}
	}
	if job.EstimateID != nil {
		if detail.Estimate, err = estimateSummary(db, businessID, *job.EstimateID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// Update applies a partial update. When the status changes, the history
// entry is written in the same transaction as the job row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - businessID: owning tenant.
//   - jobID: job ID.
//   - patch: fields to change; absent fields are left alone.
//
// Returns:
//   - *domain.Job: the job as stored after the update.
//   - error: ValidationError, NotFound, or the store failure.
func (r *JobRepository) Update(ctx context.Context, businessID, jobID int64, patch *domain.JobPatch) (*domain.Job, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findJob(tx, businessID, jobID)
		if err != nil {
			return err
		}

		now := r.now().UTC()
		updates := patchColumns(patch)
		updates["updated_at"] = now

		statusChanged := patch.Status.Set && patch.Status.Value != current.Status
		if statusChanged {
			next := patch.Status.Value
			if r.cfg.StrictTransitions && !domain.CanTransition(current.Status, next) {
				return apperr.ValidationField("status",
					fmt.Sprintf("cannot change status from %s to %s", current.Status, next))
			}
			if next == domain.JobStatusCompleted && !patch.CompletionDate.Set {
				updates["completion_date"] = now
			}
		}

		if err := tx.Model(&domain.Job{}).
			Where("id = ? AND business_id = ?", jobID, businessID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}

		if statusChanged {
			old := current.Status
			notes := statusChangeNote(old, patch.Status.Value)
			if patch.StatusNotes != nil && *patch.StatusNotes != "" {
				notes = *patch.StatusNotes
			}
			if _, err := r.history.Record(tx, jobID, &old, patch.Status.Value, patch.ChangedBy, notes); err != nil {
				return err
			}
		}

		updated, err = findJob(tx, businessID, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a job and its items, photos, notes and history in one
// transaction.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - businessID: owning tenant.
//   - jobID: job ID.
//
// Returns:
//   - []string: object storage keys of the deleted photos.
//   - error: NotFound if the job does not exist for the tenant.
func (r *JobRepository) Delete(ctx context.Context, businessID, jobID int64) ([]string, error) {
	var storageKeys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findJob(tx, businessID, jobID); err != nil {
			return err
		}

		if err := tx.Model(&domain.JobPhoto{}).
			Where("job_id = ? AND storage_key IS NOT NULL AND storage_key <> ''", jobID).
			Pluck("storage_key", &storageKeys).Error; err != nil {
			return fmt.Errorf("failed to collect photo keys: %w", err)
		}

		children := []interface{}{
			&domain.JobItem{},
			&domain.JobPhoto{},
			&domain.JobNote{},
			&domain.StatusHistoryEntry{},
		}
		for _, model := range children {
			if err := tx.Where("job_id = ?", jobID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete job children: %w", err)
			}
		}

		res := tx.Where("id = ? AND business_id = ?", jobID, businessID).Delete(&domain.Job{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete job: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("job")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return storageKeys, nil
}

// findJob loads one job under a tenant, translating a miss into NotFound.
func findJob(db *gorm.DB, businessID, jobID int64) (*domain.Job, error) {
	var job domain.Job
	err := db.Where("id = ? AND business_id = ?", jobID, businessID).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("job")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %d: %w", jobID, err)
	}
	return &job, nil
}

// patchColumns maps the present fields of a validated patch to column values.
func patchColumns(p *domain.JobPatch) map[string]interface{} {
	cols := make(map[string]interface{})
	if p.CustomerID.Set {
		cols["customer_id"] = p.CustomerID.Value
	}
	if p.EstimateID.Set {
		cols["estimate_id"] = p.EstimateID.Ptr()
	}
	if p.AssignedEmployeeID.Set {
		cols["assigned_employee_id"] = p.AssignedEmployeeID.Ptr()
	}
	if p.Title.Set {
		cols["title"] = p.Title.Value
	}
	if p.Description.Set {
		cols["description"] = p.Description.Ptr()
	}
	if p.ScheduledDate.Set {
		cols["scheduled_date"] = p.ScheduledDate.Value.UTC()
	}
	if p.CompletionDate.Set {
		if p.CompletionDate.Null {
			cols["completion_date"] = nil
		} else {
			cols["completion_date"] = p.CompletionDate.Value.UTC()
		}
	}
	if p.Status.Set {
		cols["status"] = p.Status.Value
	}
	if p.TotalCost.Set {
		cols["total_cost"] = p.TotalCost.Ptr()
	}
	return cols
}

func customerSummary(db *gorm.DB, businessID, id int64) (*domain.CustomerSummary, error) {
	var c domain.Customer
	err := db.Where("id = ? AND business_id = ?", id, businessID).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return &domain.CustomerSummary{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}, nil
}

func employeeSummary(db *gorm.DB, businessID, id int64) (*domain.EmployeeSummary, error) {
	var e domain.Employee
	err := db.Where("id = ? AND business_id = ?", id, businessID).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	return &domain.EmployeeSummary{ID: e.ID, Name: e.Name, Email: e.Email, Phone: e.Phone}, nil
}

func estimateSummary(db *gorm.DB, businessID, id int64) (*domain.EstimateSummary, error) {
	var e domain.Estimate
	err := db.Where("id = ? AND business_id = ?", id, businessID).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load estimate: %w", err)
	}
	return &domain.EstimateSummary{ID: e.ID, Title: e.Title, TotalAmount: e.TotalAmount, Status: e.Status}, nil
}
