package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/timmy/jobtrack/internal/domain"
	"gorm.io/gorm"
)

// Note written on the entry recorded at job creation.
const creationNote = "Job created"

// StatusHistoryRepository appends and reads job status audit entries.
// Entries are only ever inserted; there is no update or standalone delete.
type StatusHistoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStatusHistoryRepository creates a new StatusHistoryRepository.
// Parameters:
//   - db: GORM database handle used for reads outside a transaction.
//
// Returns:
//   - *StatusHistoryRepository: repository instance bound to db.
func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db, now: time.Now}
}

// Record appends one history entry on the caller's transaction handle so the
// entry commits or rolls back together with the job write.
// Parameters:
//   - tx: transaction handle of the job write.
//   - jobID: job whose status changed.
//   - oldStatus: previous status, nil only for creation.
//   - newStatus: status now in effect.
//   - changedBy: optional employee reference.
//   - notes: free-text note.
//
// Returns:
//   - *domain.StatusHistoryEntry: the inserted entry.
//   - error: non-nil if oldStatus equals newStatus or the insert fails.
func (r *StatusHistoryRepository) Record(
	tx *gorm.DB,
	jobID int64,
	oldStatus *domain.JobStatus,
	newStatus domain.JobStatus,
	changedBy *int64,
	notes string,
) (*domain.StatusHistoryEntry, error) {
	if oldStatus != nil && *oldStatus == newStatus {
		return nil, fmt.Errorf("status history: old and new status are both %q", newStatus)
	}

	entry := &domain.StatusHistoryEntry{
		JobID:     jobID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Notes:     notes,
		ChangedAt: r.now().UTC(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to insert status history: %w", err)
	}
	return entry, nil
}

// RecordCreation writes the single entry for a newly created job.
func (r *StatusHistoryRepository) RecordCreation(tx *gorm.DB, jobID int64) (*domain.StatusHistoryEntry, error) {
	return r.Record(tx, jobID, nil, domain.JobStatusScheduled, nil, creationNote)
}

// ListByJob returns a job's history newest-first, ties broken by id.
// Callers must already have checked that the job belongs to their tenant.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: job ID.
//
// Returns:
//   - []domain.StatusHistoryEntry: entries, newest first.
//   - error: non-nil if the query fails.
func (r *StatusHistoryRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.StatusHistoryEntry, error) {
	entries := []domain.StatusHistoryEntry{}
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("changed_at DESC").
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return entries, nil
}

func statusChangeNote(from, to domain.JobStatus) string {
	return fmt.Sprintf("Status changed from %s to %s", from, to)
}
