package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/timmy/jobtrack/internal/domain"
)

// jobStatsSelect computes every figure in one pass. Null costs count as 0,
// so the average is taken over all jobs, priced or not.
const jobStatsSelect = `COUNT(*) AS total_jobs,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS scheduled_jobs,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress_jobs,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_jobs,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_jobs,
	COALESCE(SUM(COALESCE(total_cost, 0)), 0) AS total_revenue,
	COALESCE(AVG(COALESCE(total_cost, 0)), 0) AS average_job_value,
	COALESCE(SUM(CASE WHEN scheduled_date >= ? AND scheduled_date < ? THEN 1 ELSE 0 END), 0) AS jobs_today,
	COALESCE(SUM(CASE WHEN scheduled_date >= ? AND scheduled_date < ? AND status = ? THEN 1 ELSE 0 END), 0) AS scheduled_today`

// Stats aggregates a tenant's jobs. "Today" is the current day in the
// server's local calendar.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - businessID: owning tenant.
//
// Returns:
//   - *domain.JobStats: per-status counts, revenue and today's load.
//   - error: non-nil if the aggregation fails.
func (r *JobRepository) Stats(ctx context.Context, businessID int64) (*domain.JobStats, error) {
	today := r.now().In(time.Local)
	dayStart, dayEnd := startOfLocalDay(today), endOfLocalDay(today)

	var stats domain.JobStats
	err := r.db.WithContext(ctx).
		Model(&domain.Job{}).
		Select(jobStatsSelect,
			domain.JobStatusScheduled,
			domain.JobStatusInProgress,
			domain.JobStatusCompleted,
			domain.JobStatusCancelled,
			dayStart, dayEnd,
			dayStart, dayEnd, domain.JobStatusScheduled,
		).
		Where("business_id = ?", businessID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute job stats: %w", err)
	}
	return &stats, nil
}
