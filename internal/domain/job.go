package domain

import "time"

// JobStatus represents the lifecycle state of a job.
// Values include JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, and JobStatusCancelled.
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobStatuses lists every known status in lifecycle order.
var JobStatuses = []JobStatus{
	JobStatusScheduled,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
}

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions is the strict transition table. Cancelled is terminal.
var allowedTransitions = map[JobStatus][]JobStatus{
	JobStatusScheduled:  {JobStatusInProgress, JobStatusCompleted, JobStatusCancelled},
	JobStatusInProgress: {JobStatusScheduled, JobStatusCompleted, JobStatusCancelled},
	JobStatusCompleted:  {JobStatusInProgress},
	JobStatusCancelled:  nil,
}

// CanTransition reports whether the strict table permits moving from one status to another.
// A status never "transitions" to itself, so from == to is always allowed.
func CanTransition(from, to JobStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Job is a unit of work performed for a customer of a business.
// All times are stored in UTC.
type Job struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID         int64      `gorm:"not null;index:idx_jobs_business_status,priority:1;index:idx_jobs_business_scheduled,priority:1" json:"business_id"`
	CustomerID         int64      `gorm:"not null;index" json:"customer_id"`
	EstimateID         *int64     `json:"estimate_id"`
	AssignedEmployeeID *int64     `gorm:"index" json:"assigned_employee_id"`
	Title              string     `gorm:"type:varchar(255);not null" json:"title"`
	Description        *string    `gorm:"type:text" json:"description"`
	ScheduledDate      time.Time  `gorm:"not null;index:idx_jobs_business_scheduled,priority:2" json:"scheduled_date"`
	CompletionDate     *time.Time `json:"completion_date"`
	Status             JobStatus  `gorm:"type:varchar(20);not null;default:scheduled;index:idx_jobs_business_status,priority:2" json:"status"`
	TotalCost          *float64   `gorm:"type:decimal(12,2)" json:"total_cost"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Job.
func (Job) TableName() string {
	return "jobs"
}

// JobDetail is a job with its child collections and related summaries.
type JobDetail struct {
	Job
	Items         []JobItem            `json:"items"`
	Photos        []JobPhoto           `json:"photos"`
	Notes         []JobNote            `json:"notes"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
	Customer      *CustomerSummary     `json:"customer"`
	Employee      *EmployeeSummary     `json:"employee"`
	Estimate      *EstimateSummary     `json:"estimate"`
}

// JobStats holds per-tenant aggregate figures.
type JobStats struct {
	TotalJobs       int64   `json:"total_jobs"`
	ScheduledJobs   int64   `json:"scheduled_jobs"`
	InProgressJobs  int64   `json:"in_progress_jobs"`
	CompletedJobs   int64   `json:"completed_jobs"`
	CancelledJobs   int64   `json:"cancelled_jobs"`
	TotalRevenue    float64 `json:"total_revenue"`
	AverageJobValue float64 `json:"average_job_value"`
	JobsToday       int64   `json:"jobs_today"`
	ScheduledToday  int64   `json:"scheduled_today"`
}
