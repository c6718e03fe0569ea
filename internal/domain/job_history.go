package domain

import "time"

// StatusHistoryEntry is one immutable row of a job's status audit trail.
// OldStatus is nil only for the entry written when the job is created.
type StatusHistoryEntry struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID     int64      `gorm:"not null;index" json:"job_id"`
	OldStatus *JobStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus JobStatus  `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy *int64     `json:"changed_by"`
	Notes     string     `gorm:"type:text" json:"notes"`
	ChangedAt time.Time  `gorm:"not null" json:"changed_at"`
}

// TableName returns the database table name for StatusHistoryEntry.
func (StatusHistoryEntry) TableName() string {
	return "job_status_history"
}
