package domain

import "time"

// JobItem is a priced line on a job.
type JobItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID       int64     `gorm:"not null;index" json:"job_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Quantity    float64   `gorm:"type:decimal(10,2);not null;default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	TotalPrice  float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}

func (JobItem) TableName() string {
	return "job_items"
}

// JobPhoto references an uploaded image. URL may be empty when only the
// object storage key is known; readers resolve it on the way out.
type JobPhoto struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID      int64     `gorm:"not null;index" json:"job_id"`
	URL        string    `gorm:"type:text" json:"url"`
	StorageKey string    `gorm:"type:text" json:"storage_key,omitempty"`
	Caption    string    `gorm:"type:text" json:"caption"`
	UploadedBy *int64    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (JobPhoto) TableName() string {
	return "job_photos"
}

// JobNote is free text attached to a job by an employee.
type JobNote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID      int64     `gorm:"not null;index" json:"job_id"`
	EmployeeID *int64    `json:"employee_id"`
	Note       string    `gorm:"type:text;not null" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

func (JobNote) TableName() string {
	return "job_notes"
}
