package domain

import (
	"strings"

	"github.com/timmy/jobtrack/internal/apperr"
)

// JobCreateInput is the payload for creating a job. A status supplied by the
// caller is not part of the input: new jobs always start as scheduled.
type JobCreateInput struct {
	CustomerID         *int64    `json:"customer_id"`
	EstimateID         *int64    `json:"estimate_id"`
	AssignedEmployeeID *int64    `json:"assigned_employee_id"`
	Title              string    `json:"title"`
	Description        *string   `json:"description"`
	ScheduledDate      *DateTime `json:"scheduled_date"`
	TotalCost          *float64  `json:"total_cost"`
}

// Validate checks the required fields.
func (in *JobCreateInput) Validate() error {
	if in.CustomerID == nil || *in.CustomerID <= 0 {
		return apperr.ValidationField("customer_id", "customer_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return apperr.ValidationField("title", "title is required")
	}
	if in.ScheduledDate == nil || in.ScheduledDate.IsZero() {
		return apperr.ValidationField("scheduled_date", "scheduled_date is required")
	}
	return nil
}

// JobPatch is a partial update. Only fields present in the request are
// applied; an explicit null clears a nullable column.
//
// StatusNotes and ChangedBy annotate the status history entry written when
// the status changes. They are not job fields.
type JobPatch struct {
	CustomerID         Optional[int64]     `json:"customer_id"`
	EstimateID         Optional[int64]     `json:"estimate_id"`
	AssignedEmployeeID Optional[int64]     `json:"assigned_employee_id"`
	Title              Optional[string]    `json:"title"`
	Description        Optional[string]    `json:"description"`
	ScheduledDate      Optional[DateTime]  `json:"scheduled_date"`
	CompletionDate     Optional[DateTime]  `json:"completion_date"`
	Status             Optional[JobStatus] `json:"status"`
	TotalCost          Optional[float64]   `json:"total_cost"`

	StatusNotes *string `json:"status_notes"`
	ChangedBy   *int64  `json:"changed_by"`
}

// HasFields reports whether at least one job field is present.
func (p *JobPatch) HasFields() bool {
	return p.CustomerID.Set || p.EstimateID.Set || p.AssignedEmployeeID.Set ||
		p.Title.Set || p.Description.Set || p.ScheduledDate.Set ||
		p.CompletionDate.Set || p.Status.Set || p.TotalCost.Set
}

// Validate rejects empty patches, nulls on required columns and unknown statuses.
func (p *JobPatch) Validate() error {
	if !p.HasFields() {
		return apperr.Validation("no updatable fields provided")
	}

	required := []struct {
		name string
		set  bool
		null bool
	}{
		{"customer_id", p.CustomerID.Set, p.CustomerID.Null},
		{"title", p.Title.Set, p.Title.Null},
		{"scheduled_date", p.ScheduledDate.Set, p.ScheduledDate.Null},
		{"status", p.Status.Set, p.Status.Null},
	}
	for _, f := range required {
		if f.set && f.null {
			return apperr.ValidationField(f.name, f.name+" cannot be null")
		}
	}

	if p.CustomerID.Set && p.CustomerID.Value <= 0 {
		return apperr.ValidationField("customer_id", "customer_id must be positive")
	}
	if p.Title.Set && strings.TrimSpace(p.Title.Value) == "" {
		return apperr.ValidationField("title", "title cannot be empty")
	}
	if p.Status.Set && !p.Status.Value.Valid() {
		return apperr.ValidationField("status", "invalid status "+string(p.Status.Value))
	}
	return nil
}
