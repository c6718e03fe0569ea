package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/timmy/jobtrack/internal/domain"
)

// JobRecord is one job as delivered by an import feed.
type JobRecord struct {
	ExternalID         string   `json:"external_id"` // Feed-side identifier, used in logs only
	CustomerID         int64    `json:"customer_id"`
	EstimateID         *int64   `json:"estimate_id"`
	AssignedEmployeeID *int64   `json:"assigned_employee_id"`
	Title              string   `json:"title"`
	Description        *string  `json:"description"`
	ScheduledDate      string   `json:"scheduled_date"`
	TotalCost          *float64 `json:"total_cost"`
}

// ToCreateInput converts the record into a job creation payload.
// Parameters: none.
// Returns:
//   - *domain.JobCreateInput: payload for job creation.
//   - error: non-nil if the scheduled date cannot be parsed.
func (r JobRecord) ToCreateInput() (*domain.JobCreateInput, error) {
	in := &domain.JobCreateInput{
		EstimateID:         r.EstimateID,
		AssignedEmployeeID: r.AssignedEmployeeID,
		Title:              r.Title,
		Description:        r.Description,
		TotalCost:          r.TotalCost,
	}
	if r.CustomerID != 0 {
		customerID := r.CustomerID
		in.CustomerID = &customerID
	}
	if strings.TrimSpace(r.ScheduledDate) != "" {
		ts, err := domain.ParseDateTime(r.ScheduledDate)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ExternalID, err)
		}
		in.ScheduledDate = &domain.DateTime{Time: ts}
	}
	return in, nil
}

// Source defines the interface for job import feeds.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	GetDisplayName() string

	// FetchBatch fetches a batch of job records starting from the given cursor.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - cursor: pagination cursor or empty for first page.
	//   - limit: maximum number of records to fetch.
	// Returns:
	//   - records: batch of job records.
	//   - nextCursor: cursor for the next batch or empty if done.
	//   - err: non-nil if fetching fails.
	FetchBatch(ctx context.Context, cursor string, limit int) (records []JobRecord, nextCursor string, err error)
}
