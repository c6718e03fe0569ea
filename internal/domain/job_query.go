package domain

import "time"

// JobFilter narrows a job listing. Nil or empty fields do not filter.
// DateFrom and DateTo are calendar days in the server's local time and are
// both inclusive.
type JobFilter struct {
	Status     string
	CustomerID *int64
	EmployeeID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

// JobListOptions is a listing request: filter, page and sort.
type JobListOptions struct {
	Filter    JobFilter
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// JobListItem is a job with the summaries of its related rows. A summary is
// nil when the referenced row does not exist for the job's business.
type JobListItem struct {
	Job
	Customer *CustomerSummary `json:"customer"`
	Employee *EmployeeSummary `json:"employee"`
	Estimate *EstimateSummary `json:"estimate"`
}

type JobPage struct {
	Items      []JobListItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}
