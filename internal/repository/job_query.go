package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/jobtrack/internal/domain"
	"gorm.io/gorm"
)

// jobSortColumns is the allow-list of sortable fields. Only these
// identifiers ever reach the ORDER BY clause.
var jobSortColumns = map[string]string{
	"scheduled_date":  "jobs.scheduled_date",
	"completion_date": "jobs.completion_date",
	"created_at":      "jobs.created_at",
	"total_cost":      "jobs.total_cost",
	"status":          "jobs.status",
}

const defaultSortColumn = "jobs.created_at"

const jobListColumns = `jobs.*,
	c.id AS customer_ref_id, c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone,
	e.id AS employee_ref_id, e.name AS employee_name, e.email AS employee_email, e.phone AS employee_phone,
	est.id AS estimate_ref_id, est.title AS estimate_title, est.total_amount AS estimate_total_amount, est.status AS estimate_status`

// jobListRow is one joined listing row. The *RefID columns come from the
// joined tables and are nil when the join found no row.
type jobListRow struct {
	domain.Job

	CustomerRefID *int64
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string

	EmployeeRefID *int64
	EmployeeName  *string
	EmployeeEmail *string
	EmployeePhone *string

	EstimateRefID       *int64
	EstimateTitle       *string
	EstimateTotalAmount *float64
	EstimateStatus      *string
}

// listQuery is a normalized listing request.
type listQuery struct {
	filter  domain.JobFilter
	page    int
	limit   int
	orderBy string
}

// normalizeListOptions applies paging defaults, caps the limit and resolves
// the sort column against the allow-list.
func (r *JobRepository) normalizeListOptions(opts domain.JobListOptions) listQuery {
	q := listQuery{filter: opts.Filter, page: opts.Page, limit: opts.Limit}
	if q.page < 1 {
		q.page = 1
	}
	if q.limit < 1 {
		q.limit = r.cfg.DefaultLimit
	}
	if q.limit > r.cfg.MaxLimit {
		q.limit = r.cfg.MaxLimit
	}

	column, ok := jobSortColumns[opts.SortBy]
	if !ok {
		column = defaultSortColumn
	}
	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}
	// jobs.id keeps pages stable when sort values tie.
	q.orderBy = column + " " + direction + ", jobs.id " + direction
	return q
}

// List returns one page of a tenant's jobs with related summaries, plus
// totals computed with the same predicate.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - businessID: owning tenant.
//   - opts: filter, paging and sorting.
//
// Returns:
//   - *domain.JobPage: items and pagination.
//   - error: non-nil if either query fails.
func (r *JobRepository) List(ctx context.Context, businessID int64, opts domain.JobListOptions) (*domain.JobPage, error) {
	q := r.normalizeListOptions(opts)
	db := r.db.WithContext(ctx)

	var total int64
	if err := scopeJobs(db.Model(&domain.Job{}), businessID, q.filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	rows := []jobListRow{}
	page := db.Table("jobs").
		Select(jobListColumns).
		Joins("LEFT JOIN customers c ON c.id = jobs.customer_id AND c.business_id = jobs.business_id").
		Joins("LEFT JOIN employees e ON e.id = jobs.assigned_employee_id AND e.business_id = jobs.business_id").
		Joins("LEFT JOIN estimates est ON est.id = jobs.estimate_id AND est.business_id = jobs.business_id")
	if err := scopeJobs(page, businessID, q.filter).
		Order(q.orderBy).
		Limit(q.limit).
		Offset((q.page - 1) * q.limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	items := make([]domain.JobListItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toListItem())
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(q.limit) - 1) / int64(q.limit))
	}

	return &domain.JobPage{
		Items: items,
		Pagination: domain.Pagination{
			Page:       q.page,
			Limit:      q.limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// scopeJobs adds the tenant scope and the filter predicate. It is shared by
// the count and page queries so both see the same rows.
func scopeJobs(q *gorm.DB, businessID int64, f domain.JobFilter) *gorm.DB {
	q = q.Where("jobs.business_id = ?", businessID)
	if f.Status != "" {
		q = q.Where("jobs.status = ?", f.Status)
	}
	if f.CustomerID != nil {
		q = q.Where("jobs.customer_id = ?", *f.CustomerID)
	}
	if f.EmployeeID != nil {
		q = q.Where("jobs.assigned_employee_id = ?", *f.EmployeeID)
	}
	if f.DateFrom != nil {
		q = q.Where("jobs.scheduled_date >= ?", startOfLocalDay(*f.DateFrom))
	}
	if f.DateTo != nil {
		q = q.Where("jobs.scheduled_date < ?", endOfLocalDay(*f.DateTo))
	}
	return q
}

// startOfLocalDay returns local midnight of t's calendar day, as UTC.
func startOfLocalDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local).UTC()
}

// endOfLocalDay returns the next local midnight after t's calendar day, as
// UTC. Days around a DST switch last 23 or 25 hours.
func endOfLocalDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.Local).UTC()
}

func (row *jobListRow) toListItem() domain.JobListItem {
	item := domain.JobListItem{Job: row.Job}
	if row.CustomerRefID != nil {
		item.Customer = &domain.CustomerSummary{
			ID:    *row.CustomerRefID,
			Name:  deref(row.CustomerName),
			Email: deref(row.CustomerEmail),
			Phone: deref(row.CustomerPhone),
		}
	}
	if row.EmployeeRefID != nil {
		item.Employee = &domain.EmployeeSummary{
			ID:    *row.EmployeeRefID,
			Name:  deref(row.EmployeeName),
			Email: deref(row.EmployeeEmail),
			Phone: deref(row.EmployeePhone),
		}
	}
	if row.EstimateRefID != nil {
		item.Estimate = &domain.EstimateSummary{
			ID:          *row.EstimateRefID,
			Title:       deref(row.EstimateTitle),
			TotalAmount: row.EstimateTotalAmount,
			Status:      deref(row.EstimateStatus),
		}
	}
	return item
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
