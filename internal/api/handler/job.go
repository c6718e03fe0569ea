package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/domain"
	"github.com/timmy/jobtrack/internal/service"
)

// JobHandler handles job endpoints.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler creates a new job handler.
// Parameters:
//   - jobs: job service instance.
//
// Returns:
//   - *JobHandler: initialized handler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// ListJobs handles GET /api/v1/jobs.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *JobHandler) ListJobs(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	page, err := h.jobs.List(c.Request.Context(), opts)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondJSON(c, http.StatusOK, "", page)
}

// GetJob handles GET /api/v1/jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondJSON(c, http.StatusOK, "", job)
}

// CreateJob handles POST /api/v1/jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var in domain.JobCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), &in)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondJSON(c, http.StatusCreated, "Job created successfully", job)
}

// UpdateJob handles PATCH and PUT /api/v1/jobs/:id. Both apply only the
// fields present in the body.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var patch domain.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, &patch)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondJSON(c, http.StatusOK, "Job updated successfully", job)
}

// DeleteJob handles DELETE /api/v1/jobs/:id.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondJSON(c, http.StatusOK, "Job deleted successfully", nil)
}

// GetStats handles GET /api/v1/jobs/stats.
func (h *JobHandler) GetStats(c *gin.Context) {
	stats, err := h.jobs.Stats(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondJSON(c, http.StatusOK, "", stats)
}

func jobID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationField("id", "invalid job id")
	}
	return id, nil
}

// parseListOptions reads the listing query string. Malformed numbers and
// dates are rejected; range and sort normalization happen in the repository.
func parseListOptions(c *gin.Context) (domain.JobListOptions, error) {
	opts := domain.JobListOptions{
		Filter: domain.JobFilter{
			Status: strings.TrimSpace(c.Query("status")),
		},
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	var err error
	if opts.Page, err = queryInt(c, "page"); err != nil {
		return opts, err
	}
	if opts.Limit, err = queryInt(c, "limit"); err != nil {
		return opts, err
	}
	if opts.Filter.CustomerID, err = queryID(c, "customer_id"); err != nil {
		return opts, err
	}
	if opts.Filter.EmployeeID, err = queryID(c, "employee_id"); err != nil {
		return opts, err
	}
	if opts.Filter.DateFrom, err = queryDate(c, "date_from"); err != nil {
		return opts, err
	}
	if opts.Filter.DateTo, err = queryDate(c, "date_to"); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ValidationField(key, key+" must be an integer")
	}
	return n, nil
}

func queryID(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.ValidationField(key, key+" must be an integer")
	}
	return &n, nil
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := domain.ParseDateTime(raw)
	if err != nil {
		return nil, apperr.ValidationField(key, key+" must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}
