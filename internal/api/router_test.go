package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/timmy/jobtrack/internal/api/middleware"
	"github.com/timmy/jobtrack/internal/domain"
	"github.com/timmy/jobtrack/internal/repository"
	"github.com/timmy/jobtrack/internal/service"
	"github.com/timmy/jobtrack/internal/testutil"
)

var testAuth = middleware.AuthConfig{Secret: []byte("test-secret"), Issuer: "jobtrack-test"}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Timestamp string          `json:"timestamp"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	return newTestServerWithPing(t, db, sqlDB.PingContext)
}

func newTestServerWithPing(t *testing.T, db *gorm.DB, ping func(context.Context) error) *testServer {
	t.Helper()
	repo := repository.NewJobRepository(db, repository.NewStatusHistoryRepository(db), repository.JobRepositoryConfig{})
	jobs := service.NewJobService(repo, nil)
	router := SetupRouter(jobs, RouterConfig{
		Mode: "test",
		CORS: middleware.CORSConfig{AllowAllOrigins: true},
		Auth: testAuth,
		Ping: ping,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) token(businessID int64) string {
	tok, err := middleware.IssueToken(testAuth, businessID, "owner", time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path string, businessID int64, body string) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if businessID > 0 {
		req.Header.Set("Authorization", "Bearer "+s.token(businessID))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.NotEmpty(s.t, env.Timestamp)
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/health", 0, "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestHealth_DatabaseDown(t *testing.T) {
	s := newTestServerWithPing(t, testutil.NewTestDB(t), func(context.Context) error {
		return errors.New("connection refused")
	})
	code, env := s.do(http.MethodGet, "/health", 0, "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.Success)
	assert.Equal(t, "INTERNAL_ERROR", env.Error)
	assert.Equal(t, "database unavailable", env.Message)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/v1/jobs", 0, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	forged, err := middleware.IssueToken(middleware.AuthConfig{Secret: []byte("other"), Issuer: testAuth.Issuer}, 1, "x", time.Hour)
	require.NoError(t, err)
	expired, err := middleware.IssueToken(testAuth, 1, "x", -time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := middleware.IssueToken(middleware.AuthConfig{Secret: testAuth.Secret, Issuer: "elsewhere"}, 1, "x", time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{"forged": forged, "expired": expired, "issuer": wrongIssuer} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/stats", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/jobs", 1,
		`{"customer_id": 7, "title": "Cleanout", "scheduled_date": "2024-06-01", "status": "completed"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decode[domain.Job](t, env.Data)
	assert.Equal(t, domain.JobStatusScheduled, created.Status)
	assert.Nil(t, created.TotalCost)

	path := fmt.Sprintf("/api/v1/jobs/%d", created.ID)

	code, env = s.do(http.MethodPatch, path, 1, `{"status": "completed", "total_cost": 250, "status_notes": "done early"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decode[domain.Job](t, env.Data)
	assert.Equal(t, domain.JobStatusCompleted, updated.Status)

	code, env = s.do(http.MethodGet, path, 1, "")
	require.Equal(t, http.StatusOK, code)
	detail := decode[domain.JobDetail](t, env.Data)
	require.Len(t, detail.StatusHistory, 2)
	assert.Equal(t, "done early", detail.StatusHistory[0].Notes)
	assert.Equal(t, "Job created", detail.StatusHistory[1].Notes)

	code, env = s.do(http.MethodGet, "/api/v1/jobs/stats", 1, "")
	require.Equal(t, http.StatusOK, code)
	stats := decode[domain.JobStats](t, env.Data)
	assert.InDelta(t, 250.0, stats.TotalRevenue, 0.001)
	assert.Equal(t, int64(1), stats.CompletedJobs)

	code, env = s.do(http.MethodPut, path, 1, `{"description": null, "total_cost": null}`)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, decode[domain.Job](t, env.Data).TotalCost)

	code, env = s.do(http.MethodDelete, path, 1, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Job deleted successfully", env.Message)
	assert.Empty(t, env.Data)

	code, env = s.do(http.MethodGet, path, 1, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error)
}

func TestTenantIsolation(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(http.MethodPost, "/api/v1/jobs", 1, `{"customer_id": 7, "title": "Mine", "scheduled_date": "2024-06-01T08:00:00Z"}`)
	job := decode[domain.Job](t, env.Data)
	path := fmt.Sprintf("/api/v1/jobs/%d", job.ID)

	code, env := s.do(http.MethodGet, path, 2, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error)

	code, _ = s.do(http.MethodPatch, path, 2, `{"title": "Theirs"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, path, 2, "")
	assert.Equal(t, http.StatusNotFound, code)

	_, env = s.do(http.MethodGet, "/api/v1/jobs", 2, "")
	page := decode[domain.JobPage](t, env.Data)
	assert.Empty(t, page.Items)

	code, env = s.do(http.MethodGet, path, 1, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Mine", decode[domain.Job](t, env.Data).Title)
}

func TestListPagination(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 25; i++ {
		code, _ := s.do(http.MethodPost, "/api/v1/jobs", 1,
			fmt.Sprintf(`{"customer_id": 7, "title": "job %d", "scheduled_date": "2024-06-%02d"}`, i, i%28+1))
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := s.do(http.MethodGet, "/api/v1/jobs?limit=20&page=2&sort_by=scheduled_date&sort_order=asc", 1, "")
	require.Equal(t, http.StatusOK, code)
	page := decode[domain.JobPage](t, env.Data)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(25), page.Pagination.TotalItems)

	code, env = s.do(http.MethodGet, "/api/v1/jobs?date_from=2024-06-01&date_to=2024-06-03&status=scheduled", 1, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), decode[domain.JobPage](t, env.Data).Pagination.TotalItems)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/v1/jobs?page=two", ""},
		{http.MethodGet, "/api/v1/jobs?customer_id=x", ""},
		{http.MethodGet, "/api/v1/jobs?date_from=yesterday", ""},
		{http.MethodGet, "/api/v1/jobs/abc", ""},
		{http.MethodPost, "/api/v1/jobs", `{"title": "no customer", "scheduled_date": "2024-06-01"}`},
		{http.MethodPost, "/api/v1/jobs", `{not json`},
		{http.MethodPatch, "/api/v1/jobs/1", `{}`},
		{http.MethodPatch, "/api/v1/jobs/1", `{"title": null}`},
		{http.MethodPatch, "/api/v1/jobs/1", `{"status": "archived"}`},
	}
	for _, tc := range cases {
		code, env := s.do(tc.method, tc.path, 1, tc.body)
		assert.Equal(t, http.StatusBadRequest, code, "%s %s %s", tc.method, tc.path, tc.body)
		assert.Equal(t, "VALIDATION_ERROR", env.Error)
		assert.False(t, env.Success)
	}
}
