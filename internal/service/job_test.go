package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/domain"
	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/repository"
	"github.com/timmy/jobtrack/internal/tenant"
	"github.com/timmy/jobtrack/internal/testutil"
)

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	failOn  string
}

func (f *fakeStorage) GetURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if key == f.failOn {
		return errors.New("access denied")
	}
	return nil
}

func newJobService(t *testing.T, store *fakeStorage) (*JobService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := repository.NewJobRepository(db, repository.NewStatusHistoryRepository(db), repository.JobRepositoryConfig{})
	if store == nil {
		return NewJobService(repo, nil), db
	}
	return NewJobService(repo, store), db
}

func asTenant(businessID int64) context.Context {
	return tenant.WithIdentity(context.Background(), tenant.Identity{BusinessID: businessID, Username: "owner"})
}

func scheduledInput(title string) *domain.JobCreateInput {
	return testutil.CreateInput(7, title, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local))
}

func TestJobService_RequiresIdentity(t *testing.T) {
	svc, db := newJobService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, scheduledInput("x"))
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.List(ctx, domain.JobListOptions{})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Update(ctx, 1, &domain.JobPatch{Title: domain.Some("x")})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, 1), apperr.ErrUnauthorized)
	_, err = svc.Stats(ctx)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	var count int64
	require.NoError(t, db.Model(&domain.Job{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestJobService_CompletionScenario(t *testing.T) {
	svc, _ := newJobService(t, nil)
	ctx := asTenant(1)

	job, err := svc.Create(ctx, scheduledInput("Cleanout"))
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusScheduled, job.Status)

	before, err := svc.Stats(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, job.ID, &domain.JobPatch{
		Status:    domain.Some(domain.JobStatusCompleted),
		TotalCost: domain.Some(250.0),
	})
	require.NoError(t, err)

	after, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.InDelta(t, before.TotalRevenue+250, after.TotalRevenue, 0.001)
	assert.Equal(t, int64(1), after.CompletedJobs)

	detail, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, detail.StatusHistory, 2)
	assert.Equal(t, domain.JobStatusCompleted, detail.StatusHistory[0].NewStatus)
}

func TestJobService_PhotoURLsAndCleanup(t *testing.T) {
	store := &fakeStorage{failOn: "jobs/b.jpg"}
	svc, db := newJobService(t, store)
	ctx := asTenant(1)

	job, err := svc.Create(ctx, scheduledInput("Roof"))
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.JobPhoto{JobID: job.ID, StorageKey: "jobs/a.jpg"}).Error)
	require.NoError(t, db.Create(&domain.JobPhoto{JobID: job.ID, StorageKey: "jobs/b.jpg", URL: "https://elsewhere/b.jpg"}).Error)

	detail, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, detail.Photos, 2)
	assert.Equal(t, "https://cdn.example.com/jobs/a.jpg", detail.Photos[0].URL)
	assert.Equal(t, "https://elsewhere/b.jpg", detail.Photos[1].URL)

	// A storage failure does not fail the delete.
	require.NoError(t, svc.Delete(ctx, job.ID))
	assert.ElementsMatch(t, []string{"jobs/a.jpg", "jobs/b.jpg"}, store.deleted)

	_, err = svc.Get(ctx, job.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestJobService_StoreFailureIsInternal(t *testing.T) {
	svc, db := newJobService(t, nil)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.List(asTenant(1), domain.JobListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInternal)
	assert.Equal(t, "internal server error", apperr.PublicMessage(err))
}

func TestJobService_LogsThroughContextLogger(t *testing.T) {
	svc, db := newJobService(t, nil)
	var buf bytes.Buffer
	reqLog := logger.New(&logger.Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "test"}).
		WithField(logger.FieldRequestID, "req-1")

	_, err := svc.Stats(reqLog.WithContext(context.Background()))
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Contains(t, buf.String(), "Rejected job request without identity")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	buf.Reset()
	ctx := reqLog.WithContext(asTenant(1))
	_, err = svc.List(ctx, domain.JobListOptions{})
	require.ErrorIs(t, err, apperr.ErrInternal)
	assert.Contains(t, buf.String(), "Job store operation failed")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"operation":"list jobs"`)
}
