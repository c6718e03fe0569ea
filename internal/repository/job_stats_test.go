package repository_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/jobtrack/internal/domain"
	"github.com/timmy/jobtrack/internal/repository"
	"github.com/timmy/jobtrack/internal/testutil"
)

func TestJobRepository_Stats(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.Local)
	repo, _ := newJobRepo(t, repository.JobRepositoryConfig{Now: func() time.Time { return now }})
	ctx := context.Background()

	empty, err := repo.Stats(ctx, bizA)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStats{}, *empty)

	morning := time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)
	lateNight := time.Date(2024, 6, 10, 23, 30, 0, 0, time.Local)
	tomorrow := time.Date(2024, 6, 11, 0, 0, 0, 0, time.Local)

	a, err := repo.Create(ctx, bizA, testutil.CreateInput(7, "a", morning))
	require.NoError(t, err)
	_, err = repo.Create(ctx, bizA, testutil.CreateInput(7, "b", lateNight))
	require.NoError(t, err)
	c, err := repo.Create(ctx, bizA, testutil.CreateInput(7, "c", tomorrow))
	require.NoError(t, err)
	d, err := repo.Create(ctx, bizA, testutil.CreateInput(7, "d", june1()))
	require.NoError(t, err)
	_, err = repo.Create(ctx, bizB, testutil.CreateInput(7, "other tenant", morning))
	require.NoError(t, err)

	_, err = repo.Update(ctx, bizA, a.ID, &domain.JobPatch{Status: domain.Some(domain.JobStatusInProgress)})
	require.NoError(t, err)
	_, err = repo.Update(ctx, bizA, c.ID, &domain.JobPatch{Status: domain.Some(domain.JobStatusCompleted), TotalCost: domain.Some(250.0)})
	require.NoError(t, err)
	_, err = repo.Update(ctx, bizA, d.ID, &domain.JobPatch{Status: domain.Some(domain.JobStatusCancelled), TotalCost: domain.Some(50.0)})
	require.NoError(t, err)

	stats, err := repo.Stats(ctx, bizA)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalJobs)
	assert.Equal(t, int64(1), stats.ScheduledJobs)
	assert.Equal(t, int64(1), stats.InProgressJobs)
	assert.Equal(t, int64(1), stats.CompletedJobs)
	assert.Equal(t, int64(1), stats.CancelledJobs)
	assert.Equal(t, stats.TotalJobs,
		stats.ScheduledJobs+stats.InProgressJobs+stats.CompletedJobs+stats.CancelledJobs)
	assert.InDelta(t, 300.0, stats.TotalRevenue, 0.001)
	assert.InDelta(t, 75.0, stats.AverageJobValue, 0.001, "unpriced jobs count as zero")
	assert.Equal(t, int64(2), stats.JobsToday)
	assert.Equal(t, int64(1), stats.ScheduledToday)
}

// useLocalZone switches time.Local for the duration of the test.
func useLocalZone(t *testing.T, name string) {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestJobRepository_DayBoundsAcrossDST(t *testing.T) {
	useLocalZone(t, "America/New_York")

	tests := []struct {
		name string
		day  time.Time // noon local on a day with a DST switch
	}{
		{name: "fall back, 25h day", day: time.Date(2024, 11, 3, 12, 0, 0, 0, time.Local)},
		{name: "spring forward, 23h day", day: time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			now := tc.day
			repo, _ := newJobRepo(t, repository.JobRepositoryConfig{Now: func() time.Time { return now }})
			ctx := context.Background()
			y, m, d := tc.day.Date()

			late, err := repo.Create(ctx, bizA, testutil.CreateInput(7, "late", time.Date(y, m, d, 23, 30, 0, 0, time.Local)))
			require.NoError(t, err)
			_, err = repo.Create(ctx, bizA, testutil.CreateInput(7, "next day", time.Date(y, m, d+1, 0, 30, 0, 0, time.Local)))
			require.NoError(t, err)
			_, err = repo.Create(ctx, bizA, testutil.CreateInput(7, "day before", time.Date(y, m, d-1, 23, 30, 0, 0, time.Local)))
			require.NoError(t, err)

			stats, err := repo.Stats(ctx, bizA)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stats.JobsToday)
			assert.Equal(t, int64(1), stats.ScheduledToday)

			day := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
			page, err := repo.List(ctx, bizA, domain.JobListOptions{
				Filter: domain.JobFilter{DateFrom: &day, DateTo: &day},
			})
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, late.ID, page.Items[0].ID)
			assert.Equal(t, int64(1), page.Pagination.TotalItems)
		})
	}
}
