package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/jobtrack/internal/apperr"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(JobStatusScheduled, JobStatusCompleted))
	assert.True(t, CanTransition(JobStatusCompleted, JobStatusInProgress))
	assert.True(t, CanTransition(JobStatusCancelled, JobStatusCancelled))
	assert.False(t, CanTransition(JobStatusCancelled, JobStatusScheduled))
	assert.False(t, CanTransition(JobStatusCompleted, JobStatusScheduled))
}

func TestJobPatch_DecodeDistinguishesNull(t *testing.T) {
	var p JobPatch
	require.NoError(t, json.Unmarshal([]byte(`{"total_cost": null, "title": "Roof", "estimate_id": 4}`), &p))

	assert.True(t, p.TotalCost.Set)
	assert.True(t, p.TotalCost.Null)
	assert.Nil(t, p.TotalCost.Ptr())

	assert.True(t, p.Title.Set)
	assert.Equal(t, "Roof", p.Title.Value)

	require.NotNil(t, p.EstimateID.Ptr())
	assert.Equal(t, int64(4), *p.EstimateID.Ptr())

	assert.False(t, p.Description.Set)
	assert.False(t, p.Status.Set)
	assert.NoError(t, p.Validate())
}

func TestJobPatch_Validate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "empty", body: `{}`},
		{name: "metadata only", body: `{"status_notes": "x", "changed_by": 3}`},
		{name: "null title", body: `{"title": null}`, wantField: "title"},
		{name: "null status", body: `{"status": null}`, wantField: "status"},
		{name: "null scheduled date", body: `{"scheduled_date": null}`, wantField: "scheduled_date"},
		{name: "null customer", body: `{"customer_id": null}`, wantField: "customer_id"},
		{name: "unknown status", body: `{"status": "archived"}`, wantField: "status"},
		{name: "blank title", body: `{"title": "  "}`, wantField: "title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p JobPatch
			require.NoError(t, json.Unmarshal([]byte(tc.body), &p))
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))

			var e *apperr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.wantField, e.Field)
		})
	}
}

func TestJobCreateInput_Validate(t *testing.T) {
	var in JobCreateInput
	require.NoError(t, json.Unmarshal([]byte(`{"customer_id": 7, "title": "Cleanout", "scheduled_date": "2024-06-01", "status": "completed"}`), &in))
	require.NoError(t, in.Validate())

	y, m, d := in.ScheduledDate.Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)
	assert.Equal(t, 1, d)

	missing := JobCreateInput{Title: "x"}
	err := missing.Validate()
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "customer_id")
}

func TestParseDateTime(t *testing.T) {
	ts, err := ParseDateTime("2024-06-01T09:30:00Z")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)))

	local, err := ParseDateTime("2024-06-01 09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Local, local.Location())

	_, err = ParseDateTime("June 1st")
	assert.Error(t, err)
}
