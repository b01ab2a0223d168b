package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSharedWith(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		selection []string
		everyone  bool
		private   bool
		want      []string
	}{
		{
			name:      "private keeps owner only",
			owner:     "u1",
			selection: []string{"u2", "u3"},
			private:   true,
			want:      []string{"u1"},
		},
		{
			name:      "everyone leaves resolution to backend",
			owner:     "u1",
			selection: []string{"u2"},
			everyone:  true,
			want:      []string{"u1"},
		},
		{
			name:      "selection deduplicated, owner first",
			owner:     "u1",
			selection: []string{"u3", "u2", "u3", "u1", ""},
			want:      []string{"u1", "u2", "u3"},
		},
		{
			name:  "empty selection",
			owner: "u1",
			want:  []string{"u1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSharedWith(tc.owner, tc.selection, tc.everyone, tc.private)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEntry_IsLocal(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusFailed} {
		e := Entry{Status: s}
		assert.True(t, e.IsLocal(), "status %s", s)
	}
	e := Entry{Status: StatusCompleted}
	assert.False(t, e.IsLocal())
}

func TestEntry_DateKey_TruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	e := Entry{CreatedAt: time.Date(2025, 3, 1, 2, 30, 0, 0, loc)}
	// 02:30 UTC+5 is still Feb 28 in UTC
	assert.Equal(t, "2025-02-28", e.DateKey())
}

func TestQueueJob_OptimisticEntry(t *testing.T) {
	capturedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	job := NewJob("u1", Capture{Type: EntryTypePhoto, SourceURI: "file:///tmp/p.jpg", CapturedAt: capturedAt})
	job.TextContent = "beach"
	job.SharedWith = []string{"u2"}

	e := job.OptimisticEntry()

	require.NotEmpty(t, e.ID)
	assert.Equal(t, job.EntryID, e.ID)
	assert.Equal(t, StatusPending, e.Status)
	assert.Equal(t, "file:///tmp/p.jpg", e.ContentURL)
	assert.Equal(t, capturedAt, e.CreatedAt)
	assert.Equal(t, []string{"u1", "u2"}, e.SharedWith)
}

func TestJobFromEntry_RoundTrip(t *testing.T) {
	job := NewJob("u1", Capture{Type: EntryTypeAudio, SourceURI: "file:///tmp/a.m4a"})
	job.LocationTag = "Lisbon"

	e := job.OptimisticEntry()
	back := JobFromEntry(e)

	assert.Equal(t, job.EntryID, back.EntryID)
	assert.Equal(t, job.UserID, back.UserID)
	assert.Equal(t, job.Capture.Type, back.Capture.Type)
	assert.Equal(t, job.Capture.SourceURI, back.Capture.SourceURI)
	assert.Equal(t, "Lisbon", back.LocationTag)
}
