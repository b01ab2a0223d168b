package models

import (
	"time"

	"github.com/google/uuid"
)

// Capture is the payload produced by the camera/recorder flow: what was
// captured and where the bytes currently live on the device.
type Capture struct {
	Type       EntryType      `json:"type"`
	SourceURI  string         `json:"source_uri"`
	CapturedAt time.Time      `json:"captured_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// QueueJob is one unit of deferred work: everything needed to turn a capture
// into a persisted entry. A job is consumed exactly once; retry constructs a
// fresh equivalent job from the cached entry.
type QueueJob struct {
	EntryID            string       `json:"entry_id"`
	UserID             string       `json:"user_id"`
	Capture            Capture      `json:"capture"`
	TextContent        string       `json:"text_content,omitempty"`
	MusicTag           string       `json:"music_tag,omitempty"`
	LocationTag        string       `json:"location_tag,omitempty"`
	IsPrivate          bool         `json:"is_private"`
	SharedWithEveryone bool         `json:"shared_with_everyone"`
	SharedWith         []string     `json:"shared_with,omitempty"`
	Attachments        []Attachment `json:"attachments,omitempty"`
}

// NewJob assigns a fresh local entry id to the given capture.
func NewJob(userID string, capture Capture) QueueJob {
	return QueueJob{
		EntryID: uuid.NewString(),
		UserID:  userID,
		Capture: capture,
	}
}

// OptimisticEntry builds the pending entry inserted into the cache before
// the job runs. ContentURL points at the local source until the upload
// replaces it, which is also what makes retry reconstruction possible.
func (j QueueJob) OptimisticEntry() Entry {
	now := time.Now().UTC()
	createdAt := j.Capture.CapturedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return Entry{
		ID:                 j.EntryID,
		UserID:             j.UserID,
		Type:               j.Capture.Type,
		ContentURL:         j.Capture.SourceURI,
		TextContent:        j.TextContent,
		MusicTag:           j.MusicTag,
		LocationTag:        j.LocationTag,
		IsPrivate:          j.IsPrivate,
		SharedWithEveryone: j.SharedWithEveryone,
		SharedWith:         ComputeSharedWith(j.UserID, j.SharedWith, j.SharedWithEveryone, j.IsPrivate),
		Attachments:        j.Attachments,
		Metadata:           j.Capture.Metadata,
		CreatedAt:          createdAt,
		UpdatedAt:          now,
		Status:             StatusPending,
	}
}

// JobFromEntry reconstructs an equivalent job from a cached local entry.
// The entry's ContentURL still holds the device source URI because the
// upload never completed.
func JobFromEntry(e Entry) QueueJob {
	return QueueJob{
		EntryID: e.ID,
		UserID:  e.UserID,
		Capture: Capture{
			Type:       e.Type,
			SourceURI:  e.ContentURL,
			CapturedAt: e.CreatedAt,
			Metadata:   e.Metadata,
		},
		TextContent:        e.TextContent,
		MusicTag:           e.MusicTag,
		LocationTag:        e.LocationTag,
		IsPrivate:          e.IsPrivate,
		SharedWithEveryone: e.SharedWithEveryone,
		SharedWith:         e.SharedWith,
		Attachments:        e.Attachments,
	}
}
