// Package models defines journal entry types and their fields.
package models

import (
	"sort"
	"time"
)

// EntryType classifies the captured media.
type EntryType string

const (
	EntryTypePhoto EntryType = "photo"
	EntryTypeVideo EntryType = "video"
	EntryTypeAudio EntryType = "audio"
)

// Status tracks where an entry is in the local processing pipeline.
// An entry with StatusPending or StatusProcessing carries a locally
// generated id not yet confirmed by the backend.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// AttachmentType classifies an overlay item rendered on top of the media.
type AttachmentType string

const (
	AttachmentText     AttachmentType = "text"
	AttachmentSticker  AttachmentType = "sticker"
	AttachmentMusic    AttachmentType = "music"
	AttachmentLocation AttachmentType = "location"
)

// Transform positions an attachment on the capture canvas.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

type MusicTag struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// Attachment is a positioned overlay item: text, sticker, music tag or
// location pin.
type Attachment struct {
	Type      AttachmentType `json:"type"`
	Text      string         `json:"text,omitempty"`
	MusicTag  *MusicTag      `json:"music_tag,omitempty"`
	Location  string         `json:"location,omitempty"`
	Transform Transform      `json:"transform"`
}

// Entry is a single journal record. Server-confirmed entries have
// StatusCompleted and an authoritative id; optimistic local entries keep
// their temp id until the queue replaces them.
type Entry struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	Type               EntryType      `json:"type"`
	ContentURL         string         `json:"content_url,omitempty"`
	TextContent        string         `json:"text_content,omitempty"`
	MusicTag           string         `json:"music_tag,omitempty"`
	LocationTag        string         `json:"location_tag,omitempty"`
	IsPrivate          bool           `json:"is_private"`
	SharedWithEveryone bool           `json:"shared_with_everyone"`
	SharedWith         []string       `json:"shared_with,omitempty"`
	Attachments        []Attachment   `json:"attachments,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	Status       Status     `json:"status,omitempty"`
	ProcessingAt *time.Time `json:"processing_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	FailedAt     *time.Time `json:"failed_at,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// IsLocal reports whether the entry id is a locally generated one that the
// backend has not confirmed yet.
func (e *Entry) IsLocal() bool {
	return e.Status == StatusPending || e.Status == StatusProcessing || e.Status == StatusFailed
}

// DateKey returns the entry's calendar day (UTC) used for grouping in the
// vault and calendar views.
func (e *Entry) DateKey() string {
	return e.CreatedAt.UTC().Format("2006-01-02")
}

// ComputeSharedWith builds the deduplicated recipient set for an entry.
// The owner is always included. A private entry is shared with the owner
// only; the everyone flag leaves friend resolution to the backend and the
// explicit set carries just the owner.
func ComputeSharedWith(ownerID string, selection []string, everyone, private bool) []string {
	if private || everyone {
		return []string{ownerID}
	}

	seen := map[string]struct{}{ownerID: {}}
	out := []string{ownerID}
	for _, id := range selection {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out[1:]) // owner first, friends in stable order
	return out
}
