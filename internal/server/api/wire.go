package api

import (
	"encoding/json"
	"time"

	"keepsafe/internal/server/models"
)

// entryPayload is the wire form of a journal entry. Attachments and
// metadata pass through as raw JSON: the server stores them opaquely and
// clients own their structure.
type entryPayload struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Type               string          `json:"type"`
	ContentURL         string          `json:"content_url,omitempty"`
	TextContent        string          `json:"text_content,omitempty"`
	MusicTag           string          `json:"music_tag,omitempty"`
	LocationTag        string          `json:"location_tag,omitempty"`
	IsPrivate          bool            `json:"is_private"`
	SharedWithEveryone bool            `json:"shared_with_everyone"`
	SharedWith         []string        `json:"shared_with,omitempty"`
	Attachments        json.RawMessage `json:"attachments,omitempty"`
	Metadata           json.RawMessage `json:"metadata,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (p *entryPayload) toModel(userID string) *models.Entry {
	return &models.Entry{
		UserID:             userID,
		Type:               p.Type,
		ContentURL:         p.ContentURL,
		TextContent:        p.TextContent,
		MusicTag:           p.MusicTag,
		LocationTag:        p.LocationTag,
		IsPrivate:          p.IsPrivate,
		SharedWithEveryone: p.SharedWithEveryone,
		SharedWith:         p.SharedWith,
		Attachments:        p.Attachments,
		Metadata:           p.Metadata,
		CreatedAt:          p.CreatedAt,
	}
}

func entryToPayload(e *models.Entry) *entryPayload {
	return &entryPayload{
		ID:                 e.ID,
		UserID:             e.UserID,
		Type:               e.Type,
		ContentURL:         e.ContentURL,
		TextContent:        e.TextContent,
		MusicTag:           e.MusicTag,
		LocationTag:        e.LocationTag,
		IsPrivate:          e.IsPrivate,
		SharedWithEveryone: e.SharedWithEveryone,
		SharedWith:         e.SharedWith,
		Attachments:        e.Attachments,
		Metadata:           e.Metadata,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

type reactionPayload struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"reaction_type"`
	CreatedAt time.Time `json:"created_at"`
}

func reactionToPayload(r *models.Reaction) *reactionPayload {
	return &reactionPayload{
		ID:        r.ID,
		EntryID:   r.EntryID,
		UserID:    r.UserID,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}
}

type commentPayload struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func commentToPayload(c *models.Comment) *commentPayload {
	return &commentPayload{
		ID:        c.ID,
		EntryID:   c.EntryID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
