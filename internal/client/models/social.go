package models

import "time"

// ReactionType is the set of reactions an entry can receive.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// Reaction is one user's reaction on a shared entry.
type Reaction struct {
	ID        string       `json:"id"`
	EntryID   string       `json:"entry_id"`
	UserID    string       `json:"user_id"`
	Type      ReactionType `json:"reaction_type"`
	CreatedAt time.Time    `json:"created_at"`
}

// Comment is one user's comment on a shared entry.
type Comment struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
