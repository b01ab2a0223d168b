package models

import "time"

type Reaction struct {
	ID        string
	EntryID   string
	UserID    string
	Type      string
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	EntryID   string
	UserID    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Friendship is a confirmed, symmetric relation between two users.
type Friendship struct {
	ID        string
	UserID    string
	FriendID  string
	CreatedAt time.Time
}
