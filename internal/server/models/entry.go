package models

import "time"

// Entry is an authoritative journal record. ContentURL points at the
// uploaded media object; the row itself never carries media bytes.
type Entry struct {
	ID                 string
	UserID             string
	Type               string
	ContentURL         string
	TextContent        string
	MusicTag           string
	LocationTag        string
	IsPrivate          bool
	SharedWithEveryone bool
	SharedWith         []string
	Attachments        []byte
	Metadata           []byte
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
