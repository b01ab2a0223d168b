// Package backend is the client's view of the KeepSafe server: entry
// persistence, media presigning and the social read paths. The server stays
// authoritative; everything here is plumbing to reach it.
package backend

import (
	"context"

	"keepsafe/internal/client/models"
)

// Client describes the backend operations the entry pipeline needs.
type Client interface {
	// Ping probes server reachability.
	Ping(ctx context.Context) error

	// UpsertEntry persists an entry row and returns the confirmed row with
	// server-assigned id and timestamps.
	UpsertEntry(ctx context.Context, e models.Entry) (models.Entry, error)

	// ListEntries returns the caller's entries, most recent first.
	ListEntries(ctx context.Context, limit int) ([]models.Entry, error)

	// PresignUpload obtains a presigned PUT for a storage key, plus the
	// public URL the stored object will have.
	PresignUpload(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error)

	// ListReactions returns reactions on an entry.
	ListReactions(ctx context.Context, entryID string) ([]models.Reaction, error)

	// ListComments returns comments on an entry.
	ListComments(ctx context.Context, entryID string) ([]models.Comment, error)
}
