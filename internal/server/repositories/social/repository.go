// Package social stores reactions and comments left on shared entries.
package social

import (
	"context"

	"keepsafe/internal/server/models"
)

type Repository interface {
	// UpsertReaction stores a user's reaction on an entry, replacing any
	// previous reaction by the same user.
	UpsertReaction(ctx context.Context, reaction *models.Reaction) (*models.Reaction, error)
	ListReactions(ctx context.Context, entryID string) ([]*models.Reaction, error)

	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListComments(ctx context.Context, entryID string) ([]*models.Comment, error)
}
