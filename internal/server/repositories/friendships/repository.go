package friendships

import (
	"context"

	"keepsafe/internal/server/models"
)

type Repository interface {
	// Create stores the relation in both directions.
	Create(ctx context.Context, userID, friendID string) error
	// ListFriendIDs returns the ids of the user's confirmed friends.
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, userID string) ([]*models.Friendship, error)
}
