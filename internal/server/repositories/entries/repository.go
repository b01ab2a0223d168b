package entries

import (
	"context"

	"keepsafe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	ListVisible(ctx context.Context, userID string, limit int) ([]*models.Entry, error)
}
