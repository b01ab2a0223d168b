// Package notifications stores device push tokens, per-user notification
// settings and the queue of pending deliveries.
package notifications

import (
	"context"

	"keepsafe/internal/server/models"
)

type Repository interface {
	UpsertPushToken(ctx context.Context, token *models.PushToken) error
	// ListPushTokens returns all device tokens of the given users, flattened.
	ListPushTokens(ctx context.Context, userIDs []string) ([]*models.PushToken, error)

	// GetSettings returns stored settings for the given users. Users without
	// a row are simply absent from the result.
	GetSettings(ctx context.Context, userIDs []string) (map[string]*models.NotificationSetting, error)
	UpsertSettings(ctx context.Context, setting *models.NotificationSetting) error

	Enqueue(ctx context.Context, n *models.Notification) error
	// ListPending returns queued notifications oldest first.
	ListPending(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkDispatched(ctx context.Context, ids []string) error
}
