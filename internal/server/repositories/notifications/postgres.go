package notifications

import (
	"context"
	"fmt"

	"keepsafe/internal/dbx"
	"keepsafe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertPushToken(ctx context.Context, token *models.PushToken) error {

	query :=
		`INSERT INTO push_tokens (user_id, token, platform)
         VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, token) DO UPDATE SET platform = EXCLUDED.platform
		 `

	if _, err := r.db.ExecContext(ctx, query, token.UserID, token.Token, token.Platform); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListPushTokens(ctx context.Context, userIDs []string) ([]*models.PushToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query :=
		`SELECT id, user_id, token, platform, created_at FROM push_tokens
		 WHERE user_id = ANY($1)
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.PushToken
	for rows.Next() {
		token := &models.PushToken{}
		if err := rows.Scan(&token.ID, &token.UserID, &token.Token, &token.Platform, &token.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userIDs []string) (map[string]*models.NotificationSetting, error) {
	if len(userIDs) == 0 {
		return map[string]*models.NotificationSetting{}, nil
	}

	query :=
		`SELECT user_id, entries_enabled, social_enabled, updated_at FROM notification_settings
		 WHERE user_id = ANY($1)
		 `

	rows, err := r.db.QueryContext(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*models.NotificationSetting)
	for rows.Next() {
		setting := &models.NotificationSetting{}
		if err := rows.Scan(&setting.UserID, &setting.EntriesEnabled, &setting.SocialEnabled, &setting.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[setting.UserID] = setting
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) UpsertSettings(ctx context.Context, setting *models.NotificationSetting) error {

	query :=
		`INSERT INTO notification_settings (user_id, entries_enabled, social_enabled, updated_at)
         VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET entries_enabled = EXCLUDED.entries_enabled,
		               social_enabled = EXCLUDED.social_enabled,
		               updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, setting.UserID, setting.EntriesEnabled, setting.SocialEnabled); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Enqueue(ctx context.Context, n *models.Notification) error {

	query :=
		`INSERT INTO notifications (user_id, entry_id, title, body)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, status, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.EntryID, n.Title, n.Body).Scan(&n.ID, &n.Status, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListPending(ctx context.Context, limit int) ([]*models.Notification, error) {
	query :=
		`SELECT id, user_id, entry_id, title, body, status, created_at, dispatched_at FROM notifications
		 WHERE status = 'pending'
		 ORDER BY created_at
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.EntryID, &n.Title, &n.Body, &n.Status, &n.CreatedAt, &n.DispatchedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) MarkDispatched(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query :=
		`UPDATE notifications SET status = 'dispatched', dispatched_at = now()
		 WHERE id = ANY($1)
		 `

	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
