package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"keepsafe/internal/common"
	"keepsafe/internal/dbx"
	"keepsafe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {

	sharedWith, err := json.Marshal(entry.SharedWith)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	query :=
		`INSERT INTO entries (user_id, type, content_url, text_content, music_tag, location_tag,
		                      is_private, shared_with_everyone, shared_with, attachments, metadata, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE(NULLIF($12::timestamptz, '0001-01-01'::timestamptz), now()))
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Type, entry.ContentURL, entry.TextContent, entry.MusicTag, entry.LocationTag,
		entry.IsPrivate, entry.SharedWithEveryone, sharedWith, entry.Attachments, entry.Metadata, entry.CreatedAt,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := selectColumns + ` WHERE e.id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// ListVisible returns the newest entries the user may see: their own plus
// non-private entries shared with them, directly or via the everyone flag.
func (r *PostgresRepository) ListVisible(ctx context.Context, userID string, limit int) ([]*models.Entry, error) {
	query := selectColumns + `
		 WHERE e.user_id = $1
		    OR (NOT e.is_private AND e.shared_with @> to_jsonb($1::text))
		    OR (NOT e.is_private AND e.shared_with_everyone AND EXISTS (
		        SELECT 1 FROM friendships f WHERE f.user_id = e.user_id AND f.friend_id = $1))
		 ORDER BY e.created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

const selectColumns = `SELECT e.id, e.user_id, e.type, e.content_url, e.text_content, e.music_tag, e.location_tag,
       e.is_private, e.shared_with_everyone, e.shared_with, e.attachments, e.metadata, e.created_at, e.updated_at
  FROM entries e`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	entry := &models.Entry{}
	var sharedWith []byte

	err := row.Scan(&entry.ID, &entry.UserID, &entry.Type, &entry.ContentURL, &entry.TextContent,
		&entry.MusicTag, &entry.LocationTag, &entry.IsPrivate, &entry.SharedWithEveryone,
		&sharedWith, &entry.Attachments, &entry.Metadata, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(sharedWith) > 0 {
		if err := json.Unmarshal(sharedWith, &entry.SharedWith); err != nil {
			return nil, err
		}
	}

	return entry, nil
}
