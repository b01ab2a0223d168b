package social

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

func (r *PostgresRepository) UpsertReaction(ctx context.Context, reaction *models.Reaction) (*models.Reaction, error) {

	query :=
		`INSERT INTO reactions (entry_id, user_id, reaction_type)
         VALUES ($1, $2, $3)
		 ON CONFLICT (entry_id, user_id)
		 DO UPDATE SET reaction_type = EXCLUDED.reaction_type, created_at = now()
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		reaction.EntryID, reaction.UserID, reaction.Type).Scan(&reaction.ID, &reaction.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reaction, nil
}

func (r *PostgresRepository) ListReactions(ctx context.Context, entryID string) ([]*models.Reaction, error) {
	query :=
		`SELECT id, entry_id, user_id, reaction_type, created_at FROM reactions
		 WHERE entry_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Reaction
	for rows.Next() {
		reaction := &models.Reaction{}
		if err := rows.Scan(&reaction.ID, &reaction.EntryID, &reaction.UserID, &reaction.Type, &reaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {

	query :=
		`INSERT INTO comments (entry_id, user_id, content)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.EntryID, comment.UserID, comment.Content).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) ListComments(ctx context.Context, entryID string) ([]*models.Comment, error) {
	query :=
		`SELECT id, entry_id, user_id, content, created_at, updated_at FROM comments
		 WHERE entry_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(&comment.ID, &comment.EntryID, &comment.UserID, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
