package repomanager

import (
	"context"
	"database/sql"

	"keepsafe/internal/dbx"
	"keepsafe/internal/server/repositories/entries"
	"keepsafe/internal/server/repositories/friendships"
	"keepsafe/internal/server/repositories/notifications"
	"keepsafe/internal/server/repositories/social"
	"keepsafe/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
	Social(db dbx.DBTX) social.Repository
	Friendships(db dbx.DBTX) friendships.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
