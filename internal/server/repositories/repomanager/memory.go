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

// MemoryRepositoryManager vends shared in-memory repositories for tests.
// Unlike the Postgres manager it ignores the DBTX argument, so transactional
// and non-transactional callers see the same data.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	entries       *entries.MemoryRepository
	social        *social.MemoryRepository
	friendships   *friendships.MemoryRepository
	notifications *notifications.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		entries:       entries.NewMemoryRepository(),
		social:        social.NewMemoryRepository(),
		friendships:   friendships.NewMemoryRepository(),
		notifications: notifications.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Entries(dbx.DBTX) entries.Repository { return m.entries }

func (m *MemoryRepositoryManager) Social(dbx.DBTX) social.Repository { return m.social }

func (m *MemoryRepositoryManager) Friendships(dbx.DBTX) friendships.Repository {
	return m.friendships
}

func (m *MemoryRepositoryManager) Notifications(dbx.DBTX) notifications.Repository {
	return m.notifications
}

// EntriesMem exposes the concrete entries repository for test seeding.
func (m *MemoryRepositoryManager) EntriesMem() *entries.MemoryRepository { return m.entries }
