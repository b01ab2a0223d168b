package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"keepsafe/internal/common"
	"keepsafe/internal/dbx"
	"keepsafe/internal/server/auth"
	"keepsafe/internal/server/config"
	"keepsafe/internal/server/models"
	"keepsafe/internal/server/repositories/repomanager"
	usersrepo "keepsafe/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newUserService(t *testing.T, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(newSQLMockDB(t), rm, cfg)
}

func TestRegisterThenLogin(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newUserService(t, rm)

	regToken, err := s.Register(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if regToken == "" {
		t.Fatalf("Register returned empty token")
	}

	userID, err := auth.GetUserIDFromToken(regToken, []byte("k"))
	if err != nil {
		t.Fatalf("token from Register does not verify: %v", err)
	}

	loginToken, err := s.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	loginUserID, err := auth.GetUserIDFromToken(loginToken, []byte("k"))
	if err != nil {
		t.Fatalf("token from Login does not verify: %v", err)
	}
	if loginUserID != userID {
		t.Fatalf("user id mismatch: register %q, login %q", userID, loginUserID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newUserService(t, rm)

	if _, err := s.Register(context.Background(), "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := s.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	rm := repomanager.NewMemoryRepositoryManager()
	s := newUserService(t, rm)

	_, err := s.Login(context.Background(), "nobody@example.com", "s3cret")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

type failingUsersRepo struct {
	usersrepo.Repository
	getErr error
}

func (f *failingUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, f.getErr
}

type usersOnlyRepoManager struct {
	repomanager.RepositoryManager
	u usersrepo.Repository
}

func (m *usersOnlyRepoManager) Users(dbx.DBTX) usersrepo.Repository { return m.u }

func TestLogin_RepositoryFailure(t *testing.T) {
	rm := &usersOnlyRepoManager{u: &failingUsersRepo{getErr: errors.New("db down")}}
	s := newUserService(t, rm)

	_, err := s.Login(context.Background(), "alice@example.com", "s3cret")
	if !errors.Is(err, common.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
