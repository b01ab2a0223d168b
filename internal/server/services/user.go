// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and issuing JWTs.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"keepsafe/internal/common"
	"keepsafe/internal/cryptox"
	"keepsafe/internal/server/auth"
	"keepsafe/internal/server/config"
	"keepsafe/internal/server/models"
	"keepsafe/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users and mint a first access token
// - Login: verify credentials and mint tokens
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user from an email and password and returns an
// access token for the fresh account. The password never hits the database:
// a random salt and an argon2-derived verifier are stored instead.
func (s *UserService) Register(ctx context.Context, email, password string) (string, error) {
	salt := common.RandBytes(16)
	key := cryptox.DeriveVaultKey([]byte(password), salt)
	verifier := cryptox.MakeVerifier(key)

	user := &models.User{Email: email, Salt: salt, Verifier: verifier}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Login verifies the password against the stored verifier and, on success,
// returns a new access token. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	key := cryptox.DeriveVaultKey([]byte(password), user.Salt)
	candidate := cryptox.MakeVerifier(key)
	if subtle.ConstantTimeCompare(user.Verifier, candidate) != 1 {
		return "", common.ErrUnauthorized
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}
