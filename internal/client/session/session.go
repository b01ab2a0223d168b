// Package session holds the authenticated user's access token. The client
// cannot verify the token signature (only the backend holds the secret), but
// it decodes the claims to know who is logged in and when the token lapses,
// so queue work is refused instead of burning an upload on a 401.
package session

import (
	"time"

	"keepsafe/internal/common"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time

	now func() time.Time
}

// NewFromToken decodes the access token without verifying its signature and
// captures the subject and expiry claims.
func NewFromToken(token string) (*Session, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	s := &Session{
		UserID:      claims.Subject,
		AccessToken: token,
		now:         time.Now,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Valid reports whether the session token has not expired. Tokens without
// an exp claim never expire locally.
func (s *Session) Valid() bool {
	if s.ExpiresAt.IsZero() {
		return true
	}
	now := s.now
	if now == nil {
		now = time.Now
	}
	return now().Before(s.ExpiresAt)
}

// RequireValid returns ErrTokenExpired when the session has lapsed.
func (s *Session) RequireValid() error {
	if !s.Valid() {
		return common.ErrTokenExpired
	}
	return nil
}
