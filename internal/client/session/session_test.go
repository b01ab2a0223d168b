package session

import (
	"testing"
	"time"

	"keepsafe/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestNewFromToken_DecodesSubjectAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s, err := NewFromToken(signedToken(t, "u1", exp))
	require.NoError(t, err)

	assert.Equal(t, "u1", s.UserID)
	assert.WithinDuration(t, exp, s.ExpiresAt, time.Second)
	assert.True(t, s.Valid())
	assert.NoError(t, s.RequireValid())
}

func TestNewFromToken_RejectsGarbage(t *testing.T) {
	_, err := NewFromToken("not-a-jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestNewFromToken_RejectsMissingSubject(t *testing.T) {
	_, err := NewFromToken(signedToken(t, "", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRequireValid_ExpiredToken(t *testing.T) {
	s, err := NewFromToken(signedToken(t, "u1", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	assert.False(t, s.Valid())
	assert.ErrorIs(t, s.RequireValid(), common.ErrTokenExpired)
}

func TestValid_NoExpiryClaim(t *testing.T) {
	s, err := NewFromToken(signedToken(t, "u1", time.Time{}))
	require.NoError(t, err)
	assert.True(t, s.Valid())
}
