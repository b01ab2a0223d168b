// Package common defines shared constants and sentinel errors used across
// client and server layers of KeepSafe. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Entry-pipeline failure kinds. The queue wraps the underlying cause so
	// callers can both classify the failure and inspect it.
	ErrUploadFailed      = errors.New("media upload failed")
	ErrPersistenceFailed = errors.New("entry persistence failed")
	ErrCacheIO           = errors.New("cache storage failure")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
