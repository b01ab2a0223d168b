package upload

import (
	"context"
	"fmt"
	"sync"

	"keepsafe/internal/common"
)

// MemoryUploader records uploads in memory. Safe for concurrent use.
type MemoryUploader struct {
	mu      sync.Mutex
	uploads map[string]string // destPath -> sourceURI
	err     error
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{uploads: make(map[string]string)}
}

// FailWith makes subsequent uploads fail with the given cause.
func (m *MemoryUploader) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryUploader) Upload(_ context.Context, sourceURI, destPath, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUploadFailed, m.err)
	}

	m.uploads[destPath] = sourceURI
	return "https://storage.test/" + destPath, nil
}

// Uploaded reports whether destPath has been stored.
func (m *MemoryUploader) Uploaded(destPath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.uploads[destPath]
	return ok
}

// Count returns the number of successful uploads.
func (m *MemoryUploader) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}
