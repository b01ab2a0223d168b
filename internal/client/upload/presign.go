package upload

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"keepsafe/internal/common"
)

// Presigner obtains a presigned PUT for a storage key. Implemented by the
// backend client.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error)
}

// PresignUploader implements Uploader against backend-presigned URLs: ask
// the server to presign the destination key, then PUT the file bytes
// directly to blob storage.
type PresignUploader struct {
	presigner Presigner
	http      *http.Client
}

func NewPresignUploader(p Presigner) *PresignUploader {
	return &PresignUploader{
		presigner: p,
		http:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (u *PresignUploader) Upload(ctx context.Context, sourceURI, destPath, contentType string) (string, error) {
	data, err := os.ReadFile(localPath(sourceURI))
	if err != nil {
		return "", fmt.Errorf("%w: reading capture: %w", common.ErrUploadFailed, err)
	}

	uploadURL, publicURL, err := u.presigner.PresignUpload(ctx, destPath, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: presign: %w", common.ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: storage returned %d", common.ErrUploadFailed, resp.StatusCode)
	}

	return publicURL, nil
}

// localPath strips the file:// scheme the capture flow attaches to device
// paths.
func localPath(sourceURI string) string {
	return strings.TrimPrefix(sourceURI, "file://")
}
