// Package upload moves captured media bytes off the device into blob
// storage. The real implementation PUTs against URLs presigned by the
// backend; the in-memory one backs tests.
package upload

import (
	"context"
	"fmt"

	"keepsafe/internal/client/models"
)

// Uploader transfers the media at sourceURI to destPath in blob storage and
// returns the public URL the entry row will reference.
type Uploader interface {
	Upload(ctx context.Context, sourceURI, destPath, contentType string) (publicURL string, err error)
}

// ContentTypeFor maps an entry type to the MIME type the capture flow
// produces for it.
func ContentTypeFor(t models.EntryType) string {
	switch t {
	case models.EntryTypePhoto:
		return "image/jpeg"
	case models.EntryTypeVideo:
		return "video/mp4"
	case models.EntryTypeAudio:
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}

// StorageKey builds the blob key for an entry's media, namespaced by owner
// and entry id so retries overwrite rather than orphan.
func StorageKey(userID, entryID string, t models.EntryType) string {
	var ext string
	switch t {
	case models.EntryTypePhoto:
		ext = "jpg"
	case models.EntryTypeVideo:
		ext = "mp4"
	case models.EntryTypeAudio:
		ext = "m4a"
	default:
		ext = "bin"
	}
	return fmt.Sprintf("users/%s/%s.%s", userID, entryID, ext)
}
