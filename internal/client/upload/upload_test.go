package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"keepsafe/internal/client/models"
	"keepsafe/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	uploadURL string
	publicURL string
	err       error

	gotKey         string
	gotContentType string
}

func (f *fakePresigner) PresignUpload(_ context.Context, key, contentType string) (string, string, error) {
	f.gotKey = key
	f.gotContentType = contentType
	return f.uploadURL, f.publicURL, f.err
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFor(models.EntryTypePhoto))
	assert.Equal(t, "video/mp4", ContentTypeFor(models.EntryTypeVideo))
	assert.Equal(t, "audio/mp4", ContentTypeFor(models.EntryTypeAudio))
	assert.Equal(t, "application/octet-stream", ContentTypeFor(models.EntryType("weird")))
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "users/u1/e1.jpg", StorageKey("u1", "e1", models.EntryTypePhoto))
	assert.Equal(t, "users/u1/e1.m4a", StorageKey("u1", "e1", models.EntryTypeAudio))
}

func TestPresignUploader_PutsBytesAndReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o600))

	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := &fakePresigner{uploadURL: srv.URL, publicURL: "https://cdn.test/users/u1/e1.jpg"}
	u := NewPresignUploader(p)

	url, err := u.Upload(context.Background(), "file://"+path, "users/u1/e1.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/users/u1/e1.jpg", url)
	assert.Equal(t, "users/u1/e1.jpg", p.gotKey)
	assert.Equal(t, "image/jpeg", p.gotContentType)
	assert.Equal(t, "jpeg-bytes", string(gotBody))
	assert.Equal(t, "image/jpeg", gotContentType)
}

func TestPresignUploader_MissingSourceFails(t *testing.T) {
	u := NewPresignUploader(&fakePresigner{})
	_, err := u.Upload(context.Background(), "file:///does/not/exist.jpg", "k", "image/jpeg")
	assert.ErrorIs(t, err, common.ErrUploadFailed)
}

func TestPresignUploader_PresignErrorFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	u := NewPresignUploader(&fakePresigner{err: errors.New("backend down")})
	_, err := u.Upload(context.Background(), path, "k", "image/jpeg")
	assert.ErrorIs(t, err, common.ErrUploadFailed)
}

func TestPresignUploader_StorageRejectionFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	u := NewPresignUploader(&fakePresigner{uploadURL: srv.URL})
	_, err := u.Upload(context.Background(), path, "k", "image/jpeg")
	assert.ErrorIs(t, err, common.ErrUploadFailed)
}

func TestMemoryUploader(t *testing.T) {
	m := NewMemoryUploader()

	url, err := m.Upload(context.Background(), "file:///tmp/a.jpg", "users/u1/e1.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/users/u1/e1.jpg", url)
	assert.True(t, m.Uploaded("users/u1/e1.jpg"))

	m.FailWith(errors.New("network"))
	_, err = m.Upload(context.Background(), "s", "d", "c")
	assert.ErrorIs(t, err, common.ErrUploadFailed)
	assert.Equal(t, 1, m.Count())
}
