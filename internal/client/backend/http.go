package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"keepsafe/internal/client/models"
	"keepsafe/internal/common"
)

// HTTPClient talks to the KeepSafe server's REST API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, accessToken string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   accessToken,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the access token used on subsequent requests.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates an account and returns the issued access token.
func (c *HTTPClient) Register(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Login authenticates and returns the issued access token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) UpsertEntry(ctx context.Context, e models.Entry) (models.Entry, error) {
	var confirmed models.Entry
	if err := c.do(ctx, http.MethodPost, "/api/entries", e, &confirmed); err != nil {
		return models.Entry{}, err
	}
	return confirmed, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	path := fmt.Sprintf("/api/entries?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

type presignRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

type presignResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

func (c *HTTPClient) PresignUpload(ctx context.Context, key, contentType string) (string, string, error) {
	var resp presignResponse
	err := c.do(ctx, http.MethodPost, "/api/uploads/presign", presignRequest{Key: key, ContentType: contentType}, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.UploadURL, resp.PublicURL, nil
}

func (c *HTTPClient) ListReactions(ctx context.Context, entryID string) ([]models.Reaction, error) {
	var items []models.Reaction
	if err := c.do(ctx, http.MethodGet, "/api/entries/"+entryID+"/reactions", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) ListComments(ctx context.Context, entryID string) ([]models.Comment, error) {
	var items []models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/entries/"+entryID+"/comments", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
