package binaries

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// ArtifactStore fetches a binary archive keyed by its hash into a local
// destination file.
type ArtifactStore interface {
	Fetch(ctx context.Context, hash, dest string) error
}

// HTTPStore fetches archives over HTTP from a base URL; the archive for a
// hash lives at <base>/<hash>.tar.gz.
type HTTPStore struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPStore creates an HTTPStore with a transfer-sized timeout.
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

// Fetch implements ArtifactStore. The download goes to a temporary file
// first and is renamed into place, so a partial transfer never counts as
// a staged archive.
func (s *HTTPStore) Fetch(ctx context.Context, hash, dest string) error {
	u, err := url.JoinPath(s.BaseURL, hash+".tar.gz")
	if err != nil {
		return fmt.Errorf("artifact url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("artifact request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("artifact fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artifact fetch: unexpected status %s for %s", resp.Status, u)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return fmt.Errorf("artifact fetch: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact fetch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact fetch: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}
