package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadResult reports what a Download call did.
type DownloadResult struct {
	// Path is the local file the dataset was written to.
	Path string

	// Bytes is the size of the downloaded body; 0 when NotModified.
	Bytes int64

	// NotModified is true when the server answered 304 and the existing
	// local file was kept.
	NotModified bool
}

// meta is the validator sidecar stored next to a downloaded file.
type meta struct {
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

func metaPath(dest string) string {
	return dest + ".meta"
}

// Download fetches url into dest, revalidating against the previous fetch
// when possible. A nil client falls back to http.DefaultClient.
//
// The response body is written to a temporary file in dest's directory and
// renamed into place, so a failed download never clobbers a good local
// copy. Validators (ETag, Last-Modified) are stored in a ".meta" sidecar
// and replayed as conditional headers on the next call.
//
// Transient failures (connection errors, 5xx, 429) come back wrapped in
// [RetryableError] so callers can hand the whole operation to [Retry].
func Download(ctx context.Context, client *http.Client, url, dest string) (DownloadResult, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return DownloadResult{}, err
	}

	var m meta
	if data, err := os.ReadFile(metaPath(dest)); err == nil && json.Unmarshal(data, &m) == nil {
		// Only revalidate when the file the validators describe is still
		// there; a deleted file must be fetched fresh.
		if _, err := os.Stat(dest); err == nil {
			if m.ETag != "" {
				req.Header.Set("If-None-Match", m.ETag)
			}
			if m.LastModified != "" {
				req.Header.Set("If-Modified-Since", m.LastModified)
			}
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return DownloadResult{}, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return DownloadResult{Path: dest, NotModified: true}, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return DownloadResult{}, &RetryableError{Err: fmt.Errorf("fetch %s: %s", url, resp.Status)}
	case resp.StatusCode != http.StatusOK:
		return DownloadResult{}, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return DownloadResult{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return DownloadResult{}, err
	}
	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return DownloadResult{}, &RetryableError{Err: err}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return DownloadResult{}, err
	}

	m = meta{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		FetchedAt:    time.Now().UTC(),
	}
	if data, err := json.Marshal(m); err == nil {
		// Best effort: a missing sidecar only costs a full re-download.
		_ = os.WriteFile(metaPath(dest), data, 0o644)
	}

	return DownloadResult{Path: dest, Bytes: n}, nil
}
