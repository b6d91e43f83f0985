package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds every individual request issued by a Client.
const DefaultTimeout = 60 * time.Second

// Client wraps HTTP operations for the export pipeline.
//
// Client provides:
//   - Bearer-style Authorization headers for API requests
//   - Per-request timeout handling
//   - JSON decoding with status checking
//   - File download with progress tracking
//
// Authenticated and unauthenticated requests are kept separate on purpose:
// GetJSON always sends the credential, while DownloadFile never does,
// because recording download URLs are pre-authorized and some object stores
// reject requests that carry an extra Authorization header.
//
// Example usage:
//
//	client := NewClient("my-api-key", 30*time.Second)
//
//	var page struct{ Calls []any `json:"calls"` }
//	err := client.GetJSON(ctx, listURL, &page)
//
//	err = client.DownloadFile(ctx, signedURL, "/calls/rec.mp3", nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
	apiKey     string
}

// NewClient creates a new HTTP client for the given API key.
//
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "callrail-exporter",
		apiKey:    apiKey,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// GetJSON performs an authenticated GET request and decodes the JSON body
// into v.
//
// The request carries the configured Authorization and User-Agent headers.
//
// Returns an error if:
//   - The request fails or times out
//   - The response status is not 2xx
//   - The body is not valid JSON for v
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// DownloadFile downloads a file to the specified path with optional
// progress callback.
//
// The URL must be pre-authorized (e.g., a signed recording URL): no
// Authorization header is sent. The file is created (or truncated if it
// exists) and the content is streamed directly to disk, avoiding loading
// the entire file into memory.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: Pre-authorized URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}
