// Package client calls a remote rotation server.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a request made through the client New creates
// when none is supplied.
const DefaultTimeout = 60 * time.Second

// ErrEmptyImage is returned by SaveImage for nil or empty data.
var ErrEmptyImage = errors.New("empty image data")

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("rotate: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("rotate: server returned %d: %s", e.StatusCode, body)
}

// Client posts images to a rotation server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Logger receives progress records. The zero value discards them.
	Logger *slog.Logger
}

// New creates a client for baseURL, e.g. "http://localhost:8080/api/image".
// A nil httpClient is replaced by one with DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Rotate uploads the image read from r as the multipart field "file" and
// returns the rotated JPEG.
func (c *Client) Rotate(ctx context.Context, filename string, r io.Reader, angle float64) ([]byte, error) {
	endpoint := c.baseURL + "/rotate?" + url.Values{
		"angle": {strconv.FormatFloat(angle, 'g', -1, 64)},
	}.Encode()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("rotate: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rotate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	c.Logger.Info("image rotated", "file", filename, "angle", angle, "bytes", len(body))
	return body, nil
}

// RotateFile is Rotate on the contents of the file at path.
func (c *Client) RotateFile(ctx context.Context, path string, angle float64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	defer f.Close()
	return c.Rotate(ctx, path, f, angle)
}

// SaveImage writes data to path, creating parent directories. An existing
// file is replaced and the replacement is logged.
func (c *Client) SaveImage(path string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}

	if _, err := os.Stat(path); err == nil {
		c.Logger.Warn("image with that name already exists, replacing", "path", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("save image: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save image: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}
