package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const userAgent = "Mozilla/5.0 (compatible; podfeed/1.0)"

// Error reports a failed page download.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds fetcher configuration.
type Config struct {
	Timeout time.Duration
}

// Fetcher downloads a single HTML page.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new page fetcher.
func New(cfg Config, logger *slog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "fetch"),
	}
}

// Fetch downloads pageURL and returns the body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &Error{URL: pageURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", &Error{URL: pageURL, Err: fmt.Errorf("read body: %w", err)}
	}

	f.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return body, nil
}

// decodeBody converts the response body to UTF-8 using the charset announced
// in the Content-Type header. Unknown or missing charsets fall back to UTF-8;
// undecodable byte sequences become U+FFFD rather than errors.
func decodeBody(resp *http.Response) (string, error) {
	var enc encoding.Encoding = unicode.UTF8

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if name := params["charset"]; name != "" {
			if e, err := htmlindex.Get(name); err == nil {
				enc = e
			}
		}
	}

	data, err := io.ReadAll(transform.NewReader(resp.Body, enc.NewDecoder()))
	if err != nil {
		return "", err
	}

	return string(data), nil
}
