// Package search provides the people-search service client and
// variant-scoped pagination cursor bookkeeping.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/talent-sourcer/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; TalentSourcer/1.0)"

// SearchPath is the service endpoint for candidate search.
const SearchPath = "/screener/persondb/search"

// MaxPageSize is the largest page the engine ever requests. The service
// accepts up to 1000 but disciplined retrieval stays at 200.
const MaxPageSize = 200

// PostProcessing holds server-side exclusions applied after the main query.
type PostProcessing struct {
	ExcludeProfiles []string `json:"exclude_profiles,omitempty"`
	ExcludeNames    []string `json:"exclude_names,omitempty"`
}

// Request is a single search call: a serialized filter expression, a page
// size, and an optional continuation cursor. Filters must remain identical
// across pages of the same variant.
type Request struct {
	Filters        json.RawMessage `json:"filters"`
	Limit          int             `json:"limit"`
	Cursor         string          `json:"cursor,omitempty"`
	PostProcessing *PostProcessing `json:"post_processing,omitempty"`
}

// Response is one page of results. An empty NextCursor signals the end of
// results for the variant.
type Response struct {
	Profiles   []types.Candidate `json:"profiles"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// Client issues search calls against the people-search service.
type Client interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Options configures the HTTP client.
type Options struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	UserAgent    string
	MaxRetries   int           // retries for transient errors; default 1
	RetryBackoff time.Duration // wait before the retry; default 2s
}

// DefaultOptions returns sensible defaults for the given endpoint.
func DefaultOptions(baseURL, apiKey string) *Options {
	return &Options{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxRetries:   1,
		RetryBackoff: 2 * time.Second,
	}
}

// HTTPClient is the production Client implementation: bearer-auth JSON POST
// with a single bounded retry on transient failures.
type HTTPClient struct {
	opts   *Options
	client *http.Client
}

// NewHTTPClient creates an HTTPClient with the given options.
func NewHTTPClient(opts *Options) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	return &HTTPClient{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Search executes one search call. Transient failures are retried up to
// MaxRetries times with a brief backoff; permanent failures return a
// non-transient *APIError.
func (c *HTTPClient) Search(ctx context.Context, req *Request) (*Response, error) {
	if req.Limit < 1 || req.Limit > MaxPageSize {
		return nil, &APIError{Message: fmt.Sprintf("limit must be between 1 and %d", MaxPageSize)}
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(c.opts.RetryBackoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		resp, err := c.post(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Transient {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *HTTPClient) post(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &APIError{Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+SearchPath, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Message: "failed to build request", Cause: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.opts.UserAgent)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{Message: "request failed", Transient: true, Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, &APIError{
			Status:    httpResp.StatusCode,
			Message:   string(snippet),
			Transient: isTransientStatus(httpResp.StatusCode),
		}
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &APIError{Message: "invalid JSON response", Cause: err}
	}
	return &resp, nil
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
