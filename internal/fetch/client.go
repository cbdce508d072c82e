package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/layerlint/internal/utils"
)

// maxBodyBytes caps capability documents; some servers attach huge
// metadata blocks and we never need more than this to parse them.
const maxBodyBytes = 32 << 20

// Doer is the subset of *http.Client the fetcher relies on.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs GET requests with a fixed identifying user agent.
// Validators depend on it through their own narrow interfaces.
type Client struct {
	http      Doer
	userAgent string
}

// New builds a client with its own *http.Client and the given timeout.
func New(timeout time.Duration, userAgent string) *Client {
	return NewWithDoer(&http.Client{Timeout: timeout}, userAgent)
}

// NewWithDoer builds a client around an existing Doer. Used by tests.
func NewWithDoer(d Doer, userAgent string) *Client {
	return &Client{http: d, userAgent: userAgent}
}

// Get fetches rawURL and returns the status code and body. A transport
// failure returns an error; any HTTP status is returned as-is so
// callers decide what counts as a failure.
func (c *Client) Get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Reachable reports whether rawURL answers with exactly HTTP 200.
// Transport errors count as unreachable, silently.
func (c *Client) Reachable(ctx context.Context, rawURL string) bool {
	status, _, err := c.Get(ctx, rawURL)
	return err == nil && status == http.StatusOK
}
