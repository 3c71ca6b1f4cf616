package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

const (
	generatePath    = "/api/generate"
	maxResponseBody = 1 << 20
)

// ErrBadStatus wraps any non-2xx response from the generate endpoint.
var ErrBadStatus = errors.New("unexpected status from generate endpoint")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls GET {base}/api/generate.
type Client struct {
	endpoint   string
	httpClient httpDoer
}

// NewClient builds a client against baseURL. A nil httpClient gets one with timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	var doer httpDoer = httpClient
	if httpClient == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   strings.TrimSuffix(baseURL, "/") + generatePath,
		httpClient: doer,
	}
}

// Endpoint is the full generate URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate fetches one random player record.
func (c *Client) Generate(ctx context.Context) (players.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return players.Record{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return players.Record{}, fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return players.Record{}, fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rec players.Record
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&rec); err != nil {
		return players.Record{}, fmt.Errorf("decode player record: %w", err)
	}
	return rec, nil
}
