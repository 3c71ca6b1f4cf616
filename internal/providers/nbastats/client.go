package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/providers"
)

// Config controls how the client reaches stats.nba.com.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches career totals from the stats.nba.com playercareerstats endpoint.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a stats.nba.com client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// FetchCareer retrieves the player's regular-season totals.
func (c *Client) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	req, err := c.buildRequest(ctx, playerID)
	if err != nil {
		return players.Career{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return players.Career{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return players.Career{}, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "nbastats: rate limited",
		}
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusNotFound:
		return players.Career{}, fmt.Errorf("nbastats: player %d: %w", playerID, players.ErrPlayerNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return players.Career{}, &providers.UpstreamError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload careerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return players.Career{}, fmt.Errorf("nbastats: decode career: %w", err)
	}

	for _, set := range payload.ResultSets {
		if set.Name == regularSeasonSet {
			return mapCareer(playerID, set)
		}
	}
	return players.Career{}, fmt.Errorf("nbastats: result set %s missing", regularSeasonSet)
}

func (c *Client) buildRequest(ctx context.Context, playerID int64) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+careerEndpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("PlayerID", strconv.FormatInt(playerID, 10))
	q.Set("PerMode", "Totals")
	q.Set("LeagueID", "00")
	req.URL.RawQuery = q.Encode()

	setBrowserHeaders(req)
	return req, nil
}
