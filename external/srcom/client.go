package srcom

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/platform/cache"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/platform/resilience"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

const (
	DefaultBaseURL = "https://sr-browser.dbeal.dev/api/v1"

	maxResponseBytes = 8 << 20
	maxIDsPerRequest = 50
)

var (
	errSrcomTransient = crerr.New("speedrun api transient failure")
	errSrcomNotFound  = crerr.New("speedrun api resource not found")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Payloads caches raw response bodies. Nil disables payload caching.
	Payloads cache.PayloadCache
	Asset    AssetConfig
}

// Client reads games, users and leaderboards from the speedrun middleware API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight[[]byte]
	payloads     cache.PayloadCache
	assets       *assetDownloader
}

var _ speedrun.Repository = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "srcom"
	}
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = resilience.LogStateChanges(logger)
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: retryBackoff,
		logger:       logger,
		breaker:      breakerCfg.Build(),
		payloads:     cfg.Payloads,
		assets:       newAssetDownloader(cfg.Asset),
	}
}

// GetLeaderboard fetches the board identified by key ("category" or
// "category_level"). A board the upstream does not know reports false.
func (c *Client) GetLeaderboard(ctx context.Context, key string) (speedrun.Leaderboard, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return speedrun.Leaderboard{}, false, nil
	}

	var out envelope[leaderboardPayload]
	if err := c.doJSON(ctx, "/leaderboards/"+url.PathEscape(key), &out); err != nil {
		if stderrors.Is(err, errSrcomNotFound) {
			return speedrun.Leaderboard{}, false, nil
		}
		return speedrun.Leaderboard{}, false, err
	}
	if len(out.Data) == 0 {
		return speedrun.Leaderboard{}, false, nil
	}

	return mapLeaderboard(out.Data[0]), true, nil
}

// GetUsers fetches users in batches. Unknown ids are absent from the result.
func (c *Client) GetUsers(ctx context.Context, ids []string) ([]speedrun.User, error) {
	out := make([]speedrun.User, 0, len(ids))
	for _, chunk := range chunkIDs(ids, maxIDsPerRequest) {
		var payload envelope[userPayload]
		if err := c.doJSON(ctx, "/users/"+joinPathIDs(chunk), &payload); err != nil {
			if stderrors.Is(err, errSrcomNotFound) {
				continue
			}
			return nil, err
		}
		for _, item := range payload.Data {
			if strings.TrimSpace(item.ID) == "" {
				continue
			}
			out = append(out, mapUser(item))
		}
	}
	return out, nil
}

// GetGames fetches games in batches. Unknown ids are absent from the result.
func (c *Client) GetGames(ctx context.Context, ids []string) ([]speedrun.Game, error) {
	out := make([]speedrun.Game, 0, len(ids))
	for _, chunk := range chunkIDs(ids, maxIDsPerRequest) {
		var payload envelope[gamePayload]
		if err := c.doJSON(ctx, "/games/"+joinPathIDs(chunk), &payload); err != nil {
			if stderrors.Is(err, errSrcomNotFound) {
				continue
			}
			return nil, err
		}
		for _, item := range payload.Data {
			if strings.TrimSpace(item.ID) == "" {
				continue
			}
			out = append(out, mapGame(item))
		}
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if raw, ok := c.cachedPayload(ctx, path); ok {
		if err := sonic.Unmarshal(raw, target); err == nil {
			return nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached payload", "path", path)
	}

	if err := c.breaker.Allow(); err != nil {
		snap := c.breaker.Snapshot()
		c.logger.WarnContext(ctx, "speedrun api circuit breaker rejected request", "path", path, "state", snap.State, "retry_in", snap.RetryIn)
		return fmt.Errorf("%w: speedrun api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	raw, err := c.flight.Do(ctx, path, func(ctx context.Context) ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if reqErr != nil && isSrcomCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		if isSrcomCircuitFailure(err) {
			return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	if msg := gjson.GetBytes(raw, "error.msg").String(); strings.TrimSpace(msg) != "" {
		return crerr.Newf("speedrun api error on %s: %s", path, msg)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode speedrun api payload %s", path)
	}

	c.storePayload(ctx, path, raw)
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errSrcomTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errSrcomTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrapf(errSrcomNotFound, "status=%d", resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errSrcomTransient, "status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Newf("speedrun api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("speedrun api request failed")
	}
	c.logger.WarnContext(ctx, "speedrun api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) cachedPayload(ctx context.Context, path string) ([]byte, bool) {
	if c.payloads == nil {
		return nil, false
	}
	raw, ok, err := c.payloads.GetPayload(ctx, path)
	if err != nil {
		c.logger.WarnContext(ctx, "payload cache read failed", "path", path, "error", err)
		return nil, false
	}
	return raw, ok
}

func (c *Client) storePayload(ctx context.Context, path string, raw []byte) {
	if c.payloads == nil {
		return
	}
	if err := c.payloads.SetPayload(ctx, path, raw); err != nil {
		c.logger.WarnContext(ctx, "payload cache write failed", "path", path, "error", err)
	}
}

func chunkIDs(ids []string, size int) [][]string {
	seen := make(map[string]struct{}, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}

	var out [][]string
	for start := 0; start < len(clean); start += size {
		end := min(start+size, len(clean))
		out = append(out, clean[start:end])
	}
	return out
}

func joinPathIDs(ids []string) string {
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		escaped = append(escaped, url.PathEscape(id))
	}
	return strings.Join(escaped, ",")
}

func isSrcomCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errSrcomTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
