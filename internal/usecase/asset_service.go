package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/speedrun-browser/internal/platform/cache"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

const (
	defaultAssetWorkers         = 4
	defaultAssetPrefetchTimeout = 30 * time.Second
	assetCacheKeyPrefix         = "asset:"
)

// DefaultAssetHosts are the image hosts referenced by leaderboard and profile
// payloads. A leading dot matches any subdomain.
var DefaultAssetHosts = []string{"speedrun.com", ".speedrun.com"}

// AssetContent is a downloaded image.
type AssetContent struct {
	URI         string
	ContentType string
	Body        []byte
}

type AssetFetcher interface {
	FetchAsset(ctx context.Context, uri string) (AssetContent, error)
}

type PrefetchResult struct {
	Requested int
	Fetched   int
	Cached    int
	Failed    int
}

// AssetService downloads each distinct image once and serves later requests
// from the cache store.
type AssetService struct {
	fetcher         AssetFetcher
	store           *cache.Store
	workers         int
	prefetchTimeout time.Duration
	allowedHosts    []string
	logger          *logging.Logger
}

type AssetOption func(*AssetService)

// WithAllowedHosts replaces DefaultAssetHosts. Entries are host names without
// a port; a leading dot matches subdomains.
func WithAllowedHosts(hosts ...string) AssetOption {
	return func(s *AssetService) {
		s.allowedHosts = s.allowedHosts[:0]
		for _, host := range hosts {
			if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
				s.allowedHosts = append(s.allowedHosts, host)
			}
		}
	}
}

func NewAssetService(fetcher AssetFetcher, store *cache.Store, workers int, logger *logging.Logger, opts ...AssetOption) *AssetService {
	if store == nil {
		store = cache.NewStore(time.Hour)
	}
	if workers <= 0 {
		workers = defaultAssetWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &AssetService{
		fetcher:         fetcher,
		store:           store,
		workers:         workers,
		prefetchTimeout: defaultAssetPrefetchTimeout,
		allowedHosts:    append([]string(nil), DefaultAssetHosts...),
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AssetService) Get(ctx context.Context, uri string) (AssetContent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssetService.Get")
	defer span.End()

	uri, err := s.normalizeURI(uri)
	if err != nil {
		return AssetContent{}, err
	}

	value, err := s.store.GetOrLoad(ctx, assetCacheKeyPrefix+uri, func(ctx context.Context) (any, error) {
		content, err := s.fetcher.FetchAsset(ctx, uri)
		if err != nil {
			return nil, err
		}
		return content, nil
	})
	if err != nil {
		return AssetContent{}, fmt.Errorf("fetch asset %s: %w", uri, err)
	}

	content, ok := value.(AssetContent)
	if !ok {
		return AssetContent{}, fmt.Errorf("unexpected cached asset type %T", value)
	}
	return content, nil
}

// Prefetch downloads every distinct uri that is not cached yet on a bounded
// worker pool. Individual failures are counted, not returned.
func (s *AssetService) Prefetch(ctx context.Context, uris []string) (PrefetchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssetService.Prefetch", attribute.Int("asset.requested", len(uris)))
	defer span.End()

	targets := uniqueTrimmed(uris)
	result := PrefetchResult{Requested: len(targets)}
	if len(targets) == 0 {
		return result, nil
	}

	var fetched, cached, failed atomic.Int32

	pool, err := ants.NewPool(min(s.workers, len(targets)))
	if err != nil {
		return PrefetchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, uri := range targets {
		normalized, err := s.normalizeURI(uri)
		if err != nil {
			failed.Add(1)
			continue
		}
		if _, ok := s.store.Get(ctx, assetCacheKeyPrefix+normalized); ok {
			cached.Add(1)
			continue
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if _, err := s.Get(ctx, normalized); err != nil {
				failed.Add(1)
				s.logger.DebugContext(ctx, "asset prefetch failed", "uri", normalized, "error", err)
				return
			}
			fetched.Add(1)
		}); err != nil {
			workers.Done()
			return PrefetchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Fetched = int(fetched.Load())
	result.Cached = int(cached.Load())
	result.Failed = int(failed.Load())
	return result, nil
}

// PrefetchAsync runs Prefetch detached from the caller's cancellation.
func (s *AssetService) PrefetchAsync(ctx context.Context, uris []string) {
	targets := append([]string(nil), uris...)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.prefetchTimeout)
		defer cancel()

		result, err := s.Prefetch(ctx, targets)
		if err != nil {
			s.logger.WarnContext(ctx, "asset prefetch aborted", "error", err)
			return
		}
		stats := s.store.Stats()
		s.logger.DebugContext(ctx, "asset prefetch finished",
			"requested", result.Requested,
			"fetched", result.Fetched,
			"cached", result.Cached,
			"failed", result.Failed,
			"store_entries", stats.Entries,
			"store_evictions", stats.Evictions,
		)
	}()
}

// normalizeURI accepts absolute http(s) URIs on an allowed host only.
func (s *AssetService) normalizeURI(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalidInputf("asset uri is required")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", invalidInputf("invalid asset uri: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", invalidInputf("asset uri must use http or https")
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", invalidInputf("asset uri host is required")
	}
	if !s.hostAllowed(host) {
		return "", invalidInputf("asset host %q is not allowed", host)
	}
	return parsed.String(), nil
}

func (s *AssetService) hostAllowed(host string) bool {
	host = strings.TrimSuffix(host, ".")
	for _, allowed := range s.allowedHosts {
		if suffix, ok := strings.CutPrefix(allowed, "."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == allowed {
			return true
		}
	}
	return false
}
