package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/speedrun-browser/internal/platform/cache"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	total atomic.Int32
	fail  map[string]error
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{calls: map[string]int{}, fail: map[string]error{}}
}

func (f *countingFetcher) FetchAsset(_ context.Context, uri string) (AssetContent, error) {
	f.total.Add(1)
	f.mu.Lock()
	f.calls[uri]++
	err := f.fail[uri]
	f.mu.Unlock()
	if err != nil {
		return AssetContent{}, err
	}
	return AssetContent{URI: uri, ContentType: "image/png", Body: []byte("png:" + uri)}, nil
}

func TestAssetService_GetCachesDownloads(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	service := NewAssetService(fetcher, cache.NewStore(time.Minute), 2, nil, WithAllowedHosts("img.example"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		content, err := service.Get(ctx, "https://img.example/cover.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", content.ContentType)
	}
	assert.Equal(t, int32(1), fetcher.total.Load())
}

func TestAssetService_GetRejectsInvalidURI(t *testing.T) {
	t.Parallel()

	service := NewAssetService(newCountingFetcher(), nil, 1, nil)
	for _, uri := range []string{"", "ftp://img/x.png", "/relative.png", "https://"} {
		if _, err := service.Get(context.Background(), uri); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Get(%q) expected ErrInvalidInput, got %v", uri, err)
		}
	}
}

func TestAssetService_RejectsHostsOutsideAllowlist(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	service := NewAssetService(fetcher, cache.NewStore(time.Minute), 1, nil)
	ctx := context.Background()

	for _, uri := range []string{
		"https://www.speedrun.com/static/game/sms/cover.png",
		"https://speedrun.com/themes/user/UserA/image.png",
		"https://WWW.SPEEDRUN.COM./trophy.png",
	} {
		_, err := service.Get(ctx, uri)
		require.NoError(t, err, uri)
	}

	for _, uri := range []string{
		"http://127.0.0.1:8080/latest/meta-data/iam",
		"http://169.254.169.254/latest/meta-data/",
		"http://localhost/admin",
		"https://img.example/cover.png",
		"https://evilspeedrun.com/x.png",
		"https://speedrun.com.evil.example/x.png",
		"https://www.speedrun.com@127.0.0.1/x.png",
	} {
		if _, err := service.Get(ctx, uri); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Get(%q) expected ErrInvalidInput, got %v", uri, err)
		}
	}
	assert.Equal(t, int32(3), fetcher.total.Load(), "rejected hosts must never reach the fetcher")

	result, err := service.Prefetch(ctx, []string{"http://127.0.0.1/a.png"})
	require.NoError(t, err)
	assert.Equal(t, PrefetchResult{Requested: 1, Failed: 1}, result)
}

func TestAssetService_PrefetchFetchesEachURIOnce(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	fetcher.fail["https://img.example/broken.png"] = errors.New("404")
	service := NewAssetService(fetcher, cache.NewStore(time.Minute), 3, nil, WithAllowedHosts("img.example"))
	ctx := context.Background()

	_, err := service.Get(ctx, "https://img.example/already.png")
	require.NoError(t, err)

	result, err := service.Prefetch(ctx, []string{
		"https://img.example/a.png",
		"https://img.example/b.png",
		"https://img.example/a.png",
		"https://img.example/already.png",
		"https://img.example/broken.png",
		"not a url",
	})
	require.NoError(t, err)

	assert.Equal(t, PrefetchResult{Requested: 5, Fetched: 2, Cached: 1, Failed: 2}, result)
	assert.Equal(t, 1, fetcher.calls["https://img.example/a.png"])
	assert.Equal(t, 1, fetcher.calls["https://img.example/already.png"])
}

func TestAssetService_PrefetchAsync(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	service := NewAssetService(fetcher, cache.NewStore(time.Minute), 2, nil, WithAllowedHosts("img.example"))

	ctx, cancel := context.WithCancel(context.Background())
	service.PrefetchAsync(ctx, []string{"https://img.example/a.png", "https://img.example/b.png"})
	cancel()

	require.Eventually(t, func() bool {
		return fetcher.total.Load() == 2
	}, time.Second, 5*time.Millisecond)
}
