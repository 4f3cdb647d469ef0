package srcom

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

const (
	defaultAssetTimeout  = 15 * time.Second
	defaultAssetMaxBytes = 4 << 20
)

type AssetConfig struct {
	Timeout  time.Duration
	MaxBytes int
	// Client overrides the fasthttp client, mainly for tests.
	Client *fasthttp.Client
}

type assetDownloader struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func newAssetDownloader(cfg AssetConfig) *assetDownloader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAssetTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultAssetMaxBytes
	}

	client := cfg.Client
	if client == nil {
		client = &fasthttp.Client{
			Name:                "speedrun-browser",
			MaxResponseBodySize: maxBytes,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}

	return &assetDownloader{client: client, timeout: timeout}
}

// FetchAsset downloads an image. Responses that are not images are rejected.
func (c *Client) FetchAsset(ctx context.Context, uri string) (usecase.AssetContent, error) {
	return c.assets.fetch(ctx, uri)
}

func (d *assetDownloader) fetch(ctx context.Context, uri string) (usecase.AssetContent, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "image/*")

	deadline := time.Now().Add(d.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := ctx.Err(); err != nil {
		return usecase.AssetContent{}, err
	}

	if err := d.client.DoDeadline(req, resp, deadline); err != nil {
		return usecase.AssetContent{}, crerr.Wrapf(err, "download asset %s", uri)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return usecase.AssetContent{}, crerr.Wrapf(usecase.ErrNotFound, "asset %s", uri)
	}
	if status < 200 || status >= 300 {
		return usecase.AssetContent{}, crerr.Newf("download asset %s: status=%d", uri, status)
	}

	contentType := string(resp.Header.ContentType())
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return usecase.AssetContent{}, crerr.Newf("download asset %s: unexpected content type %q", uri, contentType)
	}

	return usecase.AssetContent{
		URI:         uri,
		ContentType: contentType,
		Body:        append([]byte(nil), resp.Body()...),
	}, nil
}
