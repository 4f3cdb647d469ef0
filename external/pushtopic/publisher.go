package pushtopic

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/platform/resilience"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

var (
	errPushTransient = crerr.New("push gateway transient failure")

	topicPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_.~%]{1,900}$`)
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
)

type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Publisher manages topic registrations on the push gateway.
type Publisher struct {
	client  *http.Client
	baseURL string
	token   string
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

var _ usecase.TopicPublisher = (*Publisher)(nil)

func NewPublisher(cfg Config, logger *logging.Logger) (*Publisher, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid PUSH_BASE_URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	logger = logger.Named("pushtopic")
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "pushtopic"
	}
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = resilience.LogStateChanges(logger)
	}

	return &Publisher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		logger:  logger,
		breaker: breakerCfg.Build(),
	}, nil
}

func (p *Publisher) SubscribeTopic(ctx context.Context, topic string) error {
	return p.send(ctx, http.MethodPut, actionSubscribe, topic)
}

// UnsubscribeTopic removes a topic. A topic the gateway does not know counts
// as removed.
func (p *Publisher) UnsubscribeTopic(ctx context.Context, topic string) error {
	return p.send(ctx, http.MethodDelete, actionUnsubscribe, topic)
}

func (p *Publisher) send(ctx context.Context, method, action, topic string) error {
	topic = strings.TrimSpace(topic)
	if !topicPattern.MatchString(topic) {
		return fmt.Errorf("%w: invalid topic name %q", usecase.ErrInvalidInput, topic)
	}

	if err := p.breaker.Allow(); err != nil {
		snap := p.breaker.Snapshot()
		p.logger.WarnContext(ctx, "push gateway circuit breaker rejected request", "state", snap.State, "retry_in", snap.RetryIn)
		return fmt.Errorf("%w: push gateway is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	targetURL := p.baseURL + "/topics/" + url.PathEscape(topic)
	body, err := sonic.Marshal(topicRequest{Topic: topic, Action: action})
	if err != nil {
		return crerr.Wrap(err, "marshal topic request")
	}
	preview := buildCurlPreview(method, targetURL, string(body))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("push.topic", topic),
			attribute.String("push.action", action),
			attribute.String("push.request_curl_preview", preview),
		)
	}
	p.logger.DebugContext(ctx, "push topic request", "topic", topic, "action", action, "curl_preview", preview)

	req, err := http.NewRequestWithContext(ctx, method, targetURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create push gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := crerr.Wrapf(errPushTransient, "%s topic=%s: %v", action, topic, err)
		return p.finish(ctx, callErr)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		p.logger.InfoContext(ctx, "push topic updated", "topic", topic, "action", action)
		return p.finish(ctx, nil)
	}
	if action == actionUnsubscribe && resp.StatusCode == http.StatusNotFound {
		return p.finish(ctx, nil)
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if isRetryableStatus(resp.StatusCode) {
		callErr := crerr.Wrapf(errPushTransient, "%s topic=%s status=%d body=%s", action, topic, resp.StatusCode, strings.TrimSpace(string(raw)))
		return p.finish(ctx, callErr)
	}

	return p.finish(ctx, crerr.Newf("%s topic=%s status=%d body=%s", action, topic, resp.StatusCode, strings.TrimSpace(string(raw))))
}

func (p *Publisher) finish(ctx context.Context, err error) error {
	if err == nil {
		p.breaker.RecordSuccess()
		return nil
	}
	if isTransient(err) {
		p.breaker.RecordFailure()
		p.logger.WarnContext(ctx, "push gateway request failed", "error", err)
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}
	p.breaker.RecordSuccess()
	return err
}

type topicRequest struct {
	Topic  string `json:"topic"`
	Action string `json:"action"`
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(method, targetURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart(method)
	appendPart(shellQuote(targetURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: Bearer ***"))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errPushTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
