package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/platform/logging"
	"github.com/riskibarqy/community-league/internal/platform/resilience"
	"github.com/riskibarqy/community-league/internal/usecase"
)

var errTransient = crerr.New("docstore transient failure")

const maxErrorBody = 512

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Dial overrides the network dialer; tests point it at an in-memory listener.
	Dial fasthttp.DialFunc
}

// Client talks to the remote document store over its REST document API.
type Client struct {
	http         *fasthttp.Client
	baseURL      string
	token        string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
}

type documentPayload struct {
	ID        string          `json:"id"`
	UpdatedAt time.Time       `json:"updated_at"`
	Deleted   bool            `json:"deleted"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type listEnvelope struct {
	Documents []documentPayload `json:"documents"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                     "community-league-replicator",
			Dial:                     cfg.Dial,
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxIdleConnDuration:      30 * time.Second,
			NoDefaultUserAgentHeader: true,
		},
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:        strings.TrimSpace(cfg.Token),
		timeout:      timeout,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      resilience.FromConfig(cfg.CircuitBreaker),
	}
}

// Put writes doc into the collection named by kind. Deleted documents are
// written as tombstones.
func (c *Client) Put(ctx context.Context, kind replication.Kind, doc replication.Document) error {
	if strings.TrimSpace(doc.ID) == "" {
		return crerr.New("document id is required")
	}

	body, err := sonic.Marshal(documentPayload{
		ID:        doc.ID,
		UpdatedAt: doc.UpdatedAt.UTC(),
		Deleted:   doc.Deleted,
		Data:      json.RawMessage(doc.Data),
	})
	if err != nil {
		return crerr.Wrapf(err, "marshal document kind=%s id=%s", kind, doc.ID)
	}

	endpoint, err := c.documentURL(kind, doc.ID)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, fasthttp.MethodPut, endpoint, body); err != nil {
		return crerr.Wrapf(err, "put document kind=%s id=%s", kind, doc.ID)
	}
	return nil
}

func (c *Client) List(ctx context.Context, kind replication.Kind) ([]replication.Document, error) {
	endpoint, err := c.documentURL(kind, "")
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, fasthttp.MethodGet, endpoint, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "list documents kind=%s", kind)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var envelope listEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrapf(err, "decode documents kind=%s", kind)
	}

	out := make([]replication.Document, 0, len(envelope.Documents))
	for _, item := range envelope.Documents {
		out = append(out, replication.Document{
			ID:        item.ID,
			UpdatedAt: item.UpdatedAt.UTC(),
			Deleted:   item.Deleted,
			Data:      []byte(item.Data),
		})
	}
	return out, nil
}

func (c *Client) documentURL(kind replication.Kind, id string) (string, error) {
	base, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return "", crerr.Wrap(err, "invalid DOCSTORE_BASE_URL")
	}
	if strings.TrimSpace(string(kind)) == "" {
		return "", crerr.New("collection is required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(base)
	_, _ = buf.WriteString("/v1/collections/")
	_, _ = buf.WriteString(url.PathEscape(string(kind)))
	_, _ = buf.WriteString("/documents")
	if id != "" {
		_ = buf.WriteByte('/')
		_, _ = buf.WriteString(url.PathEscape(id))
	}
	return buf.String(), nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("docstore.method", method),
			attribute.String("docstore.url", endpoint),
		)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var raw []byte
		err := c.breaker.Do(func() error {
			var callErr error
			raw, callErr = c.execute(ctx, method, endpoint, body)
			return callErr
		}, isTransient)
		if err == nil {
			return raw, nil
		}
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "docstore circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: document store is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}

		lastErr = err
		if !isTransient(err) || attempt == c.maxRetries {
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

	c.logger.WarnContext(ctx, "docstore request failed", "method", method, "url", endpoint, "error", lastErr)
	if isTransient(lastErr) {
		return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
	}
	return nil, lastErr
}

func (c *Client) execute(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "send %s %s", method, endpoint), errTransient)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return append([]byte(nil), resp.Body()...), nil
	case status == fasthttp.StatusNotFound && method == fasthttp.MethodGet:
		return nil, nil
	case isRetryableStatus(status):
		return nil, crerr.Mark(crerr.Newf("docstore status=%d body=%s", status, abbreviateBody(resp.Body())), errTransient)
	default:
		return nil, crerr.Newf("docstore status=%d body=%s", status, abbreviateBody(resp.Body()))
	}
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) <= maxErrorBody {
		return text
	}
	return text[:maxErrorBody] + "...(truncated)"
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
