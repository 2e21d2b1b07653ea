package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/platform/resilience"
	"github.com/KingBodhi/jungleverse/internal/usecase"
)

const (
	DefaultUserAgent = "jungleverse-data-fetcher/1.0"
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultTimeout   = 20 * time.Second
	maxBodyBytes     = 6 << 20
)

var (
	// ErrUpstream marks failed upstream requests: transport errors and non-2xx.
	ErrUpstream = crerr.New("upstream request failed")
	// ErrParse marks payloads whose shape did not match expectations.
	ErrParse = parse.ErrParse

	errTransient = crerr.Wrap(ErrUpstream, "transient")
)

type ClientConfig struct {
	HTTPClient        *http.Client
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	UserAgent         string
	Logger            *logging.Logger
	Breakers          *resilience.BreakerSet
}

// Client performs outbound GETs for every connector. Each request passes a
// per-provider circuit breaker and a process-wide request rate limit, and is
// retried with linear backoff on transient failures.
type Client struct {
	httpClient *http.Client
	maxRetries int
	userAgent  string
	logger     *logging.Logger
	breakers   *resilience.BreakerSet
	limiter    *rate.Limiter
	flight     resilience.SingleFlight
	backoff    func(attempt int) time.Duration
}

type Request struct {
	Provider  string
	URL       string
	Accept    string
	UserAgent string
	Headers   map[string]string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: httpClient,
		maxRetries: max(cfg.MaxRetries, 0),
		userAgent:  userAgent,
		logger:     logger,
		breakers:   cfg.Breakers,
		limiter:    rate.NewLimiter(limit, 1),
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		},
	}
}

// Get returns the raw response body of a successful request.
func (c *Client) Get(ctx context.Context, req Request) ([]byte, error) {
	breaker := c.breakers.Get(req.Provider)
	if breaker != nil {
		if err := breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "provider", req.Provider, "state", breaker.State())
			return nil, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, req.Provider)
		}
	}

	out, err, _ := c.flight.Do(req.Provider+" "+req.URL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, req)
		if breaker != nil {
			if reqErr != nil && isCircuitFailure(reqErr) {
				breaker.RecordFailure()
			} else {
				breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) GetJSON(ctx context.Context, req Request, target any) error {
	if req.Accept == "" {
		req.Accept = "application/json"
	}
	raw, err := c.Get(ctx, req)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(ErrParse, "decode %s payload: %v", req.Provider, err)
	}
	return nil
}

// GetDocument fetches an HTML page. wrap, when set, is a format string the
// body is embedded into before parsing, for fragments such as bare rows.
func (c *Client) GetDocument(ctx context.Context, req Request, wrap string) (*goquery.Document, error) {
	if req.Accept == "" {
		req.Accept = "text/html,application/xhtml+xml"
	}
	if req.UserAgent == "" {
		req.UserAgent = browserUserAgent
	}
	raw, err := c.Get(ctx, req)
	if err != nil {
		return nil, err
	}
	if wrap != "" {
		raw = []byte(fmt.Sprintf(wrap, raw))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, crerr.Wrapf(ErrParse, "parse %s html: %v", req.Provider, err)
	}
	return doc, nil
}

func (c *Client) executeRequest(ctx context.Context, req Request) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		c.applyHeaders(httpReq, req)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = crerr.Wrapf(errTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errTransient, "HTTP %d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Wrapf(ErrUpstream, "HTTP %d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(ErrUpstream, "request failed")
	}
	c.logger.WarnContext(ctx, "provider request failed", "provider", req.Provider, "url", req.URL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) applyHeaders(httpReq *http.Request, req Request) {
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.userAgent
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
