package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"golang.org/x/time/rate"
)

const defaultHTTPTimeout = 10 * time.Second
const defaultHTTPRetries = 3
const defaultHTTPRetryDelay = 200 * time.Millisecond
const maxHTTPRetryDelay = 2 * time.Second
const defaultPerHostRate = rate.Limit(8)
const defaultPerHostBurst = 4

// HTTPConfig tunes the shared registry transport.
type HTTPConfig struct {
	Timeout      time.Duration
	Retries      int
	RetryDelay   time.Duration
	PerHostRate  rate.Limit
	PerHostBurst int
}

func NormalizeHTTPConfig(timeoutSec int, retries int, delayMs int) HTTPConfig {
	cfg := HTTPConfig{
		Timeout:    time.Duration(timeoutSec) * time.Second,
		Retries:    retries,
		RetryDelay: time.Duration(delayMs) * time.Millisecond,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultHTTPRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultHTTPRetryDelay
	}
	cfg.PerHostRate = defaultPerHostRate
	cfg.PerHostBurst = defaultPerHostBurst
	return cfg
}

// HTTPClient is the retrying transport shared by all registry adapters.
// Retries apply only to idempotent requests (everything here is GET or
// HEAD) and only to transient status classes; per-host token buckets keep
// the fan-out under third-party rate limits. The underlying connection
// pool is shared read-only across workers.
type HTTPClient struct {
	client *http.Client
	cfg    HTTPConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg = NormalizeHTTPConfig(0, cfg.Retries, 0)
	}
	if cfg.PerHostRate <= 0 {
		cfg.PerHostRate = defaultPerHostRate
	}
	if cfg.PerHostBurst <= 0 {
		cfg.PerHostBurst = defaultPerHostBurst
	}
	return &HTTPClient{
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		limiters: map[string]*rate.Limiter{},
	}
}

func (c *HTTPClient) Get(ctx context.Context, requestURL string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, requestURL)
}

func (c *HTTPClient) Head(ctx context.Context, requestURL string) (*http.Response, error) {
	return c.do(ctx, http.MethodHead, requestURL)
}

func (c *HTTPClient) do(ctx context.Context, method string, requestURL string) (*http.Response, error) {
	limiter := c.limiterFor(requestURL)
	var lastErr error
	for attempt := 0; attempt < c.cfg.Retries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request canceled").
				WithCause(err)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create request").
				WithCause(err)
		}
		req.Header.Set("Accept", "application/json, text/html, application/xml;q=0.9, */*;q=0.8")
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("request canceled").
					WithCause(ctx.Err())
			}
			lastErr = err
			if attempt < c.cfg.Retries-1 {
				time.Sleep(c.retryDelay(attempt))
				continue
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request failed").
				WithCause(err)
		}
		if transientStatus(resp.StatusCode) && attempt < c.cfg.Retries-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			time.Sleep(c.retryDelay(attempt))
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("request failed")
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("request failed").
		WithCause(lastErr)
}

func (c *HTTPClient) limiterFor(requestURL string) *rate.Limiter {
	host := ""
	if parsed, err := url.Parse(requestURL); err == nil {
		host = parsed.Host
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.cfg.PerHostRate, c.cfg.PerHostBurst)
		c.limiters[host] = limiter
	}
	return limiter
}

func (c *HTTPClient) retryDelay(attempt int) time.Duration {
	delay := c.cfg.RetryDelay * time.Duration(1<<attempt)
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

// GetJSON fetches and decodes a JSON document. The first return reports
// whether the resource exists; a 404 is a clean miss, not an error.
func (c *HTTPClient) GetJSON(ctx context.Context, requestURL string, out any) (bool, error) {
	resp, err := c.Get(ctx, requestURL)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("unexpected registry response").
			WithCause(fmt.Errorf("status=%d url=%s", resp.StatusCode, requestURL))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode registry response").
			WithCause(err)
	}
	return true, nil
}

// transientStatus reports whether a response status is worth retrying.
// 404 and other client errors are final; parse failures never reach here.
func transientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
