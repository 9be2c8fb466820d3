// Package base provides the foundational BaseConnector that concrete
// Tributary connectors compose over. It implements the shared machinery:
// rate-limited, retried request execution, response normalization, and the
// offset and cursor pagination strategies.
//
// # Usage
//
// Concrete connectors embed *BaseConnector and supply their own auth
// headers, extraction logic, and response validation:
//
//	type MyConnector struct {
//	    *base.BaseConnector
//	}
//
//	func New(cfg *config.ConnectorConfig) (*MyConnector, error) {
//	    c := &MyConnector{}
//	    bc, err := base.New("my-api", cfg, c.AuthHeaders())
//	    if err != nil {
//	        return nil, err
//	    }
//	    c.BaseConnector = bc
//	    return c, nil
//	}
//
// # Concurrency
//
// Extraction is single-threaded and synchronous: rate-limit waits and retry
// backoffs block the caller. One connector instance must not serve two
// concurrent extractions; give each concurrent caller its own instance.
package base

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tributary/pkg/clients"
	"github.com/ajitpratap0/tributary/pkg/config"
	"github.com/ajitpratap0/tributary/pkg/errors"
	"github.com/ajitpratap0/tributary/pkg/json"
	"github.com/ajitpratap0/tributary/pkg/logger"
	"github.com/ajitpratap0/tributary/pkg/metrics"
	"github.com/ajitpratap0/tributary/pkg/observability"
)

// BaseConnector provides the common functionality shared by all connectors:
// one long-lived session, a sliding-window rate limiter, a retry policy,
// request convenience methods, and both paginators.
type BaseConnector struct {
	name        string
	config      *config.ConnectorConfig
	session     *clients.Session
	limiter     clients.RateLimiter
	retryPolicy *RetryPolicy
	logger      *zap.Logger
	metrics     *metrics.Collector

	closed  bool
	closeMu sync.Mutex
}

// RequestOptions carries the per-request inputs: query parameters, extra
// headers, and an optional JSON-encoded body.
type RequestOptions struct {
	Params  map[string]string
	Headers map[string]string
	Body    interface{}
}

// New creates a base connector for the named upstream. The configuration is
// validated, and the auth headers are injected into the session at
// construction when a credential is configured.
func New(name string, cfg *config.ConnectorConfig, authHeaders map[string]string) (*BaseConnector, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid connector configuration")
	}

	bc := &BaseConnector{
		name:        name,
		config:      cfg,
		session:     clients.NewSession(cfg.Timeout),
		limiter:     clients.NewSlidingWindowLimiter(cfg.RateLimitCalls, cfg.RateLimitPeriod),
		retryPolicy: NewRetryPolicy(cfg.MaxRetries),
		logger:      logger.With(zap.String("connector", name)),
		metrics:     metrics.NewCollector(name, cfg.Observability.EnableMetrics),
	}

	if cfg.HasCredential() {
		for key, value := range authHeaders {
			bc.session.SetHeader(key, value)
		}
	}

	return bc, nil
}

// Name returns the connector name
func (bc *BaseConnector) Name() string {
	return bc.name
}

// Config returns the connector configuration
func (bc *BaseConnector) Config() *config.ConnectorConfig {
	return bc.config
}

// Logger returns the connector logger
func (bc *BaseConnector) Logger() *zap.Logger {
	return bc.logger
}

// RateLimiter returns the connector's rate limiter
func (bc *BaseConnector) RateLimiter() clients.RateLimiter {
	return bc.limiter
}

// RetryPolicy returns the connector's retry policy
func (bc *BaseConnector) RetryPolicy() *RetryPolicy {
	return bc.retryPolicy
}

// URL joins an endpoint path to the configured base address with exactly one
// separator, regardless of leading or trailing slashes on either side.
func (bc *BaseConnector) URL(endpoint string) string {
	return strings.TrimRight(bc.config.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// Get issues a GET against an endpoint relative to the base address and
// returns the decoded JSON response.
func (bc *BaseConnector) Get(ctx context.Context, endpoint string, opts RequestOptions) (interface{}, error) {
	return bc.Request(ctx, http.MethodGet, bc.URL(endpoint), opts)
}

// Post issues a POST against an endpoint relative to the base address and
// returns the decoded JSON response.
func (bc *BaseConnector) Post(ctx context.Context, endpoint string, opts RequestOptions) (interface{}, error) {
	return bc.Request(ctx, http.MethodPost, bc.URL(endpoint), opts)
}

// Request executes one logical HTTP call against a fully qualified URL with
// rate limiting and retries. The limiter is consulted before every attempt,
// retries included. A non-2xx status is a failure condition equivalent to a
// transport error; all failures are treated uniformly as retryable up to the
// attempt cap, and the final error is surfaced after exhaustion.
func (bc *BaseConnector) Request(ctx context.Context, method, requestURL string, opts RequestOptions) (interface{}, error) {
	spanCtx, span := observability.StartRequest(ctx, bc.name, method, requestURL)

	var decoded interface{}
	var lastStatus int
	attempt := 0

	err := bc.retryPolicy.Execute(spanCtx, func() error {
		attempt++

		waitStart := time.Now()
		if err := bc.limiter.Wait(spanCtx); err != nil {
			return errors.Wrap(err, errors.ErrorTypeRateLimit, "rate limit wait cancelled")
		}
		bc.metrics.RecordRateLimitWait(time.Since(waitStart))

		req, err := bc.newRequest(spanCtx, method, requestURL, opts)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := bc.session.Do(req)
		duration := time.Since(start)

		if err != nil {
			lastStatus = 0
			bc.metrics.RecordRequest(method, 0, duration)
			bc.failedAttempt(method, requestURL, attempt, err)
			return errors.Wrap(err, errors.ErrorTypeTransport, "request failed")
		}
		defer resp.Body.Close()

		lastStatus = resp.StatusCode
		bc.metrics.RecordRequest(method, resp.StatusCode, duration)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := errors.Newf(errors.ErrorTypeTransport,
				"unexpected status %d: %s", resp.StatusCode, bodySnippet(resp.Body))
			bc.failedAttempt(method, requestURL, attempt, err)
			return err
		}

		var v interface{}
		if err := json.Decode(resp.Body, &v); err != nil {
			err := errors.Wrap(err, errors.ErrorTypeData, "failed to decode response")
			bc.failedAttempt(method, requestURL, attempt, err)
			return err
		}

		decoded = v
		return nil
	})

	observability.EndRequest(span, lastStatus, err)

	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// failedAttempt logs a failed attempt and counts the retry it triggers
func (bc *BaseConnector) failedAttempt(method, requestURL string, attempt int, err error) {
	bc.logger.Warn("request attempt failed",
		zap.String("method", method),
		zap.String("url", requestURL),
		zap.Int("attempt", attempt),
		zap.Int("max_attempts", bc.retryPolicy.MaxAttempts),
		zap.Error(err))

	if attempt < bc.retryPolicy.MaxAttempts {
		bc.metrics.RecordRetry()
	}
}

// newRequest builds an HTTP request with merged query parameters and an
// optional JSON body.
func (bc *BaseConnector) newRequest(ctx context.Context, method, requestURL string, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(requestURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid request URL")
	}

	if len(opts.Params) > 0 {
		q := u.Query()
		for key, value := range opts.Params {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "failed to create request")
	}

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// Close releases the session. Safe to call more than once; only the first
// call does the work.
func (bc *BaseConnector) Close() error {
	bc.closeMu.Lock()
	defer bc.closeMu.Unlock()

	if bc.closed {
		return nil
	}
	bc.closed = true

	bc.logger.Debug("closing connector")
	return bc.session.Close()
}

// bodySnippet reads a bounded prefix of an error response body for logs
func bodySnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(data))
}
