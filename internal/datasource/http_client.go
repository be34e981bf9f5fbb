package datasource

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // max consecutive failures before circuit break
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         10.0,
		CircuitBreakerMax: 5,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and a
// simple consecutive-failure circuit breaker. Safe for concurrent use; the
// breaker state is guarded by mu because one client is shared across the
// roster fan-out.
type RateLimitedHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	logger            *logrus.Logger

	mu                sync.Mutex
	consecutiveErrors int
	isOpen            bool
	lastError         error
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = logrus.New()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = nil

	return &RateLimitedHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		logger:            logger,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if open, lastErr := c.breakerOpen(); open {
		return nil, fmt.Errorf("circuit breaker open: %v", lastErr)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}
	resp, err := c.client.Do(retryReq)
	if err != nil {
		if opened, count := c.recordFailure(err); opened {
			c.logger.WithError(err).Warnf("Circuit breaker opened after %d consecutive errors", count)
		}
		return nil, err
	}

	if resp.StatusCode < 500 {
		c.recordSuccess()
	}

	return resp, nil
}

func (c *RateLimitedHTTPClient) breakerOpen() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen, c.lastError
}

// recordFailure counts a consecutive failure and reports whether this one
// tripped the breaker.
func (c *RateLimitedHTTPClient) recordFailure(err error) (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors >= c.circuitBreakerMax && !c.isOpen {
		c.isOpen = true
		return true, c.consecutiveErrors
	}
	return false, c.consecutiveErrors
}

func (c *RateLimitedHTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.isOpen = false
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryPolicy retries network errors, rate limits and server errors; other
// client errors fail immediately.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
