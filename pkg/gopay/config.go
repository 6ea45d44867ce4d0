package gopay

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.stripe.com/v1"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "gopay/1.0"
)

// Config holds client configuration
type Config struct {
	// APIKey is the secret key sent as a bearer token (required)
	APIKey string

	// BaseURL is the API root, including the version prefix.
	// Default: DefaultBaseURL
	BaseURL string

	// APIVersion pins the API version sent with every request.
	// If empty, the account's default version applies.
	APIVersion string

	// HTTPClient is an optional HTTP client for API calls.
	// If nil, a client with Timeout is created.
	// Allows custom transports, proxies, or instrumentation.
	HTTPClient *http.Client

	// Timeout applies to the default HTTP client only (default: 30 seconds)
	Timeout time.Duration

	// UserAgent is sent with every request (default: "gopay/1.0")
	UserAgent string

	// Logger is used for structured logging (default: NoopLogger)
	Logger Logger

	// Metrics is used for tracking API calls (default: NoopMetrics)
	Metrics Metrics

	// CircuitBreaker enables fail-fast behavior when the API is unreachable.
	// If nil, no circuit breaker is installed.
	CircuitBreaker *CircuitBreakerConfig

	// DisableIdempotencyKeys stops the client from generating an
	// Idempotency-Key for POST requests that do not carry one.
	DisableIdempotencyKeys bool
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", ErrInvalidConfig)
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: base url %q must be absolute", ErrInvalidConfig, c.BaseURL)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if cb := c.CircuitBreaker; cb != nil {
		if cb.FailureThreshold < 0 {
			return fmt.Errorf("%w: circuit breaker failure threshold must not be negative", ErrInvalidConfig)
		}
		if cb.ResetTimeout < 0 {
			return fmt.Errorf("%w: circuit breaker reset timeout must not be negative", ErrInvalidConfig)
		}
	}
	return nil
}

func (c *Config) withDefaults() Config {
	out := *c
	out.BaseURL = strings.TrimRight(out.BaseURL, "/")
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.Timeout == 0 {
		out.Timeout = defaultTimeout
	}
	if out.HTTPClient == nil {
		out.HTTPClient = &http.Client{Timeout: out.Timeout}
	}
	if out.UserAgent == "" {
		out.UserAgent = defaultUserAgent
	}
	if out.Logger == nil {
		out.Logger = &NoopLogger{}
	}
	if out.Metrics == nil {
		out.Metrics = &NoopMetrics{}
	}
	return out
}
