package gopay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83/form"
)

// Backend performs a single API call and decodes the response into v.
type Backend interface {
	Call(ctx context.Context, req *Request, v any) error
}

// Request describes one API call.
type Request struct {
	// Method is GET, POST or DELETE.
	Method string

	// Path is the escaped path below the base URL, e.g. /customers/cus_1.
	Path string

	// Endpoint is the path template, e.g. /customers/{customer}. It is used as
	// the metrics label so ids do not explode cardinality.
	Endpoint string

	// Params are sent as the query string for GET and DELETE and as the
	// form body for POST. Nil means no parameters.
	Params *form.Values

	// IdempotencyKey is sent as the Idempotency-Key header when set.
	IdempotencyKey string
}

// HTTPBackend is the Backend that talks to the API over HTTP.
type HTTPBackend struct {
	config Config
	client *http.Client
	logger Logger
	metric Metrics
}

// NewHTTPBackend creates an HTTP backend from a validated config.
func NewHTTPBackend(config Config) (*HTTPBackend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	return &HTTPBackend{
		config: config,
		client: config.HTTPClient,
		logger: config.Logger,
		metric: config.Metrics,
	}, nil
}

func (b *HTTPBackend) Call(ctx context.Context, req *Request, v any) error {
	httpReq, err := b.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	b.logger.Debug("api request",
		Field{Key: "method", Value: req.Method},
		Field{Key: "path", Value: req.Path},
	)

	resp, err := b.client.Do(httpReq)
	duration := time.Since(start)
	b.metric.RecordAPICallDuration(req.Method, req.Endpoint, duration)
	if err != nil {
		b.metric.RecordAPICall(req.Method, req.Endpoint, "network_error")
		b.logger.Warn("api request failed",
			Field{Key: "method", Value: req.Method},
			Field{Key: "path", Value: req.Path},
			Field{Key: "error", Value: err.Error()},
		)
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, req.Method, req.Path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			b.logger.Debug("response body close failed", Field{Key: "error", Value: closeErr.Error()})
		}
	}()

	b.metric.RecordAPICall(req.Method, req.Endpoint, strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s response: %w", ErrNetwork, req.Method, req.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp, body)
		fields := []Field{
			{Key: "method", Value: req.Method},
			{Key: "path", Value: req.Path},
			{Key: "status", Value: resp.StatusCode},
			{Key: "request_id", Value: apiErr.RequestID},
		}
		if apiErr.Temporary() {
			b.logger.Warn("api server error", fields...)
		} else {
			b.logger.Debug("api client error", fields...)
		}
		return apiErr
	}

	b.logger.Debug("api response",
		Field{Key: "method", Value: req.Method},
		Field{Key: "path", Value: req.Path},
		Field{Key: "status", Value: resp.StatusCode},
		Field{Key: "duration_ms", Value: duration.Milliseconds()},
	)

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.Endpoint, err)
	}
	return nil
}

func (b *HTTPBackend) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := b.config.BaseURL + req.Path

	var body io.Reader
	encoded := ""
	if req.Params != nil && !req.Params.Empty() {
		encoded = req.Params.Encode()
	}
	if req.Method == http.MethodPost {
		body = strings.NewReader(encoded)
	} else if encoded != "" {
		target += "?" + encoded
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", req.Method, req.Path, err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+b.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", b.config.UserAgent)
	if b.config.APIVersion != "" {
		httpReq.Header.Set("Stripe-Version", b.config.APIVersion)
	}
	if req.Method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		key := req.IdempotencyKey
		if key == "" && !b.config.DisableIdempotencyKeys {
			key = uuid.NewString()
		}
		if key != "" {
			httpReq.Header.Set("Idempotency-Key", key)
		}
	}
	return httpReq, nil
}

func decodeAPIError(resp *http.Response, body []byte) *APIError {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	apiErr := &APIError{}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr = envelope.Error
	} else if len(body) > 0 {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.StatusCode = resp.StatusCode
	apiErr.RequestID = resp.Header.Get("Request-Id")
	return apiErr
}
