// Package webhook receives signed event notifications from the payments API.
//
// A Handler verifies the Stripe-Signature header, decodes the event,
// drops redeliveries of events it already processed and dispatches the rest
// to the functions registered with On:
//
//	h, err := webhook.NewHandler(webhook.Config{Secret: os.Getenv("GOPAY_WEBHOOK_SECRET")})
//	h.On(gopay.EventPaymentIntentSucceeded, func(ctx context.Context, e *gopay.Event) error {
//		pi, err := gopay.DecodeEventObject[gopay.PaymentIntent](e)
//		...
//	})
//	http.Handle("/webhooks", h)
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	stripewebhook "github.com/stripe/stripe-go/v83/webhook"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/internal"
)

const (
	// SignatureHeader carries the timestamped HMAC of the payload.
	SignatureHeader = "Stripe-Signature"

	// DefaultMaxBodyBytes bounds the size of a delivery.
	DefaultMaxBodyBytes int64 = 256 * 1024

	// DefaultRateLimit is the number of deliveries accepted per client IP per minute.
	DefaultRateLimit = 100

	// DefaultDedupTTL is how long processed event ids are remembered. The API
	// retries failed deliveries for up to three days.
	DefaultDedupTTL = 72 * time.Hour

	// AnyEvent registers a handler that runs for every event type.
	AnyEvent = "*"
)

var (
	ErrNotConfigured    = errors.New("webhook secret not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrPayloadTooLarge  = errors.New("webhook payload too large")
	ErrRateLimited      = errors.New("webhook rate limit exceeded")
	ErrDuplicateEvent   = errors.New("webhook event already processed")
	ErrHandlerFailed    = errors.New("webhook handler failed")
	ErrStore            = errors.New("webhook event store error")
)

// EventStore remembers which events were processed so that redeliveries are
// acknowledged without running handlers twice.
type EventStore interface {
	// MarkProcessed records id for ttl. It reports false when id was already
	// recorded and has not expired.
	MarkProcessed(ctx context.Context, id gopay.EventID, ttl time.Duration) (bool, error)

	// Forget removes id so that the next delivery is processed again.
	Forget(ctx context.Context, id gopay.EventID) error
}

// HandlerFunc handles one verified event.
type HandlerFunc func(ctx context.Context, event *gopay.Event) error

// Config holds webhook handler configuration
type Config struct {
	// Secret is the endpoint signing secret, "whsec_..." (required)
	Secret string

	// Tolerance is the maximum age of a signature (default: 5 minutes)
	Tolerance time.Duration

	// Store deduplicates deliveries. If nil, every delivery is processed.
	Store EventStore

	// DedupTTL is how long processed ids are kept in Store (default: 72 hours)
	DedupTTL time.Duration

	// MaxBodyBytes limits the request body (default: 256 KiB)
	MaxBodyBytes int64

	// RateLimit is the number of deliveries per client IP per minute
	// accepted by ServeHTTP (default: 100). Negative disables the limit.
	RateLimit int

	// Logger is used for structured logging (default: NoopLogger)
	Logger gopay.Logger

	// Metrics is used for tracking deliveries (default: NoopMetrics)
	Metrics gopay.Metrics
}

// Handler verifies and dispatches webhook deliveries. It is safe for
// concurrent use.
type Handler struct {
	secret       string
	tolerance    time.Duration
	store        EventStore
	dedupTTL     time.Duration
	maxBodyBytes int64
	limiter      *internal.RateLimiter
	logger       gopay.Logger
	metrics      gopay.Metrics

	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

// NewHandler creates a handler from config.
func NewHandler(config Config) (*Handler, error) {
	if config.Secret == "" {
		return nil, ErrNotConfigured
	}
	if config.Tolerance <= 0 {
		config.Tolerance = stripewebhook.DefaultTolerance
	}
	if config.DedupTTL <= 0 {
		config.DedupTTL = DefaultDedupTTL
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.RateLimit == 0 {
		config.RateLimit = DefaultRateLimit
	}
	if config.Logger == nil {
		config.Logger = &gopay.NoopLogger{}
	}
	if config.Metrics == nil {
		config.Metrics = &gopay.NoopMetrics{}
	}

	h := &Handler{
		secret:       config.Secret,
		tolerance:    config.Tolerance,
		store:        config.Store,
		dedupTTL:     config.DedupTTL,
		maxBodyBytes: config.MaxBodyBytes,
		logger:       config.Logger,
		metrics:      config.Metrics,
		handlers:     make(map[string][]HandlerFunc),
	}
	if config.RateLimit > 0 {
		h.limiter = internal.NewRateLimiter(config.RateLimit, time.Minute)
	}
	return h, nil
}

// On registers fn for eventType. Handlers for the same type run in
// registration order and stop at the first error. Use AnyEvent to match
// every type. Events without a handler are acknowledged.
func (h *Handler) On(eventType string, fn HandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[eventType] = append(h.handlers[eventType], fn)
}

// MaxBodyBytes returns the configured body limit, for adapters that read the
// body themselves.
func (h *Handler) MaxBodyBytes() int64 { return h.maxBodyBytes }

// Allow counts a delivery from ip against the rate limit. A refused delivery
// is recorded.
func (h *Handler) Allow(ip string) bool {
	if h.limiter == nil || h.limiter.Allow(ip) {
		return true
	}
	h.recordError(ErrRateLimited)
	return false
}

// ConstructEvent verifies the signature header against payload and decodes
// the event.
func (h *Handler) ConstructEvent(payload []byte, header string) (*gopay.Event, error) {
	if err := stripewebhook.ValidatePayloadWithTolerance(payload, header, h.secret, h.tolerance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	event := &gopay.Event{}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return event, nil
}

// Claim marks event as processed in the store. It returns ErrDuplicateEvent
// when the event was seen before. Without a store every event is new.
func (h *Handler) Claim(ctx context.Context, event *gopay.Event) error {
	if h.store == nil {
		return nil
	}
	fresh, err := h.store.MarkProcessed(ctx, event.ID, h.dedupTTL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if !fresh {
		return ErrDuplicateEvent
	}
	return nil
}

// Release forgets a claimed event so that its redelivery is processed.
func (h *Handler) Release(ctx context.Context, event *gopay.Event) {
	if h.store == nil {
		return
	}
	if err := h.store.Forget(ctx, event.ID); err != nil {
		h.logger.Error("webhook event release failed",
			gopay.Field{Key: "event_id", Value: string(event.ID)},
			gopay.Field{Key: "error", Value: err.Error()},
		)
	}
}

// Process verifies, deduplicates and dispatches one delivery. The event is
// returned whenever it could be decoded, including with ErrDuplicateEvent.
func (h *Handler) Process(ctx context.Context, payload []byte, header string) (*gopay.Event, error) {
	event, err := h.ConstructEvent(payload, header)
	if err != nil {
		h.recordError(err)
		return nil, err
	}

	if err := h.Claim(ctx, event); err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			h.logger.Debug("webhook event duplicate",
				gopay.Field{Key: "event_id", Value: string(event.ID)},
				gopay.Field{Key: "event_type", Value: event.Type},
			)
			h.metrics.RecordWebhookEvent(event.Type, "duplicate")
			return event, err
		}
		h.recordError(err)
		return event, err
	}

	if err := h.Dispatch(ctx, event); err != nil {
		h.Release(ctx, event)
		h.logger.Warn("webhook handler failed",
			gopay.Field{Key: "event_id", Value: string(event.ID)},
			gopay.Field{Key: "event_type", Value: event.Type},
			gopay.Field{Key: "error", Value: err.Error()},
		)
		h.metrics.RecordWebhookEvent(event.Type, "error")
		return event, fmt.Errorf("%w: %s: %w", ErrHandlerFailed, event.Type, err)
	}

	h.logger.Debug("webhook event processed",
		gopay.Field{Key: "event_id", Value: string(event.ID)},
		gopay.Field{Key: "event_type", Value: event.Type},
	)
	h.metrics.RecordWebhookEvent(event.Type, "success")
	return event, nil
}

// Dispatch runs the functions registered for event's type, then those
// registered for AnyEvent, stopping at the first error.
func (h *Handler) Dispatch(ctx context.Context, event *gopay.Event) error {
	h.mu.RLock()
	fns := append(append([]HandlerFunc(nil), h.handlers[event.Type]...), h.handlers[AnyEvent]...)
	h.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP accepts POST deliveries and answers with the status code the
// API expects: 2xx acknowledges, anything else triggers a retry.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.Allow(ClientIP(r)) {
		Respond(w, ErrRateLimited)
		return
	}

	body, err := h.ReadBody(w, r)
	if err != nil {
		Respond(w, err)
		return
	}

	_, err = h.Process(r.Context(), body, r.Header.Get(SignatureHeader))
	Respond(w, err)
}

// ReadBody reads the delivery body up to the configured limit. Failures wrap
// ErrPayloadTooLarge or ErrInvalidPayload and are recorded.
func (h *Handler) ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := internal.ReadBody(w, r, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, internal.ErrPayloadTooLarge) {
			err = fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
		} else {
			err = fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		h.recordError(err)
		return nil, err
	}
	return body, nil
}

// ClientIP returns the address a delivery came from, preferring the first
// X-Forwarded-For entry.
func ClientIP(r *http.Request) string { return internal.ClientIP(r) }

// Respond writes the JSON acknowledgement or error for err.
func Respond(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	_ = internal.WriteJSON(w, code, ResponseBody(err))
}

// ResponseBody is the JSON body answered for err, for adapters that write
// responses through their own framework.
func ResponseBody(err error) map[string]any {
	code := StatusCode(err)
	if code == http.StatusOK {
		return map[string]any{"received": true}
	}
	return map[string]any{"error": http.StatusText(code)}
}

// StatusCode maps an error returned by Process to the HTTP status the
// endpoint should answer with.
func StatusCode(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrDuplicateEvent):
		return http.StatusOK
	case errors.Is(err, ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorType is the metrics label for a rejected delivery.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrStore):
		return "store_error"
	case errors.Is(err, ErrHandlerFailed):
		return "handler_error"
	default:
		return "unknown"
	}
}

func (h *Handler) recordError(err error) {
	h.metrics.RecordWebhookError(ErrorType(err))
	h.logger.Warn("webhook delivery rejected",
		gopay.Field{Key: "reason", Value: ErrorType(err)},
		gopay.Field{Key: "error", Value: err.Error()},
	)
}
