// Package http provides net/http middleware for verified webhook deliveries
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
)

// Config holds middleware configuration
type Config struct {
	// Handler verifies and deduplicates deliveries (required)
	Handler *webhook.Handler

	// OnError is called when a delivery is rejected before reaching the next
	// handler, duplicates included. If nil, the status from
	// webhook.StatusCode is written with a JSON body.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware creates middleware that verifies the signature of each delivery,
// drops redeliveries and stores the decoded event in the request context for
// next. When next answers with a 5xx status the event is released so that
// the API's retry is processed.
func Middleware(config Config) func(http.Handler) http.Handler {
	if config.Handler == nil {
		panic("gopay/http: Config.Handler is required")
	}
	if config.OnError == nil {
		config.OnError = func(w http.ResponseWriter, _ *http.Request, err error) {
			webhook.Respond(w, err)
		}
	}
	h := config.Handler

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.Header().Set("Allow", http.MethodPost)
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			if !h.Allow(webhook.ClientIP(r)) {
				config.OnError(w, r, webhook.ErrRateLimited)
				return
			}

			body, err := h.ReadBody(w, r)
			if err != nil {
				config.OnError(w, r, err)
				return
			}

			event, err := h.ConstructEvent(body, r.Header.Get(webhook.SignatureHeader))
			if err != nil {
				config.OnError(w, r, err)
				return
			}

			ctx := r.Context()
			if err := h.Claim(ctx, event); err != nil {
				config.OnError(w, r, err)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(NewContext(ctx, event)))
			if rec.status >= http.StatusInternalServerError {
				h.Release(ctx, event)
			}
		})
	}
}

// HandlerFunc creates the middleware for a http.HandlerFunc
func HandlerFunc(config Config) func(http.HandlerFunc) http.HandlerFunc {
	middleware := Middleware(config)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return middleware(next).ServeHTTP
	}
}

// Dispatch returns a handler that runs the webhook.Handler's registered
// functions for the event in the request context. Use it as the next handler
// when routing should still happen through webhook.Handler.On.
func Dispatch(h *webhook.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, ok := FromContext(r.Context())
		if !ok {
			webhook.Respond(w, webhook.ErrInvalidPayload)
			return
		}
		err := h.Dispatch(r.Context(), event)
		if err != nil {
			err = errors.Join(webhook.ErrHandlerFailed, err)
		}
		webhook.Respond(w, err)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// ContextKey is a type for context keys
type ContextKey string

// EventKey is the context key for the verified event
const EventKey ContextKey = "gopay:event"

// NewContext returns a copy of ctx carrying event
func NewContext(ctx context.Context, event *gopay.Event) context.Context {
	return context.WithValue(ctx, EventKey, event)
}

// FromContext returns the verified event stored by Middleware
func FromContext(ctx context.Context) (*gopay.Event, bool) {
	event, ok := ctx.Value(EventKey).(*gopay.Event)
	return event, ok && event != nil
}
