// Package echo provides Echo handlers for verified webhook deliveries
package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
)

// EventKey is the echo context key holding the verified *gopay.Event
const EventKey = "gopay:event"

// Config holds middleware configuration
type Config struct {
	// Handler verifies and deduplicates deliveries (required)
	Handler *webhook.Handler

	// OnError is called when a delivery is rejected, duplicates included.
	// If nil, the status from webhook.StatusCode is written as JSON.
	OnError func(c echo.Context, err error) error
}

func (cfg *Config) setDefaults() {
	// Validate required configuration at startup (fail fast)
	if cfg.Handler == nil {
		panic("gopay/echo: Config.Handler is required")
	}
	if cfg.OnError == nil {
		cfg.OnError = func(c echo.Context, err error) error {
			return c.JSON(webhook.StatusCode(err), webhook.ResponseBody(err))
		}
	}
}

// Handler returns an endpoint that processes deliveries through the
// functions registered with cfg.Handler.On.
func Handler(cfg Config) echo.HandlerFunc {
	cfg.setDefaults()
	h := cfg.Handler

	return func(c echo.Context) error {
		if !h.Allow(c.RealIP()) {
			return cfg.OnError(c, webhook.ErrRateLimited)
		}
		body, err := h.ReadBody(c.Response(), c.Request())
		if err != nil {
			return cfg.OnError(c, err)
		}
		_, err = h.Process(c.Request().Context(), body, c.Request().Header.Get(webhook.SignatureHeader))
		if err != nil && webhook.StatusCode(err) != http.StatusOK {
			return cfg.OnError(c, err)
		}
		return c.JSON(http.StatusOK, webhook.ResponseBody(nil))
	}
}

// Middleware verifies and claims the delivery, then stores the event under
// EventKey for the next handler. A 5xx answer or a returned error releases
// the event so the API's retry is processed.
func Middleware(cfg Config) echo.MiddlewareFunc {
	cfg.setDefaults()
	h := cfg.Handler

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !h.Allow(c.RealIP()) {
				return cfg.OnError(c, webhook.ErrRateLimited)
			}
			body, err := h.ReadBody(c.Response(), c.Request())
			if err != nil {
				return cfg.OnError(c, err)
			}
			event, err := h.ConstructEvent(body, c.Request().Header.Get(webhook.SignatureHeader))
			if err != nil {
				return cfg.OnError(c, err)
			}
			ctx := c.Request().Context()
			if err := h.Claim(ctx, event); err != nil {
				return cfg.OnError(c, err)
			}

			c.Set(EventKey, event)
			err = next(c)
			if failed(c, err) {
				h.Release(ctx, event)
			}
			return err
		}
	}
}

// failed reports whether the handler answered, or will answer, with a 5xx.
func failed(c echo.Context, err error) bool {
	if err == nil {
		return c.Response().Status >= http.StatusInternalServerError
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code >= http.StatusInternalServerError
	}
	return true
}

// GetEvent returns the event stored by Middleware
func GetEvent(c echo.Context) (*gopay.Event, bool) {
	event, ok := c.Get(EventKey).(*gopay.Event)
	return event, ok && event != nil
}
