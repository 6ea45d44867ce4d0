// Package fiber provides Fiber handlers for verified webhook deliveries
package fiber

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
)

// EventKey is the fiber locals key holding the verified *gopay.Event
const EventKey = "gopay:event"

// Config holds middleware configuration
type Config struct {
	// Handler verifies and deduplicates deliveries (required)
	Handler *webhook.Handler

	// OnError is called when a delivery is rejected, duplicates included.
	// If nil, the status from webhook.StatusCode is written as JSON.
	OnError func(c *fiber.Ctx, err error) error
}

func (cfg *Config) setDefaults() {
	// Validate required configuration at startup (fail fast)
	if cfg.Handler == nil {
		panic("gopay/fiber: Config.Handler is required")
	}
	if cfg.OnError == nil {
		cfg.OnError = func(c *fiber.Ctx, err error) error {
			return c.Status(webhook.StatusCode(err)).JSON(webhook.ResponseBody(err))
		}
	}
}

// body returns the request body, refusing one over the handler's limit.
// fasthttp has already buffered it, so the limit is checked after the fact.
func body(h *webhook.Handler, c *fiber.Ctx) ([]byte, error) {
	b := c.Body()
	if int64(len(b)) > h.MaxBodyBytes() {
		return nil, fmt.Errorf("%w (max %d bytes)", webhook.ErrPayloadTooLarge, h.MaxBodyBytes())
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty body", webhook.ErrInvalidPayload)
	}
	// The buffer is reused once the handler returns.
	return append([]byte(nil), b...), nil
}

// Handler returns an endpoint that processes deliveries through the
// functions registered with cfg.Handler.On.
func Handler(cfg Config) fiber.Handler {
	cfg.setDefaults()
	h := cfg.Handler

	return func(c *fiber.Ctx) error {
		if !h.Allow(c.IP()) {
			return cfg.OnError(c, webhook.ErrRateLimited)
		}
		payload, err := body(h, c)
		if err != nil {
			return cfg.OnError(c, err)
		}
		_, err = h.Process(c.UserContext(), payload, c.Get(webhook.SignatureHeader))
		if err != nil && webhook.StatusCode(err) != http.StatusOK {
			return cfg.OnError(c, err)
		}
		return c.Status(http.StatusOK).JSON(webhook.ResponseBody(nil))
	}
}

// Middleware verifies and claims the delivery, then stores the event in
// c.Locals under EventKey. A 5xx answer or a returned error releases the
// event so the API's retry is processed.
func Middleware(cfg Config) fiber.Handler {
	cfg.setDefaults()
	h := cfg.Handler

	return func(c *fiber.Ctx) error {
		if !h.Allow(c.IP()) {
			return cfg.OnError(c, webhook.ErrRateLimited)
		}
		payload, err := body(h, c)
		if err != nil {
			return cfg.OnError(c, err)
		}
		event, err := h.ConstructEvent(payload, c.Get(webhook.SignatureHeader))
		if err != nil {
			return cfg.OnError(c, err)
		}
		ctx := c.UserContext()
		if err := h.Claim(ctx, event); err != nil {
			return cfg.OnError(c, err)
		}

		c.Locals(EventKey, event)
		err = c.Next()
		if failed(c, err) {
			h.Release(ctx, event)
		}
		return err
	}
}

// failed reports whether the handler answered, or will answer, with a 5xx.
func failed(c *fiber.Ctx, err error) bool {
	if err == nil {
		return c.Response().StatusCode() >= http.StatusInternalServerError
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code >= http.StatusInternalServerError
	}
	return true
}

// GetEvent returns the event stored by Middleware
func GetEvent(c *fiber.Ctx) (*gopay.Event, bool) {
	event, ok := c.Locals(EventKey).(*gopay.Event)
	return event, ok && event != nil
}
