// Package gin provides Gin handlers for verified webhook deliveries
package gin

import (
	"net/http"

	gongin "github.com/gin-gonic/gin"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
)

// EventKey is the gin context key holding the verified *gopay.Event
const EventKey = "gopay:event"

// Config holds middleware configuration
type Config struct {
	// Handler verifies and deduplicates deliveries (required)
	Handler *webhook.Handler

	// OnError is called when a delivery is rejected, duplicates included.
	// If nil, the status from webhook.StatusCode is written as JSON.
	OnError func(c *gongin.Context, err error)
}

func (config *Config) setDefaults(pkg string) {
	if config.Handler == nil {
		panic(pkg + ": Config.Handler is required")
	}
	if config.OnError == nil {
		config.OnError = func(c *gongin.Context, err error) {
			c.JSON(webhook.StatusCode(err), webhook.ResponseBody(err))
		}
	}
}

// Handler returns an endpoint that processes deliveries through the
// functions registered with config.Handler.On.
func Handler(config Config) gongin.HandlerFunc {
	config.setDefaults("gopay/gin")
	h := config.Handler

	return func(c *gongin.Context) {
		if !h.Allow(c.ClientIP()) {
			config.OnError(c, webhook.ErrRateLimited)
			return
		}
		body, err := h.ReadBody(c.Writer, c.Request)
		if err != nil {
			config.OnError(c, err)
			return
		}
		_, err = h.Process(c.Request.Context(), body, c.GetHeader(webhook.SignatureHeader))
		if err != nil && webhook.StatusCode(err) != http.StatusOK {
			config.OnError(c, err)
			return
		}
		c.JSON(http.StatusOK, webhook.ResponseBody(nil))
	}
}

// Middleware verifies and claims the delivery, then stores the event under
// EventKey for the handlers that follow. A 5xx answer from them releases the
// event so the API's retry is processed.
func Middleware(config Config) gongin.HandlerFunc {
	config.setDefaults("gopay/gin")
	h := config.Handler

	return func(c *gongin.Context) {
		if !h.Allow(c.ClientIP()) {
			config.OnError(c, webhook.ErrRateLimited)
			c.Abort()
			return
		}
		body, err := h.ReadBody(c.Writer, c.Request)
		if err != nil {
			config.OnError(c, err)
			c.Abort()
			return
		}
		event, err := h.ConstructEvent(body, c.GetHeader(webhook.SignatureHeader))
		if err != nil {
			config.OnError(c, err)
			c.Abort()
			return
		}
		ctx := c.Request.Context()
		if err := h.Claim(ctx, event); err != nil {
			config.OnError(c, err)
			c.Abort()
			return
		}

		c.Set(EventKey, event)
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			h.Release(ctx, event)
		}
	}
}

// GetEvent returns the event stored by Middleware
func GetEvent(c *gongin.Context) (*gopay.Event, bool) {
	v, ok := c.Get(EventKey)
	if !ok {
		return nil, false
	}
	event, ok := v.(*gopay.Event)
	return event, ok && event != nil
}
