package fiber

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
	"github.com/mihaimyh/gopay/storage/memory"
)

const testSecret = "whsec_test"

// Test helper to create a webhook handler backed by a memory store
func setupTestHandler(t *testing.T, config webhook.Config) (*webhook.Handler, *memory.Store) {
	t.Helper()

	store := memory.New()
	config.Secret = testSecret
	config.Store = store
	h, err := webhook.NewHandler(config)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	return h, store
}

func signedRequest(id string) *http.Request {
	payload := []byte(fmt.Sprintf(`{"id":%q,"object":"event","created":1700000000,"livemode":false,`+
		`"type":"setup_intent.succeeded","data":{"object":{"id":"seti_1","object":"setup_intent"}}}`, id))
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	req := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(payload))
	req.Header.Set(webhook.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func TestHandler_Success(t *testing.T) {
	h, _ := setupTestHandler(t, webhook.Config{})
	calls := 0
	h.On(gopay.EventSetupIntentSucceeded, func(context.Context, *gopay.Event) error {
		calls++
		return nil
	})

	app := fiber.New()
	app.Post("/webhooks", Handler(Config{Handler: h}))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(signedRequest("evt_1"))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Delivery %d: expected status 200, got %d", i, resp.StatusCode)
		}
	}
	if calls != 1 {
		t.Errorf("Expected handler to run once, ran %d times", calls)
	}
}

func TestHandler_PayloadTooLarge(t *testing.T) {
	h, _ := setupTestHandler(t, webhook.Config{MaxBodyBytes: 32})

	app := fiber.New()
	app.Post("/webhooks", Handler(Config{Handler: h}))

	resp, err := app.Test(signedRequest("evt_1"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", resp.StatusCode)
	}
}

func TestHandler_InvalidSignature(t *testing.T) {
	h, _ := setupTestHandler(t, webhook.Config{})

	app := fiber.New()
	app.Post("/webhooks", Handler(Config{Handler: h}))

	req := signedRequest("evt_1")
	req.Header.Set(webhook.SignatureHeader, "t=1,v1=00")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "error") {
		t.Errorf("Expected JSON error body, got %s", string(body))
	}
}

func TestMiddleware_ReleasesOnFailure(t *testing.T) {
	h, store := setupTestHandler(t, webhook.Config{})

	app := fiber.New()
	app.Use(Middleware(Config{Handler: h}))
	app.Post("/webhooks", func(c *fiber.Ctx) error {
		event, ok := GetEvent(c)
		if !ok {
			return fiber.ErrBadRequest
		}
		if event.ID == "evt_fail" {
			return fiber.ErrServiceUnavailable
		}
		return c.SendString(string(event.ID))
	})

	resp, err := app.Test(signedRequest("evt_ok"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "evt_ok" {
		t.Errorf("Expected 'evt_ok', got %s", string(body))
	}

	resp, err = app.Test(signedRequest("evt_fail"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}
	if store.Len() != 1 {
		t.Errorf("Expected only evt_ok to stay claimed, store has %d", store.Len())
	}
}

func TestMiddleware_PanicsWithoutHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing Handler")
		}
	}()
	Middleware(Config{})
}
