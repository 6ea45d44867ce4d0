package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
	"github.com/mihaimyh/gopay/storage/memory"
)

const testSecret = "whsec_test"

// Test helper to create a webhook handler backed by a memory store
func setupTestHandler(t *testing.T) (*webhook.Handler, *memory.Store) {
	t.Helper()

	store := memory.New()
	h, err := webhook.NewHandler(webhook.Config{Secret: testSecret, Store: store})
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	return h, store
}

// Test helper to build a signed delivery
func signedRequest(t *testing.T, id string) *http.Request {
	t.Helper()

	payload := []byte(fmt.Sprintf(`{"id":%q,"object":"event","created":1700000000,"livemode":false,`+
		`"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`, id))
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	req := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(payload))
	req.Header.Set(webhook.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func TestMiddleware_Success(t *testing.T) {
	h, _ := setupTestHandler(t)

	var got *gopay.Event
	handler := Middleware(Config{Handler: h})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "evt_1"))

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if got == nil || got.ID != "evt_1" {
		t.Fatalf("Expected event evt_1 in context, got %+v", got)
	}
	if got.DataObjectType() != "payment_intent" {
		t.Errorf("Expected payment_intent data, got %q", got.DataObjectType())
	}
}

func TestMiddleware_InvalidSignature(t *testing.T) {
	h, _ := setupTestHandler(t)

	called := false
	handler := Middleware(Config{Handler: h})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := signedRequest(t, "evt_1")
	req.Header.Set(webhook.SignatureHeader, "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if called {
		t.Error("Next handler must not run for an unsigned delivery")
	}
}

func TestMiddleware_Duplicate(t *testing.T) {
	h, _ := setupTestHandler(t)

	calls := 0
	handler := Middleware(Config{Handler: h})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, signedRequest(t, "evt_dup"))
		if w.Code != http.StatusOK {
			t.Errorf("Delivery %d: expected status 200, got %d", i, w.Code)
		}
	}
	if calls != 1 {
		t.Errorf("Expected next handler to run once, ran %d times", calls)
	}
}

func TestMiddleware_ServerErrorReleasesEvent(t *testing.T) {
	h, store := setupTestHandler(t)

	handler := Middleware(Config{Handler: h})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "evt_1"))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if store.Len() != 0 {
		t.Errorf("Expected event to be released, store has %d", store.Len())
	}
}

func TestMiddleware_CustomOnError(t *testing.T) {
	h, _ := setupTestHandler(t)

	var gotErr error
	mw := Middleware(Config{
		Handler: h,
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			gotErr = err
			w.WriteHeader(http.StatusTeapot)
		},
	})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", w.Code)
	}
	if webhook.StatusCode(gotErr) != http.StatusUnauthorized {
		t.Errorf("Expected signature error, got %v", gotErr)
	}
}

func TestMiddleware_MethodNotAllowed(t *testing.T) {
	h, _ := setupTestHandler(t)
	handler := Middleware(Config{Handler: h})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhooks", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
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

func TestDispatch(t *testing.T) {
	h, store := setupTestHandler(t)

	fail := true
	h.On(gopay.EventPaymentIntentSucceeded, func(ctx context.Context, e *gopay.Event) error {
		if fail {
			return fmt.Errorf("ledger unavailable")
		}
		return nil
	})
	handler := HandlerFunc(Config{Handler: h})(Dispatch(h).ServeHTTP)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "evt_1"))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if store.Len() != 0 {
		t.Errorf("Expected failed event to be released")
	}

	fail = false
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "evt_1"))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 on retry, got %d", w.Code)
	}
}
