package gin

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gongin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimyh/gopay/pkg/gopay"
	"github.com/mihaimyh/gopay/pkg/gopay/webhook"
	"github.com/mihaimyh/gopay/storage/memory"
)

const testSecret = "whsec_test"

func init() {
	gongin.SetMode(gongin.TestMode)
}

func setupTestHandler(t *testing.T) (*webhook.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	h, err := webhook.NewHandler(webhook.Config{Secret: testSecret, Store: store})
	require.NoError(t, err)
	return h, store
}

func signedRequest(id string) *http.Request {
	payload := []byte(fmt.Sprintf(`{"id":%q,"object":"event","created":1700000000,"livemode":false,`+
		`"type":"charge.succeeded","data":{"object":{"id":"ch_1","object":"charge"}}}`, id))
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	req := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(payload))
	req.Header.Set(webhook.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func TestHandler(t *testing.T) {
	h, _ := setupTestHandler(t)
	calls := 0
	h.On(gopay.EventChargeSucceeded, func(context.Context, *gopay.Event) error {
		calls++
		return nil
	})

	r := gongin.New()
	r.POST("/webhooks", Handler(Config{Handler: h}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedRequest("evt_1"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":true}`, w.Body.String())
	}
	assert.Equal(t, 1, calls, "redelivery must not run handlers again")
}

func TestHandler_InvalidSignature(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := gongin.New()
	r.POST("/webhooks", Handler(Config{Handler: h}))

	req := signedRequest("evt_1")
	req.Header.Set(webhook.SignatureHeader, "t=1,v1=00")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_HandlerError(t *testing.T) {
	h, store := setupTestHandler(t)
	h.On(webhook.AnyEvent, func(context.Context, *gopay.Event) error {
		return errors.New("boom")
	})

	r := gongin.New()
	r.POST("/webhooks", Handler(Config{Handler: h}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("evt_1"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, store.Len())
}

func TestMiddleware(t *testing.T) {
	h, store := setupTestHandler(t)

	r := gongin.New()
	r.POST("/webhooks", Middleware(Config{Handler: h}), func(c *gongin.Context) {
		event, ok := GetEvent(c)
		if !ok {
			c.Status(http.StatusBadRequest)
			return
		}
		if event.ID == "evt_fail" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gongin.H{"id": event.ID})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("evt_ok"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"evt_ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("evt_ok"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("evt_fail"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, store.Len(), "failed event must be released")
}

func TestConfig_PanicsWithoutHandler(t *testing.T) {
	assert.Panics(t, func() { Handler(Config{}) })
	assert.Panics(t, func() { Middleware(Config{}) })
}
