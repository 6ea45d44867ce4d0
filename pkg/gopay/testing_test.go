package gopay

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testAPIKey = "sk_test_123"

// newTestClient points a client at an httptest server running h.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := New(Config{APIKey: testAPIKey, BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func customerJSON(id string) string {
	return `{"id":"` + id + `","object":"customer","created":1700000000,"delinquent":false,"livemode":false}`
}

// newTestServer starts an httptest server and returns its URL.
func newTestServer(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}
