package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

func customerJSON(id string) string {
	return `{"id":"` + id + `","object":"customer","created":1700000000,"delinquent":false,"livemode":false}`
}

// run executes the CLI against an httptest server running h.
func run(t *testing.T, h http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--base-url", srv.URL + "/v1"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCustomersGet_Many(t *testing.T) {
	t.Setenv("GOPAY_API_KEY", "sk_test_env")

	out, err := run(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_env", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customerJSON(strings.TrimPrefix(r.URL.Path, "/v1/customers/"))))
	}, "customers", "get", "cus_1", "cus_2", "cus_3")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	for i, id := range []string{"cus_1", "cus_2", "cus_3"} {
		assert.Equal(t, id, got[i]["id"])
	}
}

func TestCustomersList_All(t *testing.T) {
	t.Setenv("GOPAY_API_KEY", "sk_test_env")

	out, err := run(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("starting_after") == "" {
			_, _ = w.Write([]byte(`{"object":"list","has_more":true,"data":[` +
				customerJSON("cus_1") + `,` + customerJSON("cus_2") + `]}`))
			return
		}
		assert.Equal(t, "cus_2", r.URL.Query().Get("starting_after"))
		_, _ = w.Write([]byte(`{"object":"list","has_more":false,"data":[` + customerJSON("cus_3") + `]}`))
	}, "customers", "list", "--limit", "2", "--all")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 3)
}

func TestSubscriptionsGet_NotFound(t *testing.T) {
	t.Setenv("GOPAY_API_KEY", "sk_test_env")

	out, err := run(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing",` +
			`"message":"No such subscription: 'sub_404'"}}`))
	}, "subscriptions", "get", "sub_404")

	assert.ErrorIs(t, err, gopay.ErrNotFound)
	assert.Empty(t, out)
}

func TestFlagOverridesEnv(t *testing.T) {
	t.Setenv("GOPAY_API_KEY", "sk_test_env")

	_, err := run(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_flag", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-06-20", r.Header.Get("Stripe-Version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"balance","available":[],"pending":[],"livemode":false}`))
	}, "--api-key", "sk_test_flag", "--api-version", "2024-06-20", "balance")
	require.NoError(t, err)
}

func TestEnvFile(t *testing.T) {
	t.Setenv("GOPAY_API_KEY", "")
	require.NoError(t, os.Unsetenv("GOPAY_API_KEY"))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GOPAY_API_KEY=sk_test_dotenv\n"), 0o600))

	_, err := run(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_dotenv", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(customerJSON("cus_1")))
	}, "--env-file", path, "customers", "get", "cus_1")
	require.NoError(t, err)
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("GOPAY_API_KEY", "")

	_, err := run(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, "balance")
	assert.ErrorIs(t, err, gopay.ErrInvalidConfig)
}
