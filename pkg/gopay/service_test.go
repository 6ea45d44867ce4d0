package gopay

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomers_CreateWithEmailOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/customers", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, url.Values{"email": {"jenny@example.com"}}, r.PostForm)

		writeJSON(w, http.StatusOK, `{"id":"cus_1","object":"customer","created":1700000000,`+
			`"delinquent":false,"livemode":false,"email":"jenny@example.com"}`)
	})

	c, err := client.Customers.Create(context.Background(), &CustomerParams{
		Email: String("jenny@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, CustomerID("cus_1"), c.ID)
	require.NotNil(t, c.Email)
	assert.Equal(t, "jenny@example.com", *c.Email)
	assert.Nil(t, c.Name, "fields absent from the response stay nil")
	assert.Nil(t, c.Address)
}

func TestSubscriptions_RetrieveNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/subscriptions/sub_404", r.URL.Path)
		w.Header().Set("Request-Id", "req_123")
		writeJSON(w, http.StatusNotFound, `{"error":{"type":"invalid_request_error",`+
			`"code":"resource_missing","param":"id","message":"No such subscription: 'sub_404'"}}`)
	})

	sub, err := client.Subscriptions.Retrieve(context.Background(), "sub_404", nil)
	require.Error(t, err)
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrAPI)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, ErrorTypeInvalidRequest, apiErr.Type)
	assert.Equal(t, "resource_missing", apiErr.Code)
	assert.Equal(t, "req_123", apiErr.RequestID)
	assert.False(t, apiErr.Temporary())
	assert.Contains(t, apiErr.Error(), "No such subscription")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	})

	_, err := client.Balance.Retrieve(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream timeout", apiErr.Message)
	assert.True(t, apiErr.Temporary())
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestService_MissingIDIsNotSent(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	ctx := context.Background()

	_, err := client.Customers.Retrieve(ctx, "", nil)
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = client.Subscriptions.Cancel(ctx, "", nil)
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = client.PaymentMethods.Attach(ctx, "", &PaymentMethodAttachParams{Customer: String("cus_1")})
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = client.Customers.RetrieveSource(ctx, "cus_1", "")
	assert.ErrorIs(t, err, ErrMissingID)

	assert.Zero(t, hits.Load())
}

func TestService_SchemaError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"object":"customer","created":1,"delinquent":false,"livemode":false}`)
	})

	_, err := client.Customers.Retrieve(context.Background(), "cus_1", nil)
	assert.ErrorIs(t, err, ErrMissingField)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "customer", se.Object)
	assert.Equal(t, "id", se.Field)
}

func TestService_ExpandInlinesObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "customer", r.URL.Query().Get("expand[0]"))
		writeJSON(w, http.StatusOK, `{"id":"sub_1","object":"subscription","billing_cycle_anchor":1,`+
			`"cancel_at_period_end":false,"created":1,"livemode":false,"status":"active",`+
			`"customer":`+customerJSON("cus_1")+`}`)
	})

	params := &Params{}
	params.AddExpand("customer")
	sub, err := client.Subscriptions.Retrieve(context.Background(), "sub_1", params)
	require.NoError(t, err)
	assert.True(t, sub.Customer.Expanded())
	assert.Equal(t, CustomerID("cus_1"), sub.Customer.ID)
	assert.Equal(t, CustomerID("cus_1"), sub.Customer.Object.ID)
}

func TestService_CancelSendsQueryString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("invoice_now"))
		assert.Empty(t, r.Header.Get("Idempotency-Key"))
		writeJSON(w, http.StatusOK, `{"id":"sub_1","object":"subscription","billing_cycle_anchor":1,`+
			`"cancel_at_period_end":false,"created":1,"customer":"cus_1","livemode":false,"status":"canceled"}`)
	})

	sub, err := client.Subscriptions.Cancel(context.Background(), "sub_1", &SubscriptionCancelParams{
		InvoiceNow: Bool(true),
	})
	require.NoError(t, err)
	assert.Equal(t, SubscriptionStatusCanceled, sub.Status)
}

func TestService_DeleteCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/customers/cus_1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"id":"cus_1","object":"customer","deleted":true}`)
	})

	d, err := client.Customers.Delete(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.True(t, d.Deleted)
	assert.Equal(t, CustomerID("cus_1"), d.ID)
}

func TestService_DetachSource(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		deleted bool
	}{
		{"card", `{"id":"card_1","object":"card","deleted":true}`, true},
		{"source", `{"id":"src_1","object":"source","client_secret":"s","created":1,"flow":"none",` +
			`"livemode":false,"status":"consumed","type":"card","usage":"reusable"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasPrefix(r.URL.Path, "/v1/customers/cus_1/sources/"))
				writeJSON(w, http.StatusOK, tt.body)
			})

			d, err := client.Customers.DetachSource(context.Background(), "cus_1", "x_1")
			require.NoError(t, err)
			assert.Equal(t, tt.deleted, d.Deleted != nil)
			assert.Equal(t, !tt.deleted, d.Source != nil)
		})
	}
}

func TestHTTPBackend_Headers(t *testing.T) {
	var got http.Header
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, customerJSON("cus_1"))
	})

	client, err := New(Config{
		APIKey:                 testAPIKey,
		BaseURL:                srv + "/v1/",
		APIVersion:             "2020-08-27",
		UserAgent:              "billing-worker/2.1",
		DisableIdempotencyKeys: true,
	})
	require.NoError(t, err)

	_, err = client.Customers.Update(context.Background(), "cus_1", &CustomerParams{Name: String("Jenny")})
	require.NoError(t, err)
	assert.Equal(t, "2020-08-27", got.Get("Stripe-Version"))
	assert.Equal(t, "billing-worker/2.1", got.Get("User-Agent"))
	assert.Empty(t, got.Get("Idempotency-Key"))

	params := &CustomerParams{Name: String("Jenny")}
	params.SetIdempotencyKey("retry-42")
	_, err = client.Customers.Update(context.Background(), "cus_1", params)
	require.NoError(t, err)
	assert.Equal(t, "retry-42", got.Get("Idempotency-Key"))
}

func TestHTTPBackend_NetworkError(t *testing.T) {
	client, err := New(Config{APIKey: testAPIKey, BaseURL: "http://127.0.0.1:1/v1"})
	require.NoError(t, err)

	c, err := client.Customers.Retrieve(context.Background(), "cus_1", nil)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Nil(t, c)
	assert.False(t, errors.Is(err, ErrAPI))
}
