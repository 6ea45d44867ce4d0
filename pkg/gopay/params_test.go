package gopay

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, params any) url.Values {
	t.Helper()
	values, err := EncodeParams(params)
	require.NoError(t, err)
	if values == nil {
		return url.Values{}
	}
	return values.ToValues()
}

func TestEncodeParams_OmitsUnsetFields(t *testing.T) {
	got := encode(t, &CustomerListParams{ListParams: ListParams{Limit: Int64(2)}})
	assert.Equal(t, url.Values{"limit": {"2"}}, got)

	got = encode(t, &CustomerParams{Email: String("jenny@example.com")})
	assert.Equal(t, url.Values{"email": {"jenny@example.com"}}, got)

	assert.Empty(t, encode(t, &CustomerParams{}))
}

func TestEncodeParams_SendsExplicitZeroValues(t *testing.T) {
	got := encode(t, &CustomerParams{
		Balance:     Int64(0),
		Description: String(""),
	})
	assert.Equal(t, url.Values{"balance": {"0"}, "description": {""}}, got)
}

func TestEncodeParams_Nested(t *testing.T) {
	got := encode(t, &CustomerParams{
		Metadata: Metadata{"order_id": "6735"},
		Address:  &AddressParams{City: String("Berlin")},
		Params:   Params{Expand: []*string{String("default_source")}},
	})
	assert.Equal(t, "6735", got.Get("metadata[order_id]"))
	assert.Equal(t, "Berlin", got.Get("address[city]"))
	assert.Equal(t, "default_source", got.Get("expand[0]"))
}

func TestEncodeParams_RangeQuery(t *testing.T) {
	got := encode(t, &ChargeListParams{
		Created: &RangeQueryParams{GreaterThanOrEqual: Int64(100), LesserThan: Int64(200)},
	})
	assert.Equal(t, url.Values{"created[gte]": {"100"}, "created[lt]": {"200"}}, got)
}

func TestEncodeParams_IdempotencyKeyIsHeaderOnly(t *testing.T) {
	p := &CustomerParams{}
	p.SetIdempotencyKey("key_1")

	assert.Empty(t, encode(t, p))
	assert.Equal(t, "key_1", idempotencyKey(p))
}

func TestEncodeParams_Nil(t *testing.T) {
	values, err := EncodeParams(nil)
	assert.NoError(t, err)
	assert.Nil(t, values)

	var p *CustomerParams
	values, err = EncodeParams(p)
	assert.NoError(t, err)
	assert.Nil(t, values)
	assert.Empty(t, idempotencyKey(p))
}

func TestSubscriptionParams_SharedKeys(t *testing.T) {
	got := encode(t, &SubscriptionParams{
		Customer:               String("cus_1"),
		BillingCycleAnchorMode: Ptr(SubscriptionBillingCycleAnchor("now")),
		TrialEndNow:            Bool(true),
	})
	assert.Equal(t, "cus_1", got.Get("customer"))
	assert.Equal(t, "now", got.Get("billing_cycle_anchor"))
	assert.Equal(t, "now", got.Get("trial_end"))
}

func TestBuildPath(t *testing.T) {
	path, err := buildPath("/customers/{customer}/sources/{source}", "cus_1", "card/1")
	require.NoError(t, err)
	assert.Equal(t, "/customers/cus_1/sources/card%2F1", path)

	_, err = buildPath("/customers/{customer}", " ")
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = buildPath("/customers/{customer}")
	assert.Error(t, err)

	_, err = buildPath("/customers", "cus_1")
	assert.Error(t, err)
}
