package gopay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriptionWithItem(item string) []byte {
	return []byte(`{"id":"sub_1","object":"subscription","billing_cycle_anchor":1,"cancel_at_period_end":false,` +
		`"created":1,"customer":"cus_1","livemode":false,"status":"active",` +
		`"items":{"object":"list","has_more":false,"url":"/v1/subscription_items","data":[` + item + `]}}`)
}

func TestSubscription_DecodesItems(t *testing.T) {
	sub := &Subscription{}
	err := json.Unmarshal(subscriptionWithItem(`{"id":"si_1","object":"subscription_item","created":1,`+
		`"subscription":"sub_1","quantity":2,"price":{"id":"price_1","object":"price","active":true,`+
		`"currency":"eur","product":"prod_1","unit_amount":900,"recurring":{"interval":"month","interval_count":1}}}`), sub)
	require.NoError(t, err)

	require.NotNil(t, sub.Items)
	require.Len(t, sub.Items.Data, 1)
	item := sub.Items.Data[0]
	assert.Equal(t, SubscriptionItemID("si_1"), item.ID)
	assert.Equal(t, SubscriptionID("sub_1"), item.Subscription)
	assert.Equal(t, "si_1", sub.Items.Cursor())
	require.NotNil(t, item.Price)
	assert.Equal(t, CurrencyEUR, item.Price.Currency)
	assert.Equal(t, "price", item.Price.ObjectType())
}

func TestSubscription_ItemMissingRequiredField(t *testing.T) {
	tests := []struct {
		name   string
		item   string
		object string
		field  string
	}{
		{"item without subscription", `{"id":"si_1","object":"subscription_item","created":1}`,
			"subscription_item", "subscription"},
		{"item without id", `{"object":"subscription_item","created":1,"subscription":"sub_1"}`,
			"subscription_item", "id"},
		{"price without currency", `{"id":"si_1","object":"subscription_item","created":1,"subscription":"sub_1",` +
			`"price":{"id":"price_1","object":"price","active":true,"product":"prod_1"}}`,
			"price", "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal(subscriptionWithItem(tt.item), &Subscription{})
			assert.ErrorIs(t, err, ErrMissingField)

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.object, se.Object)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}
