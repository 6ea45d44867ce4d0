package gopay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  Currency
	}{
		{"usd", CurrencyUSD},
		{"USD", CurrencyUSD},
		{" Eur ", CurrencyEUR},
		{"btc", CurrencyBTC},
		{"jpy", CurrencyJPY},
	}

	for _, tt := range tests {
		got, err := ParseCurrency(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseCurrency_Unknown(t *testing.T) {
	for _, input := range []string{"", "xyz", "usdollar", "us", " usd", "usd\n", "\tEUR "} {
		_, err := ParseCurrency(input)
		assert.ErrorIs(t, err, ErrUnknownCurrency, input)

		var pe *ParseCurrencyError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, input, pe.Input)
	}
}

func TestCurrency_RoundTrip(t *testing.T) {
	for _, c := range Currencies() {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Currency
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}
}

func TestCurrency_JSON(t *testing.T) {
	var v struct {
		Currency Currency `json:"currency"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"currency":"GBP"}`), &v))
	assert.Equal(t, CurrencyGBP, v.Currency)

	err := json.Unmarshal([]byte(`{"currency":"zzz"}`), &v)
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = json.Marshal(struct{ C Currency }{C: "zzz"})
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestCurrencies_ReturnsCopy(t *testing.T) {
	all := Currencies()
	all[0] = "zzz"
	assert.True(t, Currencies()[0].Known())
}
