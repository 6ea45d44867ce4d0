package gopay

import (
	"context"
	"net/http"
)

// Balance is the account's funds per currency, split by availability.
type Balance struct {
	Object          string          `json:"object"`
	Available       []BalanceAmount `json:"available"`
	ConnectReserved []BalanceAmount `json:"connect_reserved,omitempty"`
	Livemode        bool            `json:"livemode"`
	Pending         []BalanceAmount `json:"pending"`
}

type BalanceAmount struct {
	Amount      int64            `json:"amount"`
	Currency    Currency         `json:"currency"`
	SourceTypes map[string]int64 `json:"source_types,omitempty"`
}

type balanceFields Balance

func (b *Balance) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "balance", (*balanceFields)(b), "available", "livemode", "pending")
}

// ObjectID is empty: the balance is a singleton of the account.
func (b *Balance) ObjectID() string   { return "" }
func (b *Balance) ObjectType() string { return "balance" }

// BalanceService reads the account balance.
type BalanceService struct{ service }

func (s *BalanceService) Retrieve(ctx context.Context, params *Params) (*Balance, error) {
	b := &Balance{}
	if err := s.call(ctx, http.MethodGet, "/balance", params, b); err != nil {
		return nil, err
	}
	return b, nil
}
