package gopay

import (
	"context"
	"net/http"
)

// Account is a platform or connected account.
type Account struct {
	ID               AccountID        `json:"id"`
	Object           string           `json:"object"`
	BusinessType     *string          `json:"business_type,omitempty"`
	ChargesEnabled   bool             `json:"charges_enabled"`
	Country          *string          `json:"country,omitempty"`
	Created          *int64           `json:"created,omitempty"`
	DefaultCurrency  *Currency        `json:"default_currency,omitempty"`
	DetailsSubmitted bool             `json:"details_submitted"`
	Email            *string          `json:"email,omitempty"`
	Metadata         Metadata         `json:"metadata,omitempty"`
	PayoutsEnabled   bool             `json:"payouts_enabled"`
	Settings         *AccountSettings `json:"settings,omitempty"`
	Type             *string          `json:"type,omitempty"`
}

type AccountSettings struct {
	Dashboard *AccountDashboardSettings `json:"dashboard,omitempty"`
	Payments  *AccountPaymentsSettings  `json:"payments,omitempty"`
}

type AccountDashboardSettings struct {
	DisplayName *string `json:"display_name,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

type AccountPaymentsSettings struct {
	StatementDescriptor *string `json:"statement_descriptor,omitempty"`
}

type accountFields Account

func (a *Account) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "account", (*accountFields)(a), "id")
}

func (a *Account) ObjectID() string   { return string(a.ID) }
func (a *Account) ObjectType() string { return "account" }

// AccountService reads accounts.
type AccountService struct{ service }

func (s *AccountService) Retrieve(ctx context.Context, id AccountID, params *Params) (*Account, error) {
	a := &Account{}
	if err := s.call(ctx, http.MethodGet, "/accounts/{account}", params, a, string(id)); err != nil {
		return nil, err
	}
	return a, nil
}
