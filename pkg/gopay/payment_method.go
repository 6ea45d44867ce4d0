package gopay

import (
	"context"
	"iter"
	"net/http"
)

// PaymentMethodType names the kind of instrument behind a payment method.
type PaymentMethodType string

const (
	PaymentMethodTypeCard        PaymentMethodType = "card"
	PaymentMethodTypeCardPresent PaymentMethodType = "card_present"
)

var paymentMethodTypes = []PaymentMethodType{PaymentMethodTypeCard, PaymentMethodTypeCardPresent}

func (t PaymentMethodType) Known() bool { return isKnown(t, paymentMethodTypes) }

func (t PaymentMethodType) MarshalText() ([]byte, error) {
	return marshalEnum("PaymentMethodType", t, paymentMethodTypes)
}

// PaymentMethod is a reusable payment instrument.
type PaymentMethod struct {
	ID             PaymentMethodID                   `json:"id"`
	Object         string                            `json:"object"`
	BillingDetails BillingDetails                    `json:"billing_details"`
	Card           *PaymentMethodCard                `json:"card,omitempty"`
	CardPresent    map[string]any                    `json:"card_present,omitempty"`
	Created        int64                             `json:"created"`
	Customer       *Expandable[CustomerID, Customer] `json:"customer,omitempty"`
	Livemode       bool                              `json:"livemode"`
	Metadata       Metadata                          `json:"metadata,omitempty"`
	Type           PaymentMethodType                 `json:"type"`
}

type paymentMethodFields PaymentMethod

func (pm *PaymentMethod) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "payment_method", (*paymentMethodFields)(pm),
		"id", "billing_details", "created", "livemode", "type")
}

func (pm *PaymentMethod) ObjectID() string   { return string(pm.ID) }
func (pm *PaymentMethod) ObjectType() string { return "payment_method" }

type PaymentMethodCard struct {
	Brand       string                   `json:"brand"`
	Checks      *PaymentMethodCardChecks `json:"checks,omitempty"`
	Country     *string                  `json:"country,omitempty"`
	ExpMonth    int64                    `json:"exp_month"`
	ExpYear     int64                    `json:"exp_year"`
	Fingerprint *string                  `json:"fingerprint,omitempty"`
	Funding     string                   `json:"funding"`
	Last4       string                   `json:"last4"`
}

type PaymentMethodCardChecks struct {
	AddressLine1Check      *string `json:"address_line1_check,omitempty"`
	AddressPostalCodeCheck *string `json:"address_postal_code_check,omitempty"`
	CVCCheck               *string `json:"cvc_check,omitempty"`
}

// PaymentMethodParams creates or updates a payment method. Type is required
// on create; Card takes raw card details or a token.
type PaymentMethodParams struct {
	Params         `form:"*"`
	BillingDetails *BillingDetailsParams    `form:"billing_details"`
	Card           *PaymentMethodCardParams `form:"card"`
	Metadata       Metadata                 `form:"metadata"`
	Type           *PaymentMethodType       `form:"type"`
}

func (p *PaymentMethodParams) Validate() error {
	return checkEnum("PaymentMethodType", p.Type, paymentMethodTypes)
}

type PaymentMethodCardParams struct {
	CVC      *string `form:"cvc"`
	ExpMonth *int64  `form:"exp_month"`
	ExpYear  *int64  `form:"exp_year"`
	Number   *string `form:"number"`
	Token    *string `form:"token"`
}

type PaymentMethodListParams struct {
	ListParams `form:"*"`
	Customer   *string            `form:"customer"`
	Type       *PaymentMethodType `form:"type"`
}

func (p *PaymentMethodListParams) Validate() error {
	return checkEnum("PaymentMethodType", p.Type, paymentMethodTypes)
}

type PaymentMethodAttachParams struct {
	Params   `form:"*"`
	Customer *string `form:"customer"`
}

// PaymentMethodService dispatches the /payment_methods operations.
type PaymentMethodService struct{ service }

func (s *PaymentMethodService) Create(ctx context.Context, params *PaymentMethodParams) (*PaymentMethod, error) {
	pm := &PaymentMethod{}
	if err := s.call(ctx, http.MethodPost, "/payment_methods", params, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

func (s *PaymentMethodService) Retrieve(ctx context.Context, id PaymentMethodID,
	params *Params) (*PaymentMethod, error) {
	pm := &PaymentMethod{}
	if err := s.call(ctx, http.MethodGet, "/payment_methods/{method}", params, pm, string(id)); err != nil {
		return nil, err
	}
	return pm, nil
}

func (s *PaymentMethodService) Update(ctx context.Context, id PaymentMethodID,
	params *PaymentMethodParams) (*PaymentMethod, error) {
	pm := &PaymentMethod{}
	if err := s.call(ctx, http.MethodPost, "/payment_methods/{method}", params, pm, string(id)); err != nil {
		return nil, err
	}
	return pm, nil
}

// List returns one page of a customer's payment methods. Customer and Type
// are required by the service.
func (s *PaymentMethodService) List(ctx context.Context,
	params *PaymentMethodListParams) (*List[PaymentMethod], error) {
	l := &List[PaymentMethod]{}
	if err := s.call(ctx, http.MethodGet, "/payment_methods", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *PaymentMethodService) ListAll(ctx context.Context,
	params *PaymentMethodListParams) iter.Seq2[*PaymentMethod, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[PaymentMethod], error) {
		return s.List(ctx, p)
	})
}

// Attach attaches a payment method to a customer for later reuse.
func (s *PaymentMethodService) Attach(ctx context.Context, id PaymentMethodID,
	params *PaymentMethodAttachParams) (*PaymentMethod, error) {
	pm := &PaymentMethod{}
	if err := s.call(ctx, http.MethodPost, "/payment_methods/{method}/attach", params, pm, string(id)); err != nil {
		return nil, err
	}
	return pm, nil
}

// Detach removes a payment method from its customer. The method can no
// longer be used afterwards.
func (s *PaymentMethodService) Detach(ctx context.Context, id PaymentMethodID,
	params *Params) (*PaymentMethod, error) {
	pm := &PaymentMethod{}
	if err := s.call(ctx, http.MethodPost, "/payment_methods/{method}/detach", params, pm, string(id)); err != nil {
		return nil, err
	}
	return pm, nil
}
