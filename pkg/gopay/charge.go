package gopay

import (
	"context"
	"iter"
	"net/http"
)

type ChargeStatus string

const (
	ChargeStatusFailed    ChargeStatus = "failed"
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusSucceeded ChargeStatus = "succeeded"
)

var chargeStatuses = []ChargeStatus{ChargeStatusFailed, ChargeStatusPending, ChargeStatusSucceeded}

func (s ChargeStatus) Known() bool { return isKnown(s, chargeStatuses) }

func (s ChargeStatus) MarshalText() ([]byte, error) {
	return marshalEnum("ChargeStatus", s, chargeStatuses)
}

// Charge is a single attempt to move money from a payment source.
type Charge struct {
	ID                  ChargeID                                              `json:"id"`
	Object              string                                                `json:"object"`
	Amount              int64                                                 `json:"amount"`
	AmountCaptured      *int64                                                `json:"amount_captured,omitempty"`
	AmountRefunded      int64                                                 `json:"amount_refunded"`
	ApplicationFee      *Expandable[ApplicationFeeID, ApplicationFee]         `json:"application_fee,omitempty"`
	BalanceTransaction  *Expandable[BalanceTransactionID, BalanceTransaction] `json:"balance_transaction,omitempty"`
	BillingDetails      *BillingDetails                                       `json:"billing_details,omitempty"`
	Captured            bool                                                  `json:"captured"`
	Created             int64                                                 `json:"created"`
	Currency            Currency                                              `json:"currency"`
	Customer            *Expandable[CustomerID, Customer]                     `json:"customer,omitempty"`
	Description         *string                                               `json:"description,omitempty"`
	FailureCode         *string                                               `json:"failure_code,omitempty"`
	FailureMessage      *string                                               `json:"failure_message,omitempty"`
	Livemode            bool                                                  `json:"livemode"`
	Metadata            Metadata                                              `json:"metadata,omitempty"`
	Outcome             *ChargeOutcome                                        `json:"outcome,omitempty"`
	Paid                bool                                                  `json:"paid"`
	PaymentIntent       *Expandable[PaymentIntentID, PaymentIntent]           `json:"payment_intent,omitempty"`
	PaymentMethod       *PaymentMethodID                                      `json:"payment_method,omitempty"`
	ReceiptEmail        *string                                               `json:"receipt_email,omitempty"`
	ReceiptURL          *string                                               `json:"receipt_url,omitempty"`
	Refunded            bool                                                  `json:"refunded"`
	Review              *Expandable[ReviewID, Review]                         `json:"review,omitempty"`
	Shipping            *Shipping                                             `json:"shipping,omitempty"`
	Source              *PaymentSource                                        `json:"source,omitempty"`
	StatementDescriptor *string                                               `json:"statement_descriptor,omitempty"`
	Status              ChargeStatus                                          `json:"status"`
	TransferGroup       *string                                               `json:"transfer_group,omitempty"`
}

type ChargeOutcome struct {
	NetworkStatus *string `json:"network_status,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	RiskLevel     *string `json:"risk_level,omitempty"`
	RiskScore     *int64  `json:"risk_score,omitempty"`
	SellerMessage *string `json:"seller_message,omitempty"`
	Type          string  `json:"type"`
}

type chargeFields Charge

func (c *Charge) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "charge", (*chargeFields)(c),
		"id", "amount", "amount_refunded", "captured", "created", "currency", "livemode", "paid", "refunded", "status")
}

func (c *Charge) ObjectID() string   { return string(c.ID) }
func (c *Charge) ObjectType() string { return "charge" }
func (c *Charge) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindCharge, ID: string(c.ID)}
}
func (*Charge) balanceTransactionSource() {}

// ChargeParams creates or updates a charge. Amount, Currency and one of
// Customer or Source are required on create.
type ChargeParams struct {
	Params               `form:"*"`
	Amount               *int64          `form:"amount"`
	ApplicationFeeAmount *int64          `form:"application_fee_amount"`
	Capture              *bool           `form:"capture"`
	Currency             *Currency       `form:"currency"`
	Customer             *string         `form:"customer"`
	Description          *string         `form:"description"`
	Metadata             Metadata        `form:"metadata"`
	OnBehalfOf           *string         `form:"on_behalf_of"`
	ReceiptEmail         *string         `form:"receipt_email"`
	Shipping             *ShippingParams `form:"shipping"`
	Source               *string         `form:"source"`
	StatementDescriptor  *string         `form:"statement_descriptor"`
	TransferGroup        *string         `form:"transfer_group"`
}

func (p *ChargeParams) Validate() error { return checkCurrency(p.Currency) }

type ChargeCaptureParams struct {
	Params               `form:"*"`
	Amount               *int64  `form:"amount"`
	ApplicationFeeAmount *int64  `form:"application_fee_amount"`
	ReceiptEmail         *string `form:"receipt_email"`
	StatementDescriptor  *string `form:"statement_descriptor"`
}

type ChargeListParams struct {
	ListParams    `form:"*"`
	Created       *RangeQueryParams `form:"created"`
	Customer      *string           `form:"customer"`
	PaymentIntent *string           `form:"payment_intent"`
	TransferGroup *string           `form:"transfer_group"`
}

// ChargeService dispatches the /charges operations.
type ChargeService struct{ service }

func (s *ChargeService) Create(ctx context.Context, params *ChargeParams) (*Charge, error) {
	c := &Charge{}
	if err := s.call(ctx, http.MethodPost, "/charges", params, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChargeService) Retrieve(ctx context.Context, id ChargeID, params *Params) (*Charge, error) {
	c := &Charge{}
	if err := s.call(ctx, http.MethodGet, "/charges/{charge}", params, c, string(id)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChargeService) Update(ctx context.Context, id ChargeID, params *ChargeParams) (*Charge, error) {
	c := &Charge{}
	if err := s.call(ctx, http.MethodPost, "/charges/{charge}", params, c, string(id)); err != nil {
		return nil, err
	}
	return c, nil
}

// Capture captures a charge created with Capture set to false.
func (s *ChargeService) Capture(ctx context.Context, id ChargeID, params *ChargeCaptureParams) (*Charge, error) {
	c := &Charge{}
	if err := s.call(ctx, http.MethodPost, "/charges/{charge}/capture", params, c, string(id)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChargeService) List(ctx context.Context, params *ChargeListParams) (*List[Charge], error) {
	l := &List[Charge]{}
	if err := s.call(ctx, http.MethodGet, "/charges", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ChargeService) ListAll(ctx context.Context, params *ChargeListParams) iter.Seq2[*Charge, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[Charge], error) {
		return s.List(ctx, p)
	})
}
