package gopay

import (
	"context"
	"iter"
	"net/http"
)

// CheckoutSessionMode selects what a hosted checkout page collects.
type CheckoutSessionMode string

const (
	CheckoutSessionModePayment      CheckoutSessionMode = "payment"
	CheckoutSessionModeSetup        CheckoutSessionMode = "setup"
	CheckoutSessionModeSubscription CheckoutSessionMode = "subscription"
)

var checkoutSessionModes = []CheckoutSessionMode{
	CheckoutSessionModePayment, CheckoutSessionModeSetup, CheckoutSessionModeSubscription,
}

func (m CheckoutSessionMode) Known() bool { return isKnown(m, checkoutSessionModes) }

func (m CheckoutSessionMode) MarshalText() ([]byte, error) {
	return marshalEnum("CheckoutSessionMode", m, checkoutSessionModes)
}

// CheckoutSession is a hosted payment page the customer is redirected to.
type CheckoutSession struct {
	ID                       CheckoutSessionID                           `json:"id"`
	Object                   string                                      `json:"object"`
	AmountTotal              *int64                                      `json:"amount_total,omitempty"`
	BillingAddressCollection *string                                     `json:"billing_address_collection,omitempty"`
	CancelURL                *string                                     `json:"cancel_url,omitempty"`
	ClientReferenceID        *string                                     `json:"client_reference_id,omitempty"`
	Currency                 *Currency                                   `json:"currency,omitempty"`
	Customer                 *Expandable[CustomerID, Customer]           `json:"customer,omitempty"`
	CustomerEmail            *string                                     `json:"customer_email,omitempty"`
	Livemode                 bool                                        `json:"livemode"`
	Locale                   *string                                     `json:"locale,omitempty"`
	Metadata                 Metadata                                    `json:"metadata,omitempty"`
	Mode                     CheckoutSessionMode                         `json:"mode"`
	PaymentIntent            *Expandable[PaymentIntentID, PaymentIntent] `json:"payment_intent,omitempty"`
	PaymentMethodTypes       []string                                    `json:"payment_method_types"`
	PaymentStatus            *string                                     `json:"payment_status,omitempty"`
	SetupIntent              *Expandable[SetupIntentID, SetupIntent]     `json:"setup_intent,omitempty"`
	Status                   *string                                     `json:"status,omitempty"`
	Subscription             *Expandable[SubscriptionID, Subscription]   `json:"subscription,omitempty"`
	SuccessURL               *string                                     `json:"success_url,omitempty"`
	URL                      *string                                     `json:"url,omitempty"`
}

type checkoutSessionFields CheckoutSession

func (cs *CheckoutSession) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "checkout.session", (*checkoutSessionFields)(cs),
		"id", "livemode", "mode", "payment_method_types")
}

func (cs *CheckoutSession) ObjectID() string   { return string(cs.ID) }
func (cs *CheckoutSession) ObjectType() string { return "checkout.session" }

// CheckoutSessionParams creates a session. SuccessURL and CancelURL are
// required; line items may name a price or describe an ad hoc product.
type CheckoutSessionParams struct {
	Params                   `form:"*"`
	BillingAddressCollection *string                                 `form:"billing_address_collection"`
	CancelURL                *string                                 `form:"cancel_url"`
	ClientReferenceID        *string                                 `form:"client_reference_id"`
	Customer                 *string                                 `form:"customer"`
	CustomerEmail            *string                                 `form:"customer_email"`
	LineItems                []*CheckoutSessionLineItemParams        `form:"line_items"`
	Locale                   *string                                 `form:"locale"`
	Metadata                 Metadata                                `form:"metadata"`
	Mode                     *CheckoutSessionMode                    `form:"mode"`
	PaymentIntentData        *CheckoutSessionPaymentIntentDataParams `form:"payment_intent_data"`
	PaymentMethodTypes       []*string                               `form:"payment_method_types"`
	SubscriptionData         *CheckoutSessionSubscriptionDataParams  `form:"subscription_data"`
	SuccessURL               *string                                 `form:"success_url"`
}

func (p *CheckoutSessionParams) Validate() error {
	if err := checkEnum("CheckoutSessionMode", p.Mode, checkoutSessionModes); err != nil {
		return err
	}
	if d := p.PaymentIntentData; d != nil {
		if err := checkEnum("CaptureMethod", d.CaptureMethod, captureMethods); err != nil {
			return err
		}
	}
	for _, li := range p.LineItems {
		if li != nil && li.PriceData != nil {
			if err := checkCurrency(li.PriceData.Currency); err != nil {
				return err
			}
		}
	}
	return nil
}

type CheckoutSessionLineItemParams struct {
	Price     *string                                 `form:"price"`
	PriceData *CheckoutSessionLineItemPriceDataParams `form:"price_data"`
	Quantity  *int64                                  `form:"quantity"`
}

type CheckoutSessionLineItemPriceDataParams struct {
	Currency    *Currency                                 `form:"currency"`
	ProductData *CheckoutSessionLineItemProductDataParams `form:"product_data"`
	UnitAmount  *int64                                    `form:"unit_amount"`
}

type CheckoutSessionLineItemProductDataParams struct {
	Description *string   `form:"description"`
	Images      []*string `form:"images"`
	Name        *string   `form:"name"`
}

type CheckoutSessionPaymentIntentDataParams struct {
	CaptureMethod *CaptureMethod `form:"capture_method"`
	Description   *string        `form:"description"`
	Metadata      Metadata       `form:"metadata"`
	ReceiptEmail  *string        `form:"receipt_email"`
}

type CheckoutSessionSubscriptionDataParams struct {
	Metadata        Metadata `form:"metadata"`
	TrialEnd        *int64   `form:"trial_end"`
	TrialPeriodDays *int64   `form:"trial_period_days"`
}

type CheckoutSessionListParams struct {
	ListParams    `form:"*"`
	Customer      *string `form:"customer"`
	PaymentIntent *string `form:"payment_intent"`
	Subscription  *string `form:"subscription"`
}

// CheckoutSessionService dispatches the /checkout/sessions operations.
type CheckoutSessionService struct{ service }

func (s *CheckoutSessionService) Create(ctx context.Context,
	params *CheckoutSessionParams) (*CheckoutSession, error) {
	cs := &CheckoutSession{}
	if err := s.call(ctx, http.MethodPost, "/checkout/sessions", params, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *CheckoutSessionService) Retrieve(ctx context.Context, id CheckoutSessionID,
	params *Params) (*CheckoutSession, error) {
	cs := &CheckoutSession{}
	if err := s.call(ctx, http.MethodGet, "/checkout/sessions/{session}", params, cs, string(id)); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *CheckoutSessionService) List(ctx context.Context,
	params *CheckoutSessionListParams) (*List[CheckoutSession], error) {
	l := &List[CheckoutSession]{}
	if err := s.call(ctx, http.MethodGet, "/checkout/sessions", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CheckoutSessionService) ListAll(ctx context.Context,
	params *CheckoutSessionListParams) iter.Seq2[*CheckoutSession, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[CheckoutSession], error) {
		return s.List(ctx, p)
	})
}
