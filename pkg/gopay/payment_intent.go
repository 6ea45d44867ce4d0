package gopay

import (
	"context"
	"errors"
	"iter"
	"net/http"
)

// PaymentIntentStatus is the state of a payment intent.
type PaymentIntentStatus string

const (
	PaymentIntentStatusCanceled              PaymentIntentStatus = "canceled"
	PaymentIntentStatusProcessing            PaymentIntentStatus = "processing"
	PaymentIntentStatusRequiresAction        PaymentIntentStatus = "requires_action"
	PaymentIntentStatusRequiresCapture       PaymentIntentStatus = "requires_capture"
	PaymentIntentStatusRequiresConfirmation  PaymentIntentStatus = "requires_confirmation"
	PaymentIntentStatusRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	PaymentIntentStatusSucceeded             PaymentIntentStatus = "succeeded"
)

var paymentIntentStatuses = []PaymentIntentStatus{
	PaymentIntentStatusCanceled, PaymentIntentStatusProcessing, PaymentIntentStatusRequiresAction,
	PaymentIntentStatusRequiresCapture, PaymentIntentStatusRequiresConfirmation,
	PaymentIntentStatusRequiresPaymentMethod, PaymentIntentStatusSucceeded,
}

func (s PaymentIntentStatus) Known() bool { return isKnown(s, paymentIntentStatuses) }

func (s PaymentIntentStatus) MarshalText() ([]byte, error) {
	return marshalEnum("PaymentIntentStatus", s, paymentIntentStatuses)
}

// PaymentIntentCancellationReason explains why a payment intent was canceled.
type PaymentIntentCancellationReason string

const (
	PaymentIntentCancellationReasonAbandoned           PaymentIntentCancellationReason = "abandoned"
	PaymentIntentCancellationReasonAutomatic           PaymentIntentCancellationReason = "automatic"
	PaymentIntentCancellationReasonDuplicate           PaymentIntentCancellationReason = "duplicate"
	PaymentIntentCancellationReasonFailedInvoice       PaymentIntentCancellationReason = "failed_invoice"
	PaymentIntentCancellationReasonFraudulent          PaymentIntentCancellationReason = "fraudulent"
	PaymentIntentCancellationReasonRequestedByCustomer PaymentIntentCancellationReason = "requested_by_customer"
	PaymentIntentCancellationReasonVoidInvoice         PaymentIntentCancellationReason = "void_invoice"
)

var paymentIntentCancellationReasons = []PaymentIntentCancellationReason{
	PaymentIntentCancellationReasonAbandoned, PaymentIntentCancellationReasonAutomatic,
	PaymentIntentCancellationReasonDuplicate, PaymentIntentCancellationReasonFailedInvoice,
	PaymentIntentCancellationReasonFraudulent, PaymentIntentCancellationReasonRequestedByCustomer,
	PaymentIntentCancellationReasonVoidInvoice,
}

func (r PaymentIntentCancellationReason) Known() bool {
	return isKnown(r, paymentIntentCancellationReasons)
}

func (r PaymentIntentCancellationReason) MarshalText() ([]byte, error) {
	return marshalEnum("PaymentIntentCancellationReason", r, paymentIntentCancellationReasons)
}

// CaptureMethod controls whether funds are captured on confirmation or later.
type CaptureMethod string

const (
	CaptureMethodAutomatic CaptureMethod = "automatic"
	CaptureMethodManual    CaptureMethod = "manual"
)

var captureMethods = []CaptureMethod{CaptureMethodAutomatic, CaptureMethodManual}

func (m CaptureMethod) Known() bool { return isKnown(m, captureMethods) }

func (m CaptureMethod) MarshalText() ([]byte, error) {
	return marshalEnum("CaptureMethod", m, captureMethods)
}

// ConfirmationMethod controls who may confirm a payment intent.
type ConfirmationMethod string

const (
	ConfirmationMethodAutomatic ConfirmationMethod = "automatic"
	ConfirmationMethodManual    ConfirmationMethod = "manual"
)

var confirmationMethods = []ConfirmationMethod{ConfirmationMethodAutomatic, ConfirmationMethodManual}

func (m ConfirmationMethod) Known() bool { return isKnown(m, confirmationMethods) }

func (m ConfirmationMethod) MarshalText() ([]byte, error) {
	return marshalEnum("ConfirmationMethod", m, confirmationMethods)
}

// NextActionType tells the integration what the customer must do next.
type NextActionType string

const (
	NextActionTypeRedirectToURL NextActionType = "redirect_to_url"
	NextActionTypeUseStripeSDK  NextActionType = "use_stripe_sdk"
)

var nextActionTypes = []NextActionType{NextActionTypeRedirectToURL, NextActionTypeUseStripeSDK}

func (t NextActionType) Known() bool { return isKnown(t, nextActionTypes) }

func (t NextActionType) MarshalText() ([]byte, error) {
	return marshalEnum("NextActionType", t, nextActionTypes)
}

// PaymentIntent tracks one attempt to collect a payment from a customer.
type PaymentIntent struct {
	ID                   PaymentIntentID                             `json:"id"`
	Object               string                                      `json:"object"`
	Amount               int64                                       `json:"amount"`
	AmountCapturable     *int64                                      `json:"amount_capturable,omitempty"`
	AmountReceived       *int64                                      `json:"amount_received,omitempty"`
	ApplicationFeeAmount *int64                                      `json:"application_fee_amount,omitempty"`
	CanceledAt           *int64                                      `json:"canceled_at,omitempty"`
	CancellationReason   *PaymentIntentCancellationReason            `json:"cancellation_reason,omitempty"`
	CaptureMethod        CaptureMethod                               `json:"capture_method"`
	ClientSecret         *string                                     `json:"client_secret,omitempty"`
	ConfirmationMethod   ConfirmationMethod                          `json:"confirmation_method"`
	Created              int64                                       `json:"created"`
	Currency             Currency                                    `json:"currency"`
	Customer             *Expandable[CustomerID, Customer]           `json:"customer,omitempty"`
	Description          *string                                     `json:"description,omitempty"`
	LastPaymentError     *PaymentError                               `json:"last_payment_error,omitempty"`
	LatestCharge         *Expandable[ChargeID, Charge]               `json:"latest_charge,omitempty"`
	Livemode             bool                                        `json:"livemode"`
	Metadata             Metadata                                    `json:"metadata,omitempty"`
	NextAction           *PaymentIntentNextAction                    `json:"next_action,omitempty"`
	OnBehalfOf           *Expandable[AccountID, Account]             `json:"on_behalf_of,omitempty"`
	PaymentMethod        *Expandable[PaymentMethodID, PaymentMethod] `json:"payment_method,omitempty"`
	PaymentMethodTypes   []string                                    `json:"payment_method_types"`
	ReceiptEmail         *string                                     `json:"receipt_email,omitempty"`
	Review               *Expandable[ReviewID, Review]               `json:"review,omitempty"`
	Shipping             *Shipping                                   `json:"shipping,omitempty"`
	StatementDescriptor  *string                                     `json:"statement_descriptor,omitempty"`
	Status               PaymentIntentStatus                         `json:"status"`
	TransferData         *PaymentIntentTransferData                  `json:"transfer_data,omitempty"`
	TransferGroup        *string                                     `json:"transfer_group,omitempty"`
}

type paymentIntentFields PaymentIntent

func (pi *PaymentIntent) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "payment_intent", (*paymentIntentFields)(pi),
		"id", "amount", "capture_method", "confirmation_method", "created", "currency", "livemode",
		"payment_method_types", "status")
}

func (pi *PaymentIntent) ObjectID() string   { return string(pi.ID) }
func (pi *PaymentIntent) ObjectType() string { return "payment_intent" }

// PaymentError is the last error seen while attempting a payment.
type PaymentError struct {
	Type        ErrorType `json:"type"`
	Charge      *string   `json:"charge,omitempty"`
	Code        *string   `json:"code,omitempty"`
	DeclineCode *string   `json:"decline_code,omitempty"`
	DocURL      *string   `json:"doc_url,omitempty"`
	Message     *string   `json:"message,omitempty"`
	Param       *string   `json:"param,omitempty"`
}

type PaymentIntentNextAction struct {
	Type          NextActionType                   `json:"type"`
	RedirectToURL *PaymentIntentNextActionRedirect `json:"redirect_to_url,omitempty"`
}

type PaymentIntentNextActionRedirect struct {
	ReturnURL *string `json:"return_url,omitempty"`
	URL       *string `json:"url,omitempty"`
}

type PaymentIntentTransferData struct {
	Amount      *int64                         `json:"amount,omitempty"`
	Destination Expandable[AccountID, Account] `json:"destination"`
}

// PaymentIntentParams is used to create and update payment intents. Amount
// and Currency are required on create.
type PaymentIntentParams struct {
	Params               `form:"*"`
	Amount               *int64                           `form:"amount"`
	ApplicationFeeAmount *int64                           `form:"application_fee_amount"`
	CaptureMethod        *CaptureMethod                   `form:"capture_method"`
	Confirm              *bool                            `form:"confirm"`
	ConfirmationMethod   *ConfirmationMethod              `form:"confirmation_method"`
	Currency             *Currency                        `form:"currency"`
	Customer             *string                          `form:"customer"`
	Description          *string                          `form:"description"`
	Metadata             Metadata                         `form:"metadata"`
	OnBehalfOf           *string                          `form:"on_behalf_of"`
	PaymentMethod        *string                          `form:"payment_method"`
	PaymentMethodTypes   []*string                        `form:"payment_method_types"`
	ReceiptEmail         *string                          `form:"receipt_email"`
	ReturnURL            *string                          `form:"return_url"`
	SetupFutureUsage     *string                          `form:"setup_future_usage"`
	Shipping             *ShippingParams                  `form:"shipping"`
	StatementDescriptor  *string                          `form:"statement_descriptor"`
	TransferData         *PaymentIntentTransferDataParams `form:"transfer_data"`
	TransferGroup        *string                          `form:"transfer_group"`
}

func (p *PaymentIntentParams) Validate() error {
	return errors.Join(
		checkEnum("CaptureMethod", p.CaptureMethod, captureMethods),
		checkEnum("ConfirmationMethod", p.ConfirmationMethod, confirmationMethods),
		checkCurrency(p.Currency),
	)
}

type PaymentIntentTransferDataParams struct {
	Amount      *int64  `form:"amount"`
	Destination *string `form:"destination"`
}

type PaymentIntentConfirmParams struct {
	Params           `form:"*"`
	PaymentMethod    *string         `form:"payment_method"`
	ReceiptEmail     *string         `form:"receipt_email"`
	ReturnURL        *string         `form:"return_url"`
	SetupFutureUsage *string         `form:"setup_future_usage"`
	Shipping         *ShippingParams `form:"shipping"`
}

type PaymentIntentCaptureParams struct {
	Params               `form:"*"`
	AmountToCapture      *int64 `form:"amount_to_capture"`
	ApplicationFeeAmount *int64 `form:"application_fee_amount"`
}

type PaymentIntentCancelParams struct {
	Params             `form:"*"`
	CancellationReason *PaymentIntentCancellationReason `form:"cancellation_reason"`
}

func (p *PaymentIntentCancelParams) Validate() error {
	return checkEnum("PaymentIntentCancellationReason", p.CancellationReason, paymentIntentCancellationReasons)
}

type PaymentIntentListParams struct {
	ListParams `form:"*"`
	Created    *RangeQueryParams `form:"created"`
	Customer   *string           `form:"customer"`
}

// PaymentIntentService dispatches the /payment_intents operations.
type PaymentIntentService struct{ service }

func (s *PaymentIntentService) Create(ctx context.Context, params *PaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{}
	if err := s.call(ctx, http.MethodPost, "/payment_intents", params, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

func (s *PaymentIntentService) Retrieve(ctx context.Context, id PaymentIntentID,
	params *Params) (*PaymentIntent, error) {
	pi := &PaymentIntent{}
	if err := s.call(ctx, http.MethodGet, "/payment_intents/{intent}", params, pi, string(id)); err != nil {
		return nil, err
	}
	return pi, nil
}

func (s *PaymentIntentService) Update(ctx context.Context, id PaymentIntentID,
	params *PaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{}
	if err := s.call(ctx, http.MethodPost, "/payment_intents/{intent}", params, pi, string(id)); err != nil {
		return nil, err
	}
	return pi, nil
}

// Confirm attempts to collect the payment with the attached payment method.
func (s *PaymentIntentService) Confirm(ctx context.Context, id PaymentIntentID,
	params *PaymentIntentConfirmParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{}
	if err := s.call(ctx, http.MethodPost, "/payment_intents/{intent}/confirm", params, pi, string(id)); err != nil {
		return nil, err
	}
	return pi, nil
}

// Capture captures the funds of an intent in requires_capture status.
func (s *PaymentIntentService) Capture(ctx context.Context, id PaymentIntentID,
	params *PaymentIntentCaptureParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{}
	if err := s.call(ctx, http.MethodPost, "/payment_intents/{intent}/capture", params, pi, string(id)); err != nil {
		return nil, err
	}
	return pi, nil
}

func (s *PaymentIntentService) Cancel(ctx context.Context, id PaymentIntentID,
	params *PaymentIntentCancelParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{}
	if err := s.call(ctx, http.MethodPost, "/payment_intents/{intent}/cancel", params, pi, string(id)); err != nil {
		return nil, err
	}
	return pi, nil
}

func (s *PaymentIntentService) List(ctx context.Context,
	params *PaymentIntentListParams) (*List[PaymentIntent], error) {
	l := &List[PaymentIntent]{}
	if err := s.call(ctx, http.MethodGet, "/payment_intents", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *PaymentIntentService) ListAll(ctx context.Context,
	params *PaymentIntentListParams) iter.Seq2[*PaymentIntent, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[PaymentIntent], error) {
		return s.List(ctx, p)
	})
}
