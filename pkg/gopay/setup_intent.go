package gopay

import (
	"context"
	"iter"
	"net/http"
)

type SetupIntentStatus string

const (
	SetupIntentStatusCanceled              SetupIntentStatus = "canceled"
	SetupIntentStatusProcessing            SetupIntentStatus = "processing"
	SetupIntentStatusRequiresAction        SetupIntentStatus = "requires_action"
	SetupIntentStatusRequiresConfirmation  SetupIntentStatus = "requires_confirmation"
	SetupIntentStatusRequiresPaymentMethod SetupIntentStatus = "requires_payment_method"
	SetupIntentStatusSucceeded             SetupIntentStatus = "succeeded"
)

var setupIntentStatuses = []SetupIntentStatus{
	SetupIntentStatusCanceled, SetupIntentStatusProcessing, SetupIntentStatusRequiresAction,
	SetupIntentStatusRequiresConfirmation, SetupIntentStatusRequiresPaymentMethod, SetupIntentStatusSucceeded,
}

func (s SetupIntentStatus) Known() bool { return isKnown(s, setupIntentStatuses) }

func (s SetupIntentStatus) MarshalText() ([]byte, error) {
	return marshalEnum("SetupIntentStatus", s, setupIntentStatuses)
}

// SetupIntentUsage says whether the saved method will be charged with the
// customer present or not.
type SetupIntentUsage string

const (
	SetupIntentUsageOffSession SetupIntentUsage = "off_session"
	SetupIntentUsageOnSession  SetupIntentUsage = "on_session"
)

var setupIntentUsages = []SetupIntentUsage{SetupIntentUsageOffSession, SetupIntentUsageOnSession}

func (u SetupIntentUsage) Known() bool { return isKnown(u, setupIntentUsages) }

func (u SetupIntentUsage) MarshalText() ([]byte, error) {
	return marshalEnum("SetupIntentUsage", u, setupIntentUsages)
}

type SetupIntentCancellationReason string

const (
	SetupIntentCancellationReasonAbandoned           SetupIntentCancellationReason = "abandoned"
	SetupIntentCancellationReasonDuplicate           SetupIntentCancellationReason = "duplicate"
	SetupIntentCancellationReasonRequestedByCustomer SetupIntentCancellationReason = "requested_by_customer"
)

var setupIntentCancellationReasons = []SetupIntentCancellationReason{
	SetupIntentCancellationReasonAbandoned, SetupIntentCancellationReasonDuplicate,
	SetupIntentCancellationReasonRequestedByCustomer,
}

func (r SetupIntentCancellationReason) Known() bool { return isKnown(r, setupIntentCancellationReasons) }

func (r SetupIntentCancellationReason) MarshalText() ([]byte, error) {
	return marshalEnum("SetupIntentCancellationReason", r, setupIntentCancellationReasons)
}

// SetupIntent collects and saves payment credentials for future payments
// without charging the customer.
type SetupIntent struct {
	ID                 SetupIntentID                               `json:"id"`
	Object             string                                      `json:"object"`
	Application        *string                                     `json:"application,omitempty"`
	CancellationReason *SetupIntentCancellationReason              `json:"cancellation_reason,omitempty"`
	ClientSecret       *string                                     `json:"client_secret,omitempty"`
	Created            int64                                       `json:"created"`
	Customer           *Expandable[CustomerID, Customer]           `json:"customer,omitempty"`
	Description        *string                                     `json:"description,omitempty"`
	LastSetupError     *PaymentError                               `json:"last_setup_error,omitempty"`
	Livemode           bool                                        `json:"livemode"`
	Metadata           Metadata                                    `json:"metadata,omitempty"`
	NextAction         *PaymentIntentNextAction                    `json:"next_action,omitempty"`
	OnBehalfOf         *Expandable[AccountID, Account]             `json:"on_behalf_of,omitempty"`
	PaymentMethod      *Expandable[PaymentMethodID, PaymentMethod] `json:"payment_method,omitempty"`
	PaymentMethodTypes []string                                    `json:"payment_method_types"`
	Status             SetupIntentStatus                           `json:"status"`
	Usage              SetupIntentUsage                            `json:"usage"`
}

type setupIntentFields SetupIntent

func (si *SetupIntent) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "setup_intent", (*setupIntentFields)(si),
		"id", "created", "livemode", "payment_method_types", "status", "usage")
}

func (si *SetupIntent) ObjectID() string   { return string(si.ID) }
func (si *SetupIntent) ObjectType() string { return "setup_intent" }

type SetupIntentParams struct {
	Params             `form:"*"`
	Confirm            *bool             `form:"confirm"`
	Customer           *string           `form:"customer"`
	Description        *string           `form:"description"`
	Metadata           Metadata          `form:"metadata"`
	OnBehalfOf         *string           `form:"on_behalf_of"`
	PaymentMethod      *string           `form:"payment_method"`
	PaymentMethodTypes []*string         `form:"payment_method_types"`
	ReturnURL          *string           `form:"return_url"`
	Usage              *SetupIntentUsage `form:"usage"`
}

func (p *SetupIntentParams) Validate() error {
	return checkEnum("SetupIntentUsage", p.Usage, setupIntentUsages)
}

type SetupIntentConfirmParams struct {
	Params        `form:"*"`
	PaymentMethod *string `form:"payment_method"`
	ReturnURL     *string `form:"return_url"`
}

type SetupIntentCancelParams struct {
	Params             `form:"*"`
	CancellationReason *SetupIntentCancellationReason `form:"cancellation_reason"`
}

func (p *SetupIntentCancelParams) Validate() error {
	return checkEnum("SetupIntentCancellationReason", p.CancellationReason, setupIntentCancellationReasons)
}

type SetupIntentListParams struct {
	ListParams    `form:"*"`
	Created       *RangeQueryParams `form:"created"`
	Customer      *string           `form:"customer"`
	PaymentMethod *string           `form:"payment_method"`
}

// SetupIntentService dispatches the /setup_intents operations.
type SetupIntentService struct{ service }

func (s *SetupIntentService) Create(ctx context.Context, params *SetupIntentParams) (*SetupIntent, error) {
	si := &SetupIntent{}
	if err := s.call(ctx, http.MethodPost, "/setup_intents", params, si); err != nil {
		return nil, err
	}
	return si, nil
}

func (s *SetupIntentService) Retrieve(ctx context.Context, id SetupIntentID, params *Params) (*SetupIntent, error) {
	si := &SetupIntent{}
	if err := s.call(ctx, http.MethodGet, "/setup_intents/{intent}", params, si, string(id)); err != nil {
		return nil, err
	}
	return si, nil
}

func (s *SetupIntentService) Update(ctx context.Context, id SetupIntentID,
	params *SetupIntentParams) (*SetupIntent, error) {
	si := &SetupIntent{}
	if err := s.call(ctx, http.MethodPost, "/setup_intents/{intent}", params, si, string(id)); err != nil {
		return nil, err
	}
	return si, nil
}

func (s *SetupIntentService) Confirm(ctx context.Context, id SetupIntentID,
	params *SetupIntentConfirmParams) (*SetupIntent, error) {
	si := &SetupIntent{}
	if err := s.call(ctx, http.MethodPost, "/setup_intents/{intent}/confirm", params, si, string(id)); err != nil {
		return nil, err
	}
	return si, nil
}

func (s *SetupIntentService) Cancel(ctx context.Context, id SetupIntentID,
	params *SetupIntentCancelParams) (*SetupIntent, error) {
	si := &SetupIntent{}
	if err := s.call(ctx, http.MethodPost, "/setup_intents/{intent}/cancel", params, si, string(id)); err != nil {
		return nil, err
	}
	return si, nil
}

func (s *SetupIntentService) List(ctx context.Context, params *SetupIntentListParams) (*List[SetupIntent], error) {
	l := &List[SetupIntent]{}
	if err := s.call(ctx, http.MethodGet, "/setup_intents", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SetupIntentService) ListAll(ctx context.Context,
	params *SetupIntentListParams) iter.Seq2[*SetupIntent, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[SetupIntent], error) {
		return s.List(ctx, p)
	})
}
