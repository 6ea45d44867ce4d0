package gopay

import (
	"context"
	"iter"
	"net/http"

	"github.com/stripe/stripe-go/v83/form"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive, SubscriptionStatusCanceled, SubscriptionStatusIncomplete,
	SubscriptionStatusIncompleteExpired, SubscriptionStatusPastDue, SubscriptionStatusTrialing,
	SubscriptionStatusUnpaid,
}

func (s SubscriptionStatus) Known() bool { return isKnown(s, subscriptionStatuses) }

func (s SubscriptionStatus) MarshalText() ([]byte, error) {
	return marshalEnum("SubscriptionStatus", s, subscriptionStatuses)
}

// SubscriptionStatusFilter narrows a subscription listing. It accepts every
// status plus "all" and "ended".
type SubscriptionStatusFilter string

const (
	SubscriptionStatusFilterActive            SubscriptionStatusFilter = "active"
	SubscriptionStatusFilterAll               SubscriptionStatusFilter = "all"
	SubscriptionStatusFilterCanceled          SubscriptionStatusFilter = "canceled"
	SubscriptionStatusFilterEnded             SubscriptionStatusFilter = "ended"
	SubscriptionStatusFilterIncomplete        SubscriptionStatusFilter = "incomplete"
	SubscriptionStatusFilterIncompleteExpired SubscriptionStatusFilter = "incomplete_expired"
	SubscriptionStatusFilterPastDue           SubscriptionStatusFilter = "past_due"
	SubscriptionStatusFilterTrialing          SubscriptionStatusFilter = "trialing"
	SubscriptionStatusFilterUnpaid            SubscriptionStatusFilter = "unpaid"
)

var subscriptionStatusFilters = []SubscriptionStatusFilter{
	SubscriptionStatusFilterActive, SubscriptionStatusFilterAll, SubscriptionStatusFilterCanceled,
	SubscriptionStatusFilterEnded, SubscriptionStatusFilterIncomplete,
	SubscriptionStatusFilterIncompleteExpired, SubscriptionStatusFilterPastDue,
	SubscriptionStatusFilterTrialing, SubscriptionStatusFilterUnpaid,
}

func (s SubscriptionStatusFilter) Known() bool { return isKnown(s, subscriptionStatusFilters) }

func (s SubscriptionStatusFilter) MarshalText() ([]byte, error) {
	return marshalEnum("SubscriptionStatusFilter", s, subscriptionStatusFilters)
}

// SubscriptionCollectionMethod controls how invoices are paid.
type SubscriptionCollectionMethod string

const (
	SubscriptionCollectionMethodChargeAutomatically SubscriptionCollectionMethod = "charge_automatically"
	SubscriptionCollectionMethodSendInvoice         SubscriptionCollectionMethod = "send_invoice"
)

var subscriptionCollectionMethods = []SubscriptionCollectionMethod{
	SubscriptionCollectionMethodChargeAutomatically, SubscriptionCollectionMethodSendInvoice,
}

func (m SubscriptionCollectionMethod) Known() bool { return isKnown(m, subscriptionCollectionMethods) }

func (m SubscriptionCollectionMethod) MarshalText() ([]byte, error) {
	return marshalEnum("SubscriptionCollectionMethod", m, subscriptionCollectionMethods)
}

// SubscriptionBillingCycleAnchor resets or keeps the billing cycle on update.
type SubscriptionBillingCycleAnchor string

const (
	SubscriptionBillingCycleAnchorNow       SubscriptionBillingCycleAnchor = "now"
	SubscriptionBillingCycleAnchorUnchanged SubscriptionBillingCycleAnchor = "unchanged"
)

var subscriptionBillingCycleAnchors = []SubscriptionBillingCycleAnchor{
	SubscriptionBillingCycleAnchorNow, SubscriptionBillingCycleAnchorUnchanged,
}

func (a SubscriptionBillingCycleAnchor) Known() bool { return isKnown(a, subscriptionBillingCycleAnchors) }

func (a SubscriptionBillingCycleAnchor) MarshalText() ([]byte, error) {
	return marshalEnum("SubscriptionBillingCycleAnchor", a, subscriptionBillingCycleAnchors)
}

// Subscription bills a customer on a recurring schedule.
type Subscription struct {
	ID                    SubscriptionID                              `json:"id"`
	Object                string                                      `json:"object"`
	ApplicationFeePercent *float64                                    `json:"application_fee_percent,omitempty"`
	BillingCycleAnchor    int64                                       `json:"billing_cycle_anchor"`
	CancelAt              *int64                                      `json:"cancel_at,omitempty"`
	CancelAtPeriodEnd     bool                                        `json:"cancel_at_period_end"`
	CanceledAt            *int64                                      `json:"canceled_at,omitempty"`
	CollectionMethod      *SubscriptionCollectionMethod               `json:"collection_method,omitempty"`
	Created               int64                                       `json:"created"`
	CurrentPeriodEnd      *int64                                      `json:"current_period_end,omitempty"`
	CurrentPeriodStart    *int64                                      `json:"current_period_start,omitempty"`
	Customer              Expandable[CustomerID, Customer]            `json:"customer"`
	DaysUntilDue          *int64                                      `json:"days_until_due,omitempty"`
	DefaultPaymentMethod  *Expandable[PaymentMethodID, PaymentMethod] `json:"default_payment_method,omitempty"`
	DefaultSource         *Expandable[PaymentSourceID, PaymentSource] `json:"default_source,omitempty"`
	Discount              *Discount                                   `json:"discount,omitempty"`
	EndedAt               *int64                                      `json:"ended_at,omitempty"`
	Items                 *List[SubscriptionItem]                     `json:"items,omitempty"`
	LatestInvoice         *string                                     `json:"latest_invoice,omitempty"`
	Livemode              bool                                        `json:"livemode"`
	Metadata              Metadata                                    `json:"metadata,omitempty"`
	Quantity              *int64                                      `json:"quantity,omitempty"`
	StartDate             *int64                                      `json:"start_date,omitempty"`
	Status                SubscriptionStatus                          `json:"status"`
	TrialEnd              *int64                                      `json:"trial_end,omitempty"`
	TrialStart            *int64                                      `json:"trial_start,omitempty"`
}

type subscriptionFields Subscription

func (s *Subscription) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "subscription", (*subscriptionFields)(s),
		"id", "billing_cycle_anchor", "cancel_at_period_end", "created", "customer", "livemode", "status")
}

func (s *Subscription) ObjectID() string   { return string(s.ID) }
func (s *Subscription) ObjectType() string { return "subscription" }

// SubscriptionItem is one price line of a subscription.
type SubscriptionItem struct {
	ID           SubscriptionItemID `json:"id"`
	Object       string             `json:"object"`
	Created      int64              `json:"created"`
	Metadata     Metadata           `json:"metadata,omitempty"`
	Price        *Price             `json:"price,omitempty"`
	Quantity     *int64             `json:"quantity,omitempty"`
	Subscription SubscriptionID     `json:"subscription"`
}

type subscriptionItemFields SubscriptionItem

func (i *SubscriptionItem) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "subscription_item", (*subscriptionItemFields)(i), "id", "created", "subscription")
}

func (i *SubscriptionItem) ObjectID() string   { return string(i.ID) }
func (i *SubscriptionItem) ObjectType() string { return "subscription_item" }

// Price is the amount and interval billed for a subscription item.
type Price struct {
	ID         PriceID        `json:"id"`
	Object     string         `json:"object"`
	Active     bool           `json:"active"`
	Currency   Currency       `json:"currency"`
	Nickname   *string        `json:"nickname,omitempty"`
	Product    string         `json:"product"`
	Recurring  *PriceInterval `json:"recurring,omitempty"`
	UnitAmount *int64         `json:"unit_amount,omitempty"`
}

type priceFields Price

func (p *Price) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "price", (*priceFields)(p), "id", "active", "currency")
}

func (p *Price) ObjectID() string   { return string(p.ID) }
func (p *Price) ObjectType() string { return "price" }

type PriceInterval struct {
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"interval_count"`
}

// SubscriptionParams is used to create and update subscriptions.
// Customer is required on create and ignored on update.
type SubscriptionParams struct {
	Params                 `form:"*"`
	ApplicationFeePercent  *float64                        `form:"application_fee_percent"`
	BillingCycleAnchor     *int64                          `form:"billing_cycle_anchor"`
	CancelAt               *int64                          `form:"cancel_at"`
	CancelAtPeriodEnd      *bool                           `form:"cancel_at_period_end"`
	CollectionMethod       *SubscriptionCollectionMethod   `form:"collection_method"`
	Coupon                 *string                         `form:"coupon"`
	Customer               *string                         `form:"customer"`
	DaysUntilDue           *int64                          `form:"days_until_due"`
	DefaultPaymentMethod   *string                         `form:"default_payment_method"`
	DefaultSource          *string                         `form:"default_source"`
	DefaultTaxRates        []*string                       `form:"default_tax_rates"`
	Items                  []*SubscriptionItemsParams      `form:"items"`
	Metadata               Metadata                        `form:"metadata"`
	ProrationBehavior      *string                         `form:"proration_behavior"`
	ProrationDate          *int64                          `form:"proration_date"`
	BillingCycleAnchorMode *SubscriptionBillingCycleAnchor `form:"-"`
	TrialEnd               *int64                          `form:"trial_end"`
	TrialEndNow            *bool                           `form:"-"`
	TrialFromPlan          *bool                           `form:"trial_from_plan"`
	TrialPeriodDays        *int64                          `form:"trial_period_days"`
}

func (p *SubscriptionParams) Validate() error {
	if err := checkEnum("SubscriptionCollectionMethod", p.CollectionMethod, subscriptionCollectionMethods); err != nil {
		return err
	}
	return checkEnum("SubscriptionBillingCycleAnchor", p.BillingCycleAnchorMode, subscriptionBillingCycleAnchors)
}

// AppendTo encodes the fields that share a key with a timestamp:
// billing_cycle_anchor=now|unchanged and trial_end=now.
func (p *SubscriptionParams) AppendTo(body *form.Values, keyParts []string) {
	if p.BillingCycleAnchorMode != nil {
		body.Add(form.FormatKey(append(keyParts, "billing_cycle_anchor")), string(*p.BillingCycleAnchorMode))
	}
	if p.TrialEndNow != nil && *p.TrialEndNow {
		body.Add(form.FormatKey(append(keyParts, "trial_end")), "now")
	}
}

type SubscriptionItemsParams struct {
	ClearUsage *bool     `form:"clear_usage"`
	Deleted    *bool     `form:"deleted"`
	ID         *string   `form:"id"`
	Metadata   Metadata  `form:"metadata"`
	Plan       *string   `form:"plan"`
	Price      *string   `form:"price"`
	Quantity   *int64    `form:"quantity"`
	TaxRates   []*string `form:"tax_rates"`
}

type SubscriptionListParams struct {
	ListParams         `form:"*"`
	CollectionMethod   *SubscriptionCollectionMethod `form:"collection_method"`
	Created            *RangeQueryParams             `form:"created"`
	CurrentPeriodEnd   *RangeQueryParams             `form:"current_period_end"`
	CurrentPeriodStart *RangeQueryParams             `form:"current_period_start"`
	Customer           *string                       `form:"customer"`
	Plan               *string                       `form:"plan"`
	Price              *string                       `form:"price"`
	Status             *SubscriptionStatusFilter     `form:"status"`
}

func (p *SubscriptionListParams) Validate() error {
	if err := checkEnum("SubscriptionCollectionMethod", p.CollectionMethod, subscriptionCollectionMethods); err != nil {
		return err
	}
	return checkEnum("SubscriptionStatusFilter", p.Status, subscriptionStatusFilters)
}

// SubscriptionCancelParams is sent as the query string of the cancel call.
type SubscriptionCancelParams struct {
	Params      `form:"*"`
	AtPeriodEnd *bool `form:"at_period_end"`
	InvoiceNow  *bool `form:"invoice_now"`
	Prorate     *bool `form:"prorate"`
}

// SubscriptionService dispatches the /subscriptions operations.
type SubscriptionService struct{ service }

// Create starts a subscription for params.Customer.
func (s *SubscriptionService) Create(ctx context.Context, params *SubscriptionParams) (*Subscription, error) {
	sub := &Subscription{}
	if err := s.call(ctx, http.MethodPost, "/subscriptions", params, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Retrieve fetches a subscription. Use params.AddExpand to inline references
// such as "customer".
func (s *SubscriptionService) Retrieve(ctx context.Context, id SubscriptionID, params *Params) (*Subscription, error) {
	sub := &Subscription{}
	if err := s.call(ctx, http.MethodGet, "/subscriptions/{subscription}", params, sub, string(id)); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) Update(ctx context.Context, id SubscriptionID,
	params *SubscriptionParams) (*Subscription, error) {
	sub := &Subscription{}
	if err := s.call(ctx, http.MethodPost, "/subscriptions/{subscription}", params, sub, string(id)); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel cancels a subscription immediately, or at the end of the current
// period when params.AtPeriodEnd is set.
func (s *SubscriptionService) Cancel(ctx context.Context, id SubscriptionID,
	params *SubscriptionCancelParams) (*Subscription, error) {
	sub := &Subscription{}
	if err := s.call(ctx, http.MethodDelete, "/subscriptions/{subscription}", params, sub, string(id)); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context, params *SubscriptionListParams) (*List[Subscription], error) {
	l := &List[Subscription]{}
	if err := s.call(ctx, http.MethodGet, "/subscriptions", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SubscriptionService) ListAll(ctx context.Context,
	params *SubscriptionListParams) iter.Seq2[*Subscription, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[Subscription], error) {
		return s.List(ctx, p)
	})
}
