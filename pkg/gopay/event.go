package gopay

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
)

// Common event types. The API emits many more; Event.Type is a plain string.
const (
	EventCustomerCreated             = "customer.created"
	EventCustomerDeleted             = "customer.deleted"
	EventCustomerUpdated             = "customer.updated"
	EventCustomerSubscriptionCreated = "customer.subscription.created"
	EventCustomerSubscriptionDeleted = "customer.subscription.deleted"
	EventCustomerSubscriptionUpdated = "customer.subscription.updated"
	EventChargeSucceeded             = "charge.succeeded"
	EventChargeFailed                = "charge.failed"
	EventCheckoutSessionCompleted    = "checkout.session.completed"
	EventPaymentIntentSucceeded      = "payment_intent.succeeded"
	EventPaymentIntentPaymentFailed  = "payment_intent.payment_failed"
	EventPaymentIntentCanceled       = "payment_intent.canceled"
	EventPaymentMethodAttached       = "payment_method.attached"
	EventSetupIntentSucceeded        = "setup_intent.succeeded"
	EventReviewOpened                = "review.opened"
	EventReviewClosed                = "review.closed"
)

// Event is a notification that something changed on the account.
type Event struct {
	ID              EventID       `json:"id"`
	Object          string        `json:"object"`
	Account         *AccountID    `json:"account,omitempty"`
	APIVersion      *string       `json:"api_version,omitempty"`
	Created         int64         `json:"created"`
	Data            EventData     `json:"data"`
	Livemode        bool          `json:"livemode"`
	PendingWebhooks int64         `json:"pending_webhooks"`
	Request         *EventRequest `json:"request,omitempty"`
	Type            string        `json:"type"`
}

// EventData holds the resource the event is about, still encoded, and the
// values of the attributes an update changed.
type EventData struct {
	Object             json.RawMessage `json:"object"`
	PreviousAttributes map[string]any  `json:"previous_attributes,omitempty"`
}

type EventRequest struct {
	ID             *string `json:"id,omitempty"`
	IdempotencyKey *string `json:"idempotency_key,omitempty"`
}

type eventFields Event

func (e *Event) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "event", (*eventFields)(e), "id", "created", "data", "livemode", "type")
}

func (e *Event) ObjectID() string   { return string(e.ID) }
func (e *Event) ObjectType() string { return "event" }

// DataObjectType returns the "object" tag of the resource carried by the event.
func (e *Event) DataObjectType() string {
	_, object, err := objectTag(e.Data.Object)
	if err != nil {
		return ""
	}
	return object
}

// DecodeEventObject decodes the resource carried by e into a T, e.g.
// DecodeEventObject[PaymentIntent](e) for a payment_intent.succeeded event.
func DecodeEventObject[T any](e *Event) (*T, error) {
	if len(e.Data.Object) == 0 {
		return nil, &SchemaError{Object: "event", Field: "data.object"}
	}
	v := new(T)
	if err := json.Unmarshal(e.Data.Object, v); err != nil {
		return nil, fmt.Errorf("event %s: %w", e.ID, err)
	}
	return v, nil
}

type EventListParams struct {
	ListParams `form:"*"`
	Created    *RangeQueryParams `form:"created"`
	Type       *string           `form:"type"`
	Types      []*string         `form:"types"`
}

// EventService dispatches the /events operations.
type EventService struct{ service }

func (s *EventService) Retrieve(ctx context.Context, id EventID, params *Params) (*Event, error) {
	e := &Event{}
	if err := s.call(ctx, http.MethodGet, "/events/{event}", params, e, string(id)); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) List(ctx context.Context, params *EventListParams) (*List[Event], error) {
	l := &List[Event]{}
	if err := s.call(ctx, http.MethodGet, "/events", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *EventService) ListAll(ctx context.Context, params *EventListParams) iter.Seq2[*Event, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[Event], error) {
		return s.List(ctx, p)
	})
}
