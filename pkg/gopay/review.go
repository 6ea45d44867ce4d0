package gopay

import (
	"context"
	"iter"
	"net/http"
)

// ReviewReason says why a review was opened or how it was closed.
type ReviewReason string

const (
	ReviewReasonApproved        ReviewReason = "approved"
	ReviewReasonDisputed        ReviewReason = "disputed"
	ReviewReasonManual          ReviewReason = "manual"
	ReviewReasonRefunded        ReviewReason = "refunded"
	ReviewReasonRefundedAsFraud ReviewReason = "refunded_as_fraud"
	ReviewReasonRedacted        ReviewReason = "redacted"
	ReviewReasonRule            ReviewReason = "rule"
)

var reviewReasons = []ReviewReason{
	ReviewReasonApproved, ReviewReasonDisputed, ReviewReasonManual, ReviewReasonRefunded,
	ReviewReasonRefundedAsFraud, ReviewReasonRedacted, ReviewReasonRule,
}

func (r ReviewReason) Known() bool { return isKnown(r, reviewReasons) }

func (r ReviewReason) MarshalText() ([]byte, error) {
	return marshalEnum("ReviewReason", r, reviewReasons)
}

// Review is a payment held for manual fraud review.
type Review struct {
	ID            ReviewID                                    `json:"id"`
	Object        string                                      `json:"object"`
	BillingZip    *string                                     `json:"billing_zip,omitempty"`
	Charge        *Expandable[ChargeID, Charge]               `json:"charge,omitempty"`
	ClosedReason  *ReviewReason                               `json:"closed_reason,omitempty"`
	Created       int64                                       `json:"created"`
	IPAddress     *string                                     `json:"ip_address,omitempty"`
	Livemode      bool                                        `json:"livemode"`
	Open          bool                                        `json:"open"`
	OpenedReason  *ReviewReason                               `json:"opened_reason,omitempty"`
	PaymentIntent *Expandable[PaymentIntentID, PaymentIntent] `json:"payment_intent,omitempty"`
	Reason        ReviewReason                                `json:"reason"`
}

type reviewFields Review

func (r *Review) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "review", (*reviewFields)(r), "id", "created", "livemode", "open", "reason")
}

func (r *Review) ObjectID() string   { return string(r.ID) }
func (r *Review) ObjectType() string { return "review" }

type ReviewListParams struct {
	ListParams `form:"*"`
	Created    *RangeQueryParams `form:"created"`
}

// ReviewService dispatches the /reviews operations.
type ReviewService struct{ service }

func (s *ReviewService) Retrieve(ctx context.Context, id ReviewID, params *Params) (*Review, error) {
	r := &Review{}
	if err := s.call(ctx, http.MethodGet, "/reviews/{review}", params, r, string(id)); err != nil {
		return nil, err
	}
	return r, nil
}

// Approve closes an open review and releases the payment.
func (s *ReviewService) Approve(ctx context.Context, id ReviewID, params *Params) (*Review, error) {
	r := &Review{}
	if err := s.call(ctx, http.MethodPost, "/reviews/{review}/approve", params, r, string(id)); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns one page of open reviews.
func (s *ReviewService) List(ctx context.Context, params *ReviewListParams) (*List[Review], error) {
	l := &List[Review]{}
	if err := s.call(ctx, http.MethodGet, "/reviews", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ReviewService) ListAll(ctx context.Context, params *ReviewListParams) iter.Seq2[*Review, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[Review], error) {
		return s.List(ctx, p)
	})
}
