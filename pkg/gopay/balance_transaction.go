package gopay

import (
	"context"
	"errors"
	"iter"
	"net/http"
)

// BalanceTransactionType is the kind of balance movement.
type BalanceTransactionType string

const (
	BalanceTransactionTypeAdjustment           BalanceTransactionType = "adjustment"
	BalanceTransactionTypeApplicationFee       BalanceTransactionType = "application_fee"
	BalanceTransactionTypeApplicationFeeRefund BalanceTransactionType = "application_fee_refund"
	BalanceTransactionTypeCharge               BalanceTransactionType = "charge"
	BalanceTransactionTypeIssuingAuthHold      BalanceTransactionType = "issuing_authorization_hold"
	BalanceTransactionTypeIssuingAuthRelease   BalanceTransactionType = "issuing_authorization_release"
	BalanceTransactionTypeIssuingTransaction   BalanceTransactionType = "issuing_transaction"
	BalanceTransactionTypePayment              BalanceTransactionType = "payment"
	BalanceTransactionTypePaymentFailureRefund BalanceTransactionType = "payment_failure_refund"
	BalanceTransactionTypePaymentRefund        BalanceTransactionType = "payment_refund"
	BalanceTransactionTypePayout               BalanceTransactionType = "payout"
	BalanceTransactionTypePayoutCancel         BalanceTransactionType = "payout_cancel"
	BalanceTransactionTypePayoutFailure        BalanceTransactionType = "payout_failure"
	BalanceTransactionTypeRefund               BalanceTransactionType = "refund"
	BalanceTransactionTypeRefundFailure        BalanceTransactionType = "refund_failure"
	BalanceTransactionTypeReserveTransaction   BalanceTransactionType = "reserve_transaction"
	BalanceTransactionTypeReservedFunds        BalanceTransactionType = "reserved_funds"
	BalanceTransactionTypeStripeFee            BalanceTransactionType = "stripe_fee"
	BalanceTransactionTypeTopup                BalanceTransactionType = "topup"
	BalanceTransactionTypeTopupReversal        BalanceTransactionType = "topup_reversal"
	BalanceTransactionTypeTransfer             BalanceTransactionType = "transfer"
	BalanceTransactionTypeTransferCancel       BalanceTransactionType = "transfer_cancel"
	BalanceTransactionTypeTransferFailure      BalanceTransactionType = "transfer_failure"
	BalanceTransactionTypeTransferRefund       BalanceTransactionType = "transfer_refund"
)

var balanceTransactionTypes = []BalanceTransactionType{
	BalanceTransactionTypeAdjustment, BalanceTransactionTypeApplicationFee,
	BalanceTransactionTypeApplicationFeeRefund, BalanceTransactionTypeCharge,
	BalanceTransactionTypeIssuingAuthHold, BalanceTransactionTypeIssuingAuthRelease,
	BalanceTransactionTypeIssuingTransaction, BalanceTransactionTypePayment,
	BalanceTransactionTypePaymentFailureRefund, BalanceTransactionTypePaymentRefund,
	BalanceTransactionTypePayout, BalanceTransactionTypePayoutCancel, BalanceTransactionTypePayoutFailure,
	BalanceTransactionTypeRefund, BalanceTransactionTypeRefundFailure,
	BalanceTransactionTypeReserveTransaction, BalanceTransactionTypeReservedFunds,
	BalanceTransactionTypeStripeFee, BalanceTransactionTypeTopup, BalanceTransactionTypeTopupReversal,
	BalanceTransactionTypeTransfer, BalanceTransactionTypeTransferCancel,
	BalanceTransactionTypeTransferFailure, BalanceTransactionTypeTransferRefund,
}

func (t BalanceTransactionType) Known() bool { return isKnown(t, balanceTransactionTypes) }

func (t BalanceTransactionType) MarshalText() ([]byte, error) {
	return marshalEnum("BalanceTransactionType", t, balanceTransactionTypes)
}

type BalanceTransactionStatus string

const (
	BalanceTransactionStatusAvailable BalanceTransactionStatus = "available"
	BalanceTransactionStatusPending   BalanceTransactionStatus = "pending"
)

var balanceTransactionStatuses = []BalanceTransactionStatus{
	BalanceTransactionStatusAvailable, BalanceTransactionStatusPending,
}

func (s BalanceTransactionStatus) Known() bool { return isKnown(s, balanceTransactionStatuses) }

func (s BalanceTransactionStatus) MarshalText() ([]byte, error) {
	return marshalEnum("BalanceTransactionStatus", s, balanceTransactionStatuses)
}

// BalanceTransaction is one movement of funds in or out of the balance.
// Amounts are in the minor unit of Currency; Net is Amount minus Fee.
type BalanceTransaction struct {
	ID                BalanceTransactionID     `json:"id"`
	Object            string                   `json:"object"`
	Amount            int64                    `json:"amount"`
	AvailableOn       int64                    `json:"available_on"`
	Created           int64                    `json:"created"`
	Currency          Currency                 `json:"currency"`
	Description       *string                  `json:"description,omitempty"`
	ExchangeRate      *float64                 `json:"exchange_rate,omitempty"`
	Fee               int64                    `json:"fee"`
	FeeDetails        []FeeDetails             `json:"fee_details"`
	Net               int64                    `json:"net"`
	ReportingCategory *string                  `json:"reporting_category,omitempty"`
	Source            *ExpandableSource        `json:"source,omitempty"`
	Status            BalanceTransactionStatus `json:"status"`
	Type              BalanceTransactionType   `json:"type"`
}

type balanceTransactionFields BalanceTransaction

func (bt *BalanceTransaction) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "balance_transaction", (*balanceTransactionFields)(bt),
		"id", "amount", "available_on", "created", "currency", "fee", "fee_details", "net", "status", "type")
}

func (bt *BalanceTransaction) ObjectID() string   { return string(bt.ID) }
func (bt *BalanceTransaction) ObjectType() string { return "balance_transaction" }

// FeeDetails is one component of a balance transaction's fee.
type FeeDetails struct {
	Amount      int64    `json:"amount"`
	Application *string  `json:"application,omitempty"`
	Currency    Currency `json:"currency"`
	Description *string  `json:"description,omitempty"`
	Type        string   `json:"type"`
}

type BalanceTransactionListParams struct {
	ListParams  `form:"*"`
	AvailableOn *RangeQueryParams       `form:"available_on"`
	Created     *RangeQueryParams       `form:"created"`
	Currency    *Currency               `form:"currency"`
	Payout      *string                 `form:"payout"`
	Source      *string                 `form:"source"`
	Type        *BalanceTransactionType `form:"type"`
}

func (p *BalanceTransactionListParams) Validate() error {
	return errors.Join(
		checkCurrency(p.Currency),
		checkEnum("BalanceTransactionType", p.Type, balanceTransactionTypes),
	)
}

// BalanceTransactionService dispatches the /balance/history operations.
type BalanceTransactionService struct{ service }

func (s *BalanceTransactionService) Retrieve(ctx context.Context, id BalanceTransactionID,
	params *Params) (*BalanceTransaction, error) {
	bt := &BalanceTransaction{}
	if err := s.call(ctx, http.MethodGet, "/balance/history/{transaction}", params, bt, string(id)); err != nil {
		return nil, err
	}
	return bt, nil
}

func (s *BalanceTransactionService) List(ctx context.Context,
	params *BalanceTransactionListParams) (*List[BalanceTransaction], error) {
	l := &List[BalanceTransaction]{}
	if err := s.call(ctx, http.MethodGet, "/balance/history", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *BalanceTransactionService) ListAll(ctx context.Context,
	params *BalanceTransactionListParams) iter.Seq2[*BalanceTransaction, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[BalanceTransaction], error) {
		return s.List(ctx, p)
	})
}
