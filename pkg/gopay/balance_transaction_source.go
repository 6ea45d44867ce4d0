package gopay

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SourceKind tags the resource family a balance transaction originated from.
type SourceKind string

const (
	SourceKindNone                 SourceKind = ""
	SourceKindApplicationFee       SourceKind = "application_fee"
	SourceKindApplicationFeeRefund SourceKind = "fee_refund"
	SourceKindCharge               SourceKind = "charge"
	SourceKindDispute              SourceKind = "dispute"
	SourceKindIssuingAuthorization SourceKind = "issuing.authorization"
	SourceKindIssuingTransaction   SourceKind = "issuing.transaction"
	SourceKindPayout               SourceKind = "payout"
	SourceKindRefund               SourceKind = "refund"
	SourceKindTopup                SourceKind = "topup"
	SourceKindTransfer             SourceKind = "transfer"
	SourceKindTransferReversal     SourceKind = "transfer_reversal"
)

// BalanceTransactionSourceID is the resource-neutral identifier of a balance
// transaction source. Kind is SourceKindNone and ID is empty for sources that
// have no identifier of their own.
type BalanceTransactionSourceID struct {
	Kind SourceKind
	ID   string
}

func (id BalanceTransactionSourceID) String() string {
	if id.Kind == SourceKindNone {
		return "none"
	}
	return string(id.Kind) + ":" + id.ID
}

// BalanceTransactionSource is one of the thirteen resources that can move
// money in or out of the balance. The set is closed: every member must project
// its own SourceID, and the unexported marker keeps other packages from adding
// members.
type BalanceTransactionSource interface {
	Object
	SourceID() BalanceTransactionSourceID
	balanceTransactionSource()
}

var (
	_ BalanceTransactionSource = (*ApplicationFee)(nil)
	_ BalanceTransactionSource = (*ApplicationFeeRefund)(nil)
	_ BalanceTransactionSource = (*Charge)(nil)
	_ BalanceTransactionSource = (*ConnectCollectionTransfer)(nil)
	_ BalanceTransactionSource = (*Dispute)(nil)
	_ BalanceTransactionSource = (*IssuingAuthorization)(nil)
	_ BalanceTransactionSource = (*IssuingTransaction)(nil)
	_ BalanceTransactionSource = (*Payout)(nil)
	_ BalanceTransactionSource = (*Refund)(nil)
	_ BalanceTransactionSource = (*ReserveTransaction)(nil)
	_ BalanceTransactionSource = (*Topup)(nil)
	_ BalanceTransactionSource = (*Transfer)(nil)
	_ BalanceTransactionSource = (*TransferReversal)(nil)
)

// balanceTransactionSources maps an "object" tag to a fresh variant.
var balanceTransactionSources = map[string]func() BalanceTransactionSource{
	"application_fee":             func() BalanceTransactionSource { return &ApplicationFee{} },
	"fee_refund":                  func() BalanceTransactionSource { return &ApplicationFeeRefund{} },
	"charge":                      func() BalanceTransactionSource { return &Charge{} },
	"connect_collection_transfer": func() BalanceTransactionSource { return &ConnectCollectionTransfer{} },
	"dispute":                     func() BalanceTransactionSource { return &Dispute{} },
	"issuing.authorization":       func() BalanceTransactionSource { return &IssuingAuthorization{} },
	"issuing.transaction":         func() BalanceTransactionSource { return &IssuingTransaction{} },
	"payout":                      func() BalanceTransactionSource { return &Payout{} },
	"refund":                      func() BalanceTransactionSource { return &Refund{} },
	"reserve_transaction":         func() BalanceTransactionSource { return &ReserveTransaction{} },
	"topup":                       func() BalanceTransactionSource { return &Topup{} },
	"transfer":                    func() BalanceTransactionSource { return &Transfer{} },
	"transfer_reversal":           func() BalanceTransactionSource { return &TransferReversal{} },
}

// ExpandableSource is the source field of a balance transaction: a bare id
// unless it was expanded. An expanded object of an unknown type keeps its id
// and leaves Object nil.
type ExpandableSource struct {
	ID     string
	Object BalanceTransactionSource
}

func (e *ExpandableSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		*e = ExpandableSource{}
		return json.Unmarshal(data, &e.ID)
	}
	id, object, err := objectTag(data)
	if err != nil {
		return fmt.Errorf("balance transaction source: %w", err)
	}
	*e = ExpandableSource{ID: id}
	newSource, ok := balanceTransactionSources[object]
	if !ok {
		return nil
	}
	src := newSource()
	if err := json.Unmarshal(data, src); err != nil {
		return err
	}
	e.Object = src
	return nil
}

func (e ExpandableSource) MarshalJSON() ([]byte, error) {
	if e.Object != nil {
		return json.Marshal(e.Object)
	}
	return json.Marshal(e.ID)
}

// SourceID projects the source to its neutral identifier. An unexpanded
// source only knows its raw id, so Kind is left as SourceKindNone.
func (e ExpandableSource) SourceID() BalanceTransactionSourceID {
	if e.Object != nil {
		return e.Object.SourceID()
	}
	return BalanceTransactionSourceID{ID: e.ID}
}

type ApplicationFee struct {
	ID                     ApplicationFeeID               `json:"id"`
	Object                 string                         `json:"object"`
	Account                Expandable[AccountID, Account] `json:"account"`
	Amount                 int64                          `json:"amount"`
	AmountRefunded         int64                          `json:"amount_refunded"`
	Charge                 Expandable[ChargeID, Charge]   `json:"charge"`
	Created                int64                          `json:"created"`
	Currency               Currency                       `json:"currency"`
	Livemode               bool                           `json:"livemode"`
	OriginatingTransaction *Expandable[ChargeID, Charge]  `json:"originating_transaction,omitempty"`
	Refunded               bool                           `json:"refunded"`
}

type applicationFeeFields ApplicationFee

func (f *ApplicationFee) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "application_fee", (*applicationFeeFields)(f),
		"id", "account", "amount", "amount_refunded", "charge", "created", "currency", "livemode", "refunded")
}

func (f *ApplicationFee) ObjectID() string   { return string(f.ID) }
func (f *ApplicationFee) ObjectType() string { return "application_fee" }
func (f *ApplicationFee) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindApplicationFee, ID: string(f.ID)}
}
func (*ApplicationFee) balanceTransactionSource() {}

type ApplicationFeeRefund struct {
	ID       ApplicationFeeRefundID `json:"id"`
	Object   string                 `json:"object"`
	Amount   int64                  `json:"amount"`
	Created  int64                  `json:"created"`
	Currency Currency               `json:"currency"`
	Fee      ApplicationFeeID       `json:"fee"`
	Metadata Metadata               `json:"metadata,omitempty"`
}

type applicationFeeRefundFields ApplicationFeeRefund

func (r *ApplicationFeeRefund) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "fee_refund", (*applicationFeeRefundFields)(r),
		"id", "amount", "created", "currency", "fee")
}

func (r *ApplicationFeeRefund) ObjectID() string   { return string(r.ID) }
func (r *ApplicationFeeRefund) ObjectType() string { return "fee_refund" }
func (r *ApplicationFeeRefund) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindApplicationFeeRefund, ID: string(r.ID)}
}
func (*ApplicationFeeRefund) balanceTransactionSource() {}

// ConnectCollectionTransfer moves funds from a connected account to cover a
// negative balance. It has no identifier of its own.
type ConnectCollectionTransfer struct {
	Object      string                         `json:"object"`
	Amount      int64                          `json:"amount"`
	Currency    Currency                       `json:"currency"`
	Destination Expandable[AccountID, Account] `json:"destination"`
	Livemode    bool                           `json:"livemode"`
}

type connectCollectionTransferFields ConnectCollectionTransfer

func (t *ConnectCollectionTransfer) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "connect_collection_transfer", (*connectCollectionTransferFields)(t),
		"amount", "currency", "destination", "livemode")
}

func (t *ConnectCollectionTransfer) ObjectID() string   { return "" }
func (t *ConnectCollectionTransfer) ObjectType() string { return "connect_collection_transfer" }
func (t *ConnectCollectionTransfer) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindNone}
}
func (*ConnectCollectionTransfer) balanceTransactionSource() {}

type Dispute struct {
	ID       DisputeID                    `json:"id"`
	Object   string                       `json:"object"`
	Amount   int64                        `json:"amount"`
	Charge   Expandable[ChargeID, Charge] `json:"charge"`
	Created  int64                        `json:"created"`
	Currency Currency                     `json:"currency"`
	Livemode bool                         `json:"livemode"`
	Metadata Metadata                     `json:"metadata,omitempty"`
	Reason   string                       `json:"reason"`
	Status   string                       `json:"status"`
}

type disputeFields Dispute

func (d *Dispute) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "dispute", (*disputeFields)(d),
		"id", "amount", "charge", "created", "currency", "livemode", "reason", "status")
}

func (d *Dispute) ObjectID() string   { return string(d.ID) }
func (d *Dispute) ObjectType() string { return "dispute" }
func (d *Dispute) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindDispute, ID: string(d.ID)}
}
func (*Dispute) balanceTransactionSource() {}

type IssuingAuthorization struct {
	ID       IssuingAuthorizationID `json:"id"`
	Object   string                 `json:"object"`
	Amount   int64                  `json:"amount"`
	Approved bool                   `json:"approved"`
	Created  int64                  `json:"created"`
	Currency Currency               `json:"currency"`
	Livemode bool                   `json:"livemode"`
	Metadata Metadata               `json:"metadata,omitempty"`
	Status   string                 `json:"status"`
}

type issuingAuthorizationFields IssuingAuthorization

func (a *IssuingAuthorization) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "issuing.authorization", (*issuingAuthorizationFields)(a),
		"id", "approved", "created", "livemode", "status")
}

func (a *IssuingAuthorization) ObjectID() string   { return string(a.ID) }
func (a *IssuingAuthorization) ObjectType() string { return "issuing.authorization" }
func (a *IssuingAuthorization) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindIssuingAuthorization, ID: string(a.ID)}
}
func (*IssuingAuthorization) balanceTransactionSource() {}

type IssuingTransaction struct {
	ID            IssuingTransactionID    `json:"id"`
	Object        string                  `json:"object"`
	Amount        int64                   `json:"amount"`
	Authorization *IssuingAuthorizationID `json:"authorization,omitempty"`
	Created       int64                   `json:"created"`
	Currency      Currency                `json:"currency"`
	Livemode      bool                    `json:"livemode"`
	Metadata      Metadata                `json:"metadata,omitempty"`
	Type          string                  `json:"type"`
}

type issuingTransactionFields IssuingTransaction

func (t *IssuingTransaction) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "issuing.transaction", (*issuingTransactionFields)(t),
		"id", "amount", "created", "currency", "livemode", "type")
}

func (t *IssuingTransaction) ObjectID() string   { return string(t.ID) }
func (t *IssuingTransaction) ObjectType() string { return "issuing.transaction" }
func (t *IssuingTransaction) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindIssuingTransaction, ID: string(t.ID)}
}
func (*IssuingTransaction) balanceTransactionSource() {}

type Payout struct {
	ID          PayoutID `json:"id"`
	Object      string   `json:"object"`
	Amount      int64    `json:"amount"`
	ArrivalDate int64    `json:"arrival_date"`
	Automatic   bool     `json:"automatic"`
	Created     int64    `json:"created"`
	Currency    Currency `json:"currency"`
	Description *string  `json:"description,omitempty"`
	Livemode    bool     `json:"livemode"`
	Metadata    Metadata `json:"metadata,omitempty"`
	Method      string   `json:"method"`
	Status      string   `json:"status"`
	Type        string   `json:"type"`
}

type payoutFields Payout

func (p *Payout) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "payout", (*payoutFields)(p),
		"id", "amount", "arrival_date", "automatic", "created", "currency", "livemode", "method", "status", "type")
}

func (p *Payout) ObjectID() string   { return string(p.ID) }
func (p *Payout) ObjectType() string { return "payout" }
func (p *Payout) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindPayout, ID: string(p.ID)}
}
func (*Payout) balanceTransactionSource() {}

type Refund struct {
	ID            RefundID                                    `json:"id"`
	Object        string                                      `json:"object"`
	Amount        int64                                       `json:"amount"`
	Charge        *Expandable[ChargeID, Charge]               `json:"charge,omitempty"`
	Created       int64                                       `json:"created"`
	Currency      Currency                                    `json:"currency"`
	Metadata      Metadata                                    `json:"metadata,omitempty"`
	PaymentIntent *Expandable[PaymentIntentID, PaymentIntent] `json:"payment_intent,omitempty"`
	Reason        *string                                     `json:"reason,omitempty"`
	Status        *string                                     `json:"status,omitempty"`
}

type refundFields Refund

func (r *Refund) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "refund", (*refundFields)(r), "id", "amount", "created", "currency")
}

func (r *Refund) ObjectID() string   { return string(r.ID) }
func (r *Refund) ObjectType() string { return "refund" }
func (r *Refund) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindRefund, ID: string(r.ID)}
}
func (*Refund) balanceTransactionSource() {}

// ReserveTransaction is a movement into or out of a reserve. It has no
// identifier of its own.
type ReserveTransaction struct {
	Object      string   `json:"object"`
	Amount      int64    `json:"amount"`
	Currency    Currency `json:"currency"`
	Description *string  `json:"description,omitempty"`
}

type reserveTransactionFields ReserveTransaction

func (t *ReserveTransaction) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "reserve_transaction", (*reserveTransactionFields)(t), "amount", "currency")
}

func (t *ReserveTransaction) ObjectID() string   { return "" }
func (t *ReserveTransaction) ObjectType() string { return "reserve_transaction" }
func (t *ReserveTransaction) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindNone}
}
func (*ReserveTransaction) balanceTransactionSource() {}

type Topup struct {
	ID                       TopupID  `json:"id"`
	Object                   string   `json:"object"`
	Amount                   int64    `json:"amount"`
	Created                  int64    `json:"created"`
	Currency                 Currency `json:"currency"`
	Description              *string  `json:"description,omitempty"`
	ExpectedAvailabilityDate *int64   `json:"expected_availability_date,omitempty"`
	Livemode                 bool     `json:"livemode"`
	Metadata                 Metadata `json:"metadata,omitempty"`
	Status                   string   `json:"status"`
}

type topupFields Topup

func (t *Topup) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "topup", (*topupFields)(t), "id", "amount", "created", "currency", "livemode", "status")
}

func (t *Topup) ObjectID() string   { return string(t.ID) }
func (t *Topup) ObjectType() string { return "topup" }
func (t *Topup) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindTopup, ID: string(t.ID)}
}
func (*Topup) balanceTransactionSource() {}

type Transfer struct {
	ID             TransferID                      `json:"id"`
	Object         string                          `json:"object"`
	Amount         int64                           `json:"amount"`
	AmountReversed int64                           `json:"amount_reversed"`
	Created        int64                           `json:"created"`
	Currency       Currency                        `json:"currency"`
	Description    *string                         `json:"description,omitempty"`
	Destination    *Expandable[AccountID, Account] `json:"destination,omitempty"`
	Livemode       bool                            `json:"livemode"`
	Metadata       Metadata                        `json:"metadata,omitempty"`
	Reversed       bool                            `json:"reversed"`
	TransferGroup  *string                         `json:"transfer_group,omitempty"`
}

type transferFields Transfer

func (t *Transfer) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "transfer", (*transferFields)(t),
		"id", "amount", "amount_reversed", "created", "currency", "livemode", "reversed")
}

func (t *Transfer) ObjectID() string   { return string(t.ID) }
func (t *Transfer) ObjectType() string { return "transfer" }
func (t *Transfer) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindTransfer, ID: string(t.ID)}
}
func (*Transfer) balanceTransactionSource() {}

type TransferReversal struct {
	ID       TransferReversalID               `json:"id"`
	Object   string                           `json:"object"`
	Amount   int64                            `json:"amount"`
	Created  int64                            `json:"created"`
	Currency Currency                         `json:"currency"`
	Metadata Metadata                         `json:"metadata,omitempty"`
	Transfer Expandable[TransferID, Transfer] `json:"transfer"`
}

type transferReversalFields TransferReversal

func (r *TransferReversal) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "transfer_reversal", (*transferReversalFields)(r),
		"id", "amount", "created", "currency", "transfer")
}

func (r *TransferReversal) ObjectID() string   { return string(r.ID) }
func (r *TransferReversal) ObjectType() string { return "transfer_reversal" }
func (r *TransferReversal) SourceID() BalanceTransactionSourceID {
	return BalanceTransactionSourceID{Kind: SourceKindTransferReversal, ID: string(r.ID)}
}
func (*TransferReversal) balanceTransactionSource() {}
