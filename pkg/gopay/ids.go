package gopay

// Identifiers are distinct named types so that a customer id cannot be passed
// where a subscription id is expected without an explicit conversion.
type (
	AccountID              string
	ApplicationFeeID       string
	ApplicationFeeRefundID string
	BalanceTransactionID   string
	ChargeID               string
	CheckoutSessionID      string
	CouponID               string
	CustomerID             string
	DisputeID              string
	EventID                string
	InvoiceID              string
	IssuingAuthorizationID string
	IssuingTransactionID   string
	PaymentIntentID        string
	PaymentMethodID        string
	PaymentSourceID        string
	PayoutID               string
	PlanID                 string
	PriceID                string
	RefundID               string
	ReviewID               string
	SetupIntentID          string
	SubscriptionID         string
	SubscriptionItemID     string
	TopupID                string
	TransferID             string
	TransferReversalID     string
)
