package gopay

import (
	"context"
	"iter"
	"net/http"
)

// Customer is a buyer whose payment details and subscriptions are stored by
// the API.
type Customer struct {
	ID               CustomerID                                  `json:"id"`
	Object           string                                      `json:"object"`
	Address          *Address                                    `json:"address,omitempty"`
	Balance          *int64                                      `json:"balance,omitempty"`
	Created          int64                                       `json:"created"`
	Currency         *Currency                                   `json:"currency,omitempty"`
	DefaultSource    *Expandable[PaymentSourceID, PaymentSource] `json:"default_source,omitempty"`
	Delinquent       bool                                        `json:"delinquent"`
	Description      *string                                     `json:"description,omitempty"`
	Discount         *Discount                                   `json:"discount,omitempty"`
	Email            *string                                     `json:"email,omitempty"`
	InvoicePrefix    *string                                     `json:"invoice_prefix,omitempty"`
	InvoiceSettings  *CustomerInvoiceSettings                    `json:"invoice_settings,omitempty"`
	Livemode         bool                                        `json:"livemode"`
	Metadata         Metadata                                    `json:"metadata,omitempty"`
	Name             *string                                     `json:"name,omitempty"`
	Phone            *string                                     `json:"phone,omitempty"`
	PreferredLocales []string                                    `json:"preferred_locales,omitempty"`
	Shipping         *Shipping                                   `json:"shipping,omitempty"`
	Sources          *List[PaymentSource]                        `json:"sources,omitempty"`
	Subscriptions    *List[Subscription]                         `json:"subscriptions,omitempty"`
	TaxExempt        *string                                     `json:"tax_exempt,omitempty"`
}

type CustomerInvoiceSettings struct {
	CustomFields         []CustomerInvoiceCustomField                `json:"custom_fields,omitempty"`
	DefaultPaymentMethod *Expandable[PaymentMethodID, PaymentMethod] `json:"default_payment_method,omitempty"`
	Footer               *string                                     `json:"footer,omitempty"`
}

type CustomerInvoiceCustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type customerFields Customer

func (c *Customer) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "customer", (*customerFields)(c), "id", "created", "delinquent", "livemode")
}

func (c *Customer) ObjectID() string   { return string(c.ID) }
func (c *Customer) ObjectType() string { return "customer" }

// CustomerParams is used to create and update customers.
type CustomerParams struct {
	Params           `form:"*"`
	Address          *AddressParams                 `form:"address"`
	Balance          *int64                         `form:"balance"`
	Coupon           *string                        `form:"coupon"`
	DefaultSource    *string                        `form:"default_source"`
	Description      *string                        `form:"description"`
	Email            *string                        `form:"email"`
	InvoicePrefix    *string                        `form:"invoice_prefix"`
	InvoiceSettings  *CustomerInvoiceSettingsParams `form:"invoice_settings"`
	Metadata         Metadata                       `form:"metadata"`
	Name             *string                        `form:"name"`
	PaymentMethod    *string                        `form:"payment_method"`
	Phone            *string                        `form:"phone"`
	PreferredLocales []*string                      `form:"preferred_locales"`
	Shipping         *ShippingParams                `form:"shipping"`
	Source           *string                        `form:"source"`
	TaxExempt        *string                        `form:"tax_exempt"`
	TaxIDData        []*CustomerTaxIDDataParams     `form:"tax_id_data"`
}

type CustomerInvoiceSettingsParams struct {
	CustomFields         []*CustomerInvoiceCustomFieldParams `form:"custom_fields"`
	DefaultPaymentMethod *string                             `form:"default_payment_method"`
	Footer               *string                             `form:"footer"`
}

type CustomerInvoiceCustomFieldParams struct {
	Name  *string `form:"name"`
	Value *string `form:"value"`
}

type CustomerTaxIDDataParams struct {
	Type  *string `form:"type"`
	Value *string `form:"value"`
}

type CustomerListParams struct {
	ListParams `form:"*"`
	Created    *RangeQueryParams `form:"created"`
	Email      *string           `form:"email"`
}

// CustomerSourceParams attaches a payment source, given as a token or source
// id, to a customer.
type CustomerSourceParams struct {
	Params   `form:"*"`
	Source   *string  `form:"source"`
	Metadata Metadata `form:"metadata"`
}

// BankAccountVerifyParams verifies a bank account with the two micro-deposit
// amounts, in the currency's minor unit.
type BankAccountVerifyParams struct {
	Params             `form:"*"`
	Amounts            []*int64 `form:"amounts"`
	VerificationMethod *string  `form:"verification_method"`
}

// CustomerService dispatches the /customers operations.
type CustomerService struct{ service }

// Create creates a customer.
func (s *CustomerService) Create(ctx context.Context, params *CustomerParams) (*Customer, error) {
	c := &Customer{}
	if err := s.call(ctx, http.MethodPost, "/customers", params, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Retrieve fetches a customer.
func (s *CustomerService) Retrieve(ctx context.Context, id CustomerID, params *Params) (*Customer, error) {
	c := &Customer{}
	if err := s.call(ctx, http.MethodGet, "/customers/{customer}", params, c, string(id)); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the fields set in params and leaves the rest untouched.
func (s *CustomerService) Update(ctx context.Context, id CustomerID, params *CustomerParams) (*Customer, error) {
	c := &Customer{}
	if err := s.call(ctx, http.MethodPost, "/customers/{customer}", params, c, string(id)); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete permanently deletes a customer and cancels its subscriptions.
func (s *CustomerService) Delete(ctx context.Context, id CustomerID) (*Deleted[CustomerID], error) {
	d := &Deleted[CustomerID]{}
	if err := s.call(ctx, http.MethodDelete, "/customers/{customer}", nil, d, string(id)); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns one page of customers.
func (s *CustomerService) List(ctx context.Context, params *CustomerListParams) (*List[Customer], error) {
	l := &List[Customer]{}
	if err := s.call(ctx, http.MethodGet, "/customers", params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListAll iterates over every customer matching params.
func (s *CustomerService) ListAll(ctx context.Context, params *CustomerListParams) iter.Seq2[*Customer, error] {
	p := clone(params)
	return paginate(ctx, &p.ListParams, func(ctx context.Context) (*List[Customer], error) {
		return s.List(ctx, p)
	})
}

// AttachSource adds a payment source to a customer.
func (s *CustomerService) AttachSource(ctx context.Context, id CustomerID,
	params *CustomerSourceParams) (*PaymentSource, error) {
	src := &PaymentSource{}
	if err := s.call(ctx, http.MethodPost, "/customers/{customer}/sources", params, src, string(id)); err != nil {
		return nil, err
	}
	return src, nil
}

// RetrieveSource fetches one of a customer's payment sources.
func (s *CustomerService) RetrieveSource(ctx context.Context, id CustomerID,
	sourceID PaymentSourceID) (*PaymentSource, error) {
	src := &PaymentSource{}
	if err := s.call(ctx, http.MethodGet, "/customers/{customer}/sources/{source}", nil, src,
		string(id), string(sourceID)); err != nil {
		return nil, err
	}
	return src, nil
}

// DetachSource removes a payment source from a customer. Cards and bank
// accounts come back as a deletion marker, sources as the updated Source.
func (s *CustomerService) DetachSource(ctx context.Context, id CustomerID,
	sourceID PaymentSourceID) (*DetachedSource, error) {
	d := &DetachedSource{}
	if err := s.call(ctx, http.MethodDelete, "/customers/{customer}/sources/{source}", nil, d,
		string(id), string(sourceID)); err != nil {
		return nil, err
	}
	return d, nil
}

// VerifyBankAccount confirms ownership of a bank account source.
func (s *CustomerService) VerifyBankAccount(ctx context.Context, id CustomerID,
	sourceID PaymentSourceID, params *BankAccountVerifyParams) (*BankAccount, error) {
	ba := &BankAccount{}
	if err := s.call(ctx, http.MethodPost, "/customers/{customer}/sources/{source}/verify", params, ba,
		string(id), string(sourceID)); err != nil {
		return nil, err
	}
	return ba, nil
}
