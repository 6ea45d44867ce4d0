package gopay

import (
	"encoding/json"
	"fmt"
)

// PaymentSourceType is the "object" tag of a payment source.
type PaymentSourceType string

const (
	PaymentSourceTypeBankAccount PaymentSourceType = "bank_account"
	PaymentSourceTypeCard        PaymentSourceType = "card"
	PaymentSourceTypeSource      PaymentSourceType = "source"
)

// PaymentSource is a card, bank account or source attached to a customer.
// Exactly one of Card, BankAccount and Source is set, matching Type. A type
// this client does not know keeps its ID and leaves all three nil.
type PaymentSource struct {
	ID          PaymentSourceID
	Type        PaymentSourceType
	Card        *Card
	BankAccount *BankAccount
	Source      *Source
}

func (s *PaymentSource) UnmarshalJSON(data []byte) error {
	id, object, err := objectTag(data)
	if err != nil {
		return fmt.Errorf("payment source: %w", err)
	}
	*s = PaymentSource{ID: PaymentSourceID(id), Type: PaymentSourceType(object)}
	switch s.Type {
	case PaymentSourceTypeCard:
		s.Card = &Card{}
		return json.Unmarshal(data, s.Card)
	case PaymentSourceTypeBankAccount:
		s.BankAccount = &BankAccount{}
		return json.Unmarshal(data, s.BankAccount)
	case PaymentSourceTypeSource:
		s.Source = &Source{}
		return json.Unmarshal(data, s.Source)
	}
	return nil
}

func (s PaymentSource) MarshalJSON() ([]byte, error) {
	switch {
	case s.Card != nil:
		return json.Marshal(s.Card)
	case s.BankAccount != nil:
		return json.Marshal(s.BankAccount)
	case s.Source != nil:
		return json.Marshal(s.Source)
	}
	return json.Marshal(map[string]string{"id": string(s.ID), "object": string(s.Type)})
}

func (s *PaymentSource) ObjectID() string   { return string(s.ID) }
func (s *PaymentSource) ObjectType() string { return string(s.Type) }

// DetachedSource is the result of removing a payment source from a customer.
type DetachedSource struct {
	// Deleted is set when a card or bank account was detached.
	Deleted *Deleted[PaymentSourceID]
	// Source is set when a source object was detached.
	Source *Source
}

func (d *DetachedSource) UnmarshalJSON(data []byte) error {
	_, object, err := objectTag(data)
	if err != nil {
		return fmt.Errorf("detached source: %w", err)
	}
	*d = DetachedSource{}
	if PaymentSourceType(object) == PaymentSourceTypeSource {
		d.Source = &Source{}
		return json.Unmarshal(data, d.Source)
	}
	d.Deleted = &Deleted[PaymentSourceID]{}
	return json.Unmarshal(data, d.Deleted)
}

// Card is a payment card stored as a customer source.
type Card struct {
	ID                 PaymentSourceID `json:"id"`
	Object             string          `json:"object"`
	AddressCity        *string         `json:"address_city,omitempty"`
	AddressCountry     *string         `json:"address_country,omitempty"`
	AddressLine1       *string         `json:"address_line1,omitempty"`
	AddressLine1Check  *string         `json:"address_line1_check,omitempty"`
	AddressLine2       *string         `json:"address_line2,omitempty"`
	AddressState       *string         `json:"address_state,omitempty"`
	AddressZip         *string         `json:"address_zip,omitempty"`
	AddressZipCheck    *string         `json:"address_zip_check,omitempty"`
	Brand              string          `json:"brand"`
	Country            *string         `json:"country,omitempty"`
	Customer           *CustomerID     `json:"customer,omitempty"`
	CVCCheck           *string         `json:"cvc_check,omitempty"`
	ExpMonth           int64           `json:"exp_month"`
	ExpYear            int64           `json:"exp_year"`
	Fingerprint        *string         `json:"fingerprint,omitempty"`
	Funding            *string         `json:"funding,omitempty"`
	Last4              string          `json:"last4"`
	Metadata           Metadata        `json:"metadata,omitempty"`
	Name               *string         `json:"name,omitempty"`
	TokenizationMethod *string         `json:"tokenization_method,omitempty"`
}

type cardFields Card

func (c *Card) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "card", (*cardFields)(c), "id", "brand", "exp_month", "exp_year", "last4")
}

func (c *Card) ObjectID() string   { return string(c.ID) }
func (c *Card) ObjectType() string { return "card" }

// BankAccount is a bank account stored as a customer source.
type BankAccount struct {
	ID                PaymentSourceID `json:"id"`
	Object            string          `json:"object"`
	AccountHolderName *string         `json:"account_holder_name,omitempty"`
	AccountHolderType *string         `json:"account_holder_type,omitempty"`
	BankName          *string         `json:"bank_name,omitempty"`
	Country           string          `json:"country"`
	Currency          Currency        `json:"currency"`
	Customer          *CustomerID     `json:"customer,omitempty"`
	Fingerprint       *string         `json:"fingerprint,omitempty"`
	Last4             string          `json:"last4"`
	Metadata          Metadata        `json:"metadata,omitempty"`
	RoutingNumber     *string         `json:"routing_number,omitempty"`
	Status            string          `json:"status"`
}

type bankAccountFields BankAccount

func (b *BankAccount) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "bank_account", (*bankAccountFields)(b), "id", "country", "currency", "last4", "status")
}

func (b *BankAccount) ObjectID() string   { return string(b.ID) }
func (b *BankAccount) ObjectType() string { return "bank_account" }

// Source is a generic payment source such as a card or wallet authorization.
type Source struct {
	ID           PaymentSourceID `json:"id"`
	Object       string          `json:"object"`
	Amount       *int64          `json:"amount,omitempty"`
	ClientSecret string          `json:"client_secret"`
	Created      int64           `json:"created"`
	Currency     *Currency       `json:"currency,omitempty"`
	Customer     *CustomerID     `json:"customer,omitempty"`
	Flow         string          `json:"flow"`
	Livemode     bool            `json:"livemode"`
	Metadata     Metadata        `json:"metadata,omitempty"`
	Owner        *SourceOwner    `json:"owner,omitempty"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Usage        *string         `json:"usage,omitempty"`
}

type SourceOwner struct {
	Address *Address `json:"address,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Name    *string  `json:"name,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
}

type sourceFields Source

func (s *Source) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "source", (*sourceFields)(s), "id", "client_secret", "created", "flow",
		"livemode", "status", "type")
}

func (s *Source) ObjectID() string   { return string(s.ID) }
func (s *Source) ObjectType() string { return "source" }
