package gopay

// Address is a postal address. Every field is optional on the wire.
type Address struct {
	City       *string `json:"city,omitempty"`
	Country    *string `json:"country,omitempty"`
	Line1      *string `json:"line1,omitempty"`
	Line2      *string `json:"line2,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	State      *string `json:"state,omitempty"`
}

type AddressParams struct {
	City       *string `form:"city"`
	Country    *string `form:"country"`
	Line1      *string `form:"line1"`
	Line2      *string `form:"line2"`
	PostalCode *string `form:"postal_code"`
	State      *string `form:"state"`
}

// BillingDetails is the billing contact attached to a payment method.
type BillingDetails struct {
	Address *Address `json:"address,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Name    *string  `json:"name,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
}

type BillingDetailsParams struct {
	Address *AddressParams `form:"address"`
	Email   *string        `form:"email"`
	Name    *string        `form:"name"`
	Phone   *string        `form:"phone"`
}

// Shipping is a delivery address with the recipient and carrier details.
type Shipping struct {
	Address        *Address `json:"address,omitempty"`
	Carrier        *string  `json:"carrier,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	TrackingNumber *string  `json:"tracking_number,omitempty"`
}

type ShippingParams struct {
	Address        *AddressParams `form:"address"`
	Carrier        *string        `form:"carrier"`
	Name           *string        `form:"name"`
	Phone          *string        `form:"phone"`
	TrackingNumber *string        `form:"tracking_number"`
}

// Discount is the coupon currently applied to a customer or subscription.
type Discount struct {
	Coupon       *Coupon         `json:"coupon,omitempty"`
	Customer     *string         `json:"customer,omitempty"`
	Start        *int64          `json:"start,omitempty"`
	End          *int64          `json:"end,omitempty"`
	Subscription *SubscriptionID `json:"subscription,omitempty"`
}

type Coupon struct {
	ID               CouponID  `json:"id"`
	AmountOff        *int64    `json:"amount_off,omitempty"`
	Currency         *Currency `json:"currency,omitempty"`
	Duration         *string   `json:"duration,omitempty"`
	DurationInMonths *int64    `json:"duration_in_months,omitempty"`
	PercentOff       *float64  `json:"percent_off,omitempty"`
	Valid            *bool     `json:"valid,omitempty"`
}
