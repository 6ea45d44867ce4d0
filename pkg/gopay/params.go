package gopay

import (
	"reflect"

	"github.com/stripe/stripe-go/v83/form"
)

// Params holds the options shared by every request.
//
// Parameter structs use pointers, slices and maps for every optional field.
// A nil field is left out of the encoded request entirely, while a non-nil
// pointer is sent even when it points at a zero value. This is what lets an
// update distinguish "leave unchanged" from "set to empty".
type Params struct {
	// Expand lists response fields to inline instead of returning as ids.
	Expand []*string `form:"expand"`

	// IdempotencyKey overrides the generated Idempotency-Key header.
	IdempotencyKey *string `form:"-"`
}

// AddExpand appends a field to expand in the response.
func (p *Params) AddExpand(field string) {
	p.Expand = append(p.Expand, String(field))
}

// SetIdempotencyKey sets the Idempotency-Key header for the request.
func (p *Params) SetIdempotencyKey(key string) {
	p.IdempotencyKey = String(key)
}

// GetParams returns the shared options.
func (p *Params) GetParams() *Params { return p }

// ParamsContainer is implemented by every parameter struct embedding Params.
type ParamsContainer interface {
	GetParams() *Params
}

// ListParams holds the cursor options shared by list operations.
type ListParams struct {
	Params `form:"*"`

	// Limit is the page size, between 1 and 100.
	Limit *int64 `form:"limit"`

	// StartingAfter is the id of the last object of the previous page.
	StartingAfter *string `form:"starting_after"`

	// EndingBefore is the id of the first object of the next page.
	EndingBefore *string `form:"ending_before"`
}

// RangeQueryParams filters a timestamp or amount by bounds, encoded as
// created[gte]=... and so on.
type RangeQueryParams struct {
	GreaterThan        *int64 `form:"gt"`
	GreaterThanOrEqual *int64 `form:"gte"`
	LesserThan         *int64 `form:"lt"`
	LesserThanOrEqual  *int64 `form:"lte"`
}

// Metadata is a set of caller-defined key/value pairs attached to a resource.
type Metadata map[string]string

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Ptr returns a pointer to v. It is handy for enum and id typed fields.
func Ptr[T any](v T) *T { return &v }

type validator interface {
	Validate() error
}

// EncodeParams encodes a parameter struct into form values. The struct is
// validated first, and every nested enum or currency is checked, so that an
// unrecognized value is never sent back to the API.
func EncodeParams(params any) (*form.Values, error) {
	if isNil(params) {
		return nil, nil
	}
	if v, ok := params.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if err := checkKnown(reflect.ValueOf(params)); err != nil {
		return nil, err
	}
	values := &form.Values{}
	form.AppendTo(values, params)
	return values, nil
}

func idempotencyKey(params any) string {
	if isNil(params) {
		return ""
	}
	pc, ok := params.(ParamsContainer)
	if !ok {
		return ""
	}
	if p := pc.GetParams(); p != nil && p.IdempotencyKey != nil {
		return *p.IdempotencyKey
	}
	return ""
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
