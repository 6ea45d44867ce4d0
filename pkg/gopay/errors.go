package gopay

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAPI is matched by every error response returned by the API
	ErrAPI = errors.New("api error")

	// ErrNotFound is returned when the API responds with 404
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned when the request never produced an HTTP response
	ErrNetwork = errors.New("network error")

	// ErrUnknownCurrency is returned for currency codes outside the declared set
	ErrUnknownCurrency = errors.New("unknown currency code")

	// ErrUnrecognizedValue is returned when an enum value the client does not
	// know is sent back to the API
	ErrUnrecognizedValue = errors.New("unrecognized enum value")

	// ErrMissingField is returned when a required field is absent from a response
	ErrMissingField = errors.New("missing required field")

	// ErrMissingID is returned when an operation is called with an empty identifier
	ErrMissingID = errors.New("missing identifier")

	// ErrInvalidConfig is returned by Config.Validate
	ErrInvalidConfig = errors.New("invalid config")

	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// ErrorType is the category reported in an API error body.
type ErrorType string

const (
	ErrorTypeAPI            ErrorType = "api_error"
	ErrorTypeAPIConnection  ErrorType = "api_connection_error"
	ErrorTypeAuthentication ErrorType = "authentication_error"
	ErrorTypeCard           ErrorType = "card_error"
	ErrorTypeIdempotency    ErrorType = "idempotency_error"
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	ErrorTypeRateLimit      ErrorType = "rate_limit_error"
)

var knownErrorTypes = []ErrorType{
	ErrorTypeAPI, ErrorTypeAPIConnection, ErrorTypeAuthentication, ErrorTypeCard,
	ErrorTypeIdempotency, ErrorTypeInvalidRequest, ErrorTypeRateLimit,
}

// Known reports whether t is one of the declared error types.
func (t ErrorType) Known() bool { return isKnown(t, knownErrorTypes) }

// APIError is the decoded body of a non-2xx response.
type APIError struct {
	StatusCode  int       `json:"-"`
	RequestID   string    `json:"-"`
	Type        ErrorType `json:"type"`
	Code        string    `json:"code,omitempty"`
	DeclineCode string    `json:"decline_code,omitempty"`
	Param       string    `json:"param,omitempty"`
	Message     string    `json:"message,omitempty"`
	DocURL      string    `json:"doc_url,omitempty"`
	ChargeID    string    `json:"charge,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Type != "" {
		return fmt.Sprintf("api error (status %d, type %s): %s", e.StatusCode, e.Type, msg)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, msg)
}

// Is matches ErrAPI for every API error and ErrNotFound for 404 responses.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Temporary reports whether the failure is on the server side.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// SchemaError reports a response that does not match the resource schema.
type SchemaError struct {
	Object string
	Field  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Object, ErrMissingField, e.Field)
}

func (e *SchemaError) Unwrap() error { return ErrMissingField }

// ParseCurrencyError is returned by ParseCurrency.
type ParseCurrencyError struct {
	Input string
}

func (e *ParseCurrencyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCurrency, e.Input)
}

func (e *ParseCurrencyError) Unwrap() error { return ErrUnknownCurrency }

// UnrecognizedValueError is returned when an enum value received from the API
// but unknown to this client is encoded again.
type UnrecognizedValueError struct {
	Type  string
	Value string
}

func (e *UnrecognizedValueError) Error() string {
	return fmt.Sprintf("%s: %s(%q)", ErrUnrecognizedValue, e.Type, e.Value)
}

func (e *UnrecognizedValueError) Unwrap() error { return ErrUnrecognizedValue }
