package gopay

import "time"

// Metrics defines the interface for tracking API calls and webhook deliveries.
type Metrics interface {
	// RecordAPICall records a completed API call. status is the HTTP status
	// code, or "network_error" when no response was received.
	RecordAPICall(method, endpoint, status string)

	// RecordAPICallDuration records the latency of an API call.
	RecordAPICallDuration(method, endpoint string, duration time.Duration)

	// RecordWebhookEvent records a processed webhook event ("success", "error", "duplicate").
	RecordWebhookEvent(eventType, status string)

	// RecordWebhookError records a rejected webhook delivery.
	RecordWebhookError(errorType string)

	// RecordCircuitBreakerStateChange records a circuit breaker state change.
	RecordCircuitBreakerStateChange(state string)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordAPICall(method, endpoint, status string)                         {}
func (n *NoopMetrics) RecordAPICallDuration(method, endpoint string, duration time.Duration) {}
func (n *NoopMetrics) RecordWebhookEvent(eventType, status string)                           {}
func (n *NoopMetrics) RecordWebhookError(errorType string)                                   {}
func (n *NoopMetrics) RecordCircuitBreakerStateChange(state string)                          {}
