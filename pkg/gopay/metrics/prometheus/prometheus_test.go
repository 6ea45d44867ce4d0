package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func labels(m *dto.Metric) map[string]string {
	out := map[string]string{}
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestMetrics_RecordAPICall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordAPICall("GET", "/customers/{customer}", "200")
	m.RecordAPICall("GET", "/customers/{customer}", "200")
	m.RecordAPICall("GET", "/customers/{customer}", "404")

	family := gather(t, reg)["test_api_calls_total"]
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 2)
	for _, metric := range family.GetMetric() {
		l := labels(metric)
		assert.Equal(t, "GET", l["method"])
		assert.Equal(t, "/customers/{customer}", l["endpoint"])
		switch l["status"] {
		case "200":
			assert.Equal(t, 2.0, metric.GetCounter().GetValue())
		case "404":
			assert.Equal(t, 1.0, metric.GetCounter().GetValue())
		default:
			t.Fatalf("unexpected status label %q", l["status"])
		}
	}
}

func TestMetrics_RecordAPICallDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordAPICallDuration("POST", "/payment_intents", 50*time.Millisecond)

	family := gather(t, reg)["test_api_call_duration_seconds"]
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)
	h := family.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 0.05, h.GetSampleSum(), 0.001)
}

func TestMetrics_Webhooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordWebhookEvent("payment_intent.succeeded", "success")
	m.RecordWebhookError("invalid_signature")

	families := gather(t, reg)
	events := families["test_webhook_events_total"]
	require.NotNil(t, events)
	assert.Equal(t, map[string]string{"event_type": "payment_intent.succeeded", "status": "success"},
		labels(events.GetMetric()[0]))

	errs := families["test_webhook_errors_total"]
	require.NotNil(t, errs)
	assert.Equal(t, 1.0, errs.GetMetric()[0].GetCounter().GetValue())
}

func TestMetrics_CircuitBreakerStateChange(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordCircuitBreakerStateChange("open")
	m.RecordCircuitBreakerStateChange("closed")

	family := gather(t, reg)["test_circuit_breaker_state_changes_total"]
	require.NotNil(t, family)
	assert.Len(t, family.GetMetric(), 2)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg, "test")
	assert.Panics(t, func() { NewMetrics(reg, "test") })
}
