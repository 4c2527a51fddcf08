package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/products", 200, 25*time.Millisecond)
	m.Observe("GET", "/api/v1/products", 200, 30*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products", "200")); got != 2 {
		t.Fatalf("expected 2 GET requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "unknown", "500")); got != 1 {
		t.Fatalf("expected empty route to be normalized, got %v", got)
	}
}

func TestOrderMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.IncCheckout("success")
	m.IncCheckout("insufficient_stock")
	m.IncPaymentVerification("verified")
	m.ObserveGatewayCall("create_order", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.checkouts.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 successful checkout, got %v", got)
	}
	if got := testutil.ToFloat64(m.payments.WithLabelValues("verified")); got != 1 {
		t.Fatalf("expected 1 verification, got %v", got)
	}
}

func TestNilSafeMetrics(t *testing.T) {
	var h *HTTPMetrics
	var o *OrderMetrics
	h.Observe("GET", "/x", 200, time.Millisecond)
	o.IncCheckout("success")
	o.IncPaymentVerification("failed")
	o.ObserveGatewayCall("create_order", time.Millisecond)

	empty := NewOrderMetrics(nil)
	empty.IncCheckout("success")
}
