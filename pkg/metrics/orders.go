package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records checkout and payment outcomes.
type OrderMetrics struct {
	checkouts       *prometheus.CounterVec
	payments        *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_verifications_total",
		Help: "Payment verification attempts by result.",
	}, []string{"result"})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(checkouts, payments, gatewayDuration)
	return &OrderMetrics{
		checkouts:       checkouts,
		payments:        payments,
		gatewayDuration: gatewayDuration,
	}
}

// IncCheckout counts one checkout attempt with the given result label.
func (o *OrderMetrics) IncCheckout(result string) {
	if o == nil || o.checkouts == nil {
		return
	}
	o.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncPaymentVerification counts one verification attempt with the given result label.
func (o *OrderMetrics) IncPaymentVerification(result string) {
	if o == nil || o.payments == nil {
		return
	}
	o.payments.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveGatewayCall records the duration of a gateway operation.
func (o *OrderMetrics) ObserveGatewayCall(operation string, elapsed time.Duration) {
	if o == nil || o.gatewayDuration == nil {
		return
	}
	o.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(elapsed.Seconds())
}
