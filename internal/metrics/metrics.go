package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the storefront's collectors. Each Recorder has its own
// registry so tests can build as many as they like.
type Recorder struct {
	registry        *prometheus.Registry
	cartOps         *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	paymentOutcomes *prometheus.CounterVec
	verifyDuration  prometheus.Histogram
	breakerState    *prometheus.GaugeVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkout_transitions_total",
			Help: "Checkout step transitions by target step and result.",
		}, []string{"to", "result"}),
		paymentOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_payment_outcomes_total",
			Help: "Payment results by outcome.",
		}, []string{"outcome"}),
		verifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_payment_verify_duration_seconds",
			Help:    "Latency of provider verification calls.",
			Buckets: prometheus.DefBuckets,
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"name"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(
		r.cartOps, r.transitions, r.paymentOutcomes, r.verifyDuration,
		r.breakerState, r.httpRequests, r.httpDuration,
		prometheus.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) CartOp(op string) {
	r.cartOps.WithLabelValues(op).Inc()
}

func (r *Recorder) Transition(to string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	r.transitions.WithLabelValues(to, result).Inc()
}

func (r *Recorder) PaymentOutcome(outcome string) {
	r.paymentOutcomes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveVerify(d time.Duration) {
	r.verifyDuration.Observe(d.Seconds())
}

func (r *Recorder) BreakerState(name string, state float64) {
	r.breakerState.WithLabelValues(name).Set(state)
}

func (r *Recorder) HTTPRequest(method, route string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
