package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "foodorder"

// Recorder owns every application metric. A nil Recorder, or one built
// with a nil registerer, silently drops observations.
type Recorder struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ordersPlaced    *prometheus.CounterVec
	stepTransitions *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	outboxPublished *prometheus.CounterVec
}

// New registers the metrics on reg.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{}
	}
	r := &Recorder{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed by payment method.",
		}, []string{"payment_method"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_step_transitions_total",
			Help:      "Order step writes by previous and new step.",
		}, []string{"from", "to"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Successful cart mutations by operation.",
		}, []string{"op"}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox publish attempts by event type and result.",
		}, []string{"event_type", "result"}),
	}
	reg.MustRegister(r.httpRequests, r.httpDuration, r.ordersPlaced, r.stepTransitions, r.cartMutations, r.outboxPublished)
	return r
}

func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil || r.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Recorder) OrderPlaced(paymentMethod string) {
	if r == nil || r.ordersPlaced == nil {
		return
	}
	r.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

func (r *Recorder) StepTransition(from, to int) {
	if r == nil || r.stepTransitions == nil {
		return
	}
	r.stepTransitions.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
}

func (r *Recorder) CartMutation(op string) {
	if r == nil || r.cartMutations == nil {
		return
	}
	r.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (r *Recorder) OutboxPublished(eventType string, ok bool) {
	if r == nil || r.outboxPublished == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	r.outboxPublished.WithLabelValues(normalizeLabel(eventType), result).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
