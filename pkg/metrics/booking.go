package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	LoginOutcomeSuccess = "success"
	LoginOutcomeFailure = "failure"
)

// BookingMetrics records account and order activity. A nil *BookingMetrics is
// a valid no-op recorder.
type BookingMetrics struct {
	registrations    prometheus.Counter
	logins           *prometheus.CounterVec
	ordersCreated    prometheus.Counter
	numberCollisions *prometheus.CounterVec
	placement        prometheus.Histogram
}

// NewBookingMetrics registers the booking metrics on reg.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return nil
	}
	m := &BookingMetrics{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoelite_registrations_total",
			Help: "Client accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecoelite_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoelite_orders_created_total",
			Help: "Service orders placed together with their invoice.",
		}),
		numberCollisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecoelite_reference_number_collisions_total",
			Help: "Generated order or invoice numbers rejected as duplicates.",
		}, []string{"kind"}),
		placement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecoelite_order_placement_duration_seconds",
			Help:    "Time spent placing an order, including retries.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.registrations, m.logins, m.ordersCreated, m.numberCollisions, m.placement)
	return m
}

func (m *BookingMetrics) IncRegistration() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

func (m *BookingMetrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) IncOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncNumberCollision counts a rejected reference number; kind is "order" or "invoice".
func (m *BookingMetrics) IncNumberCollision(kind string) {
	if m == nil {
		return
	}
	m.numberCollisions.WithLabelValues(kind).Inc()
}

func (m *BookingMetrics) ObservePlacement(d time.Duration) {
	if m == nil {
		return
	}
	m.placement.Observe(d.Seconds())
}
