package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every storefront metric. A private registry keeps tests free
// of the global default registerer.
var Registry = prometheus.NewRegistry()

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Orders created by payment method",
		},
		[]string{"payment_method"},
	)

	OrderEventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_events_processed_total",
			Help: "Order events consumed from the bus by result",
		},
		[]string{"type", "result"},
	)

	CourierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_courier_requests_total",
			Help: "Calls to the courier API by result",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestCount,
		RequestDuration,
		LoginAttempts,
		OrdersCreated,
		OrderEventsProcessed,
		CourierRequests,
	)
}
