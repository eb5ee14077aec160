package agent

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics (registered once).
var (
	eventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentry_events_processed_total",
			Help: "Total events fetched and classified",
		},
		[]string{"agent", "domain", "risk"},
	)
	alertsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentry_alerts_generated_total",
			Help: "Total alerts raised",
		},
		[]string{"agent", "severity"},
	)
	incidentsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentry_incidents_generated_total",
			Help: "Total incidents raised",
		},
		[]string{"agent"},
	)
	responseActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentry_response_actions_total",
			Help: "Total response actions taken",
		},
		[]string{"action"},
	)
	renderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentry_render_failures_total",
			Help: "Total response actions skipped due to render errors",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsProcessed)
	prometheus.MustRegister(alertsGenerated)
	prometheus.MustRegister(incidentsGenerated)
	prometheus.MustRegister(responseActions)
	prometheus.MustRegister(renderFailures)
}
