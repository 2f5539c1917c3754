package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Quote transport metrics. The connections counter backs the diagnostic
// connection count surfaced by the engine; accuracy only needs to be
// eventually consistent across concurrent sessions.
var (
	QuoteConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wingtrade_quote_connections_total",
		Help: "WebSocket sessions opened against the quote service",
	})

	QuoteAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wingtrade_quote_attempts_total",
		Help: "Quote acquisition attempts by outcome",
	}, []string{"outcome"})

	QuoteLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wingtrade_quote_latency_seconds",
		Help:    "Time from session dial to first matching quote",
		Buckets: prometheus.DefBuckets,
	})

	AdmissionDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wingtrade_admission_decisions_total",
		Help: "Admission decisions by result and rejecting stage",
	}, []string{"result", "stage"})
)
