package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters are registered on the default registry so the /metrics endpoint
// exposed by ginprom picks them up without extra wiring.
var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workday_cycles_total",
		Help: "Poll cycles run, by outcome (success, token_failed, fetch_failed, panic).",
	}, []string{"outcome"})

	HTTPAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workday_http_attempts_total",
		Help: "HTTP attempts against the Workday endpoints, by operation and outcome.",
	}, []string{"operation", "outcome"})

	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workday_retries_total",
		Help: "Retry waits taken after failed attempts, by operation.",
	}, []string{"operation"})

	LastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "workday_last_success_timestamp_seconds",
		Help: "Unix time of the last successfully archived payload.",
	})
)
