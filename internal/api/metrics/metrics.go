// Package metrics defines and registers the Prometheus metrics of the
// dashboard state core. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; the ops router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Intent metrics ────────────────────────────────────────────────────────────

// IntentsIssuedTotal counts intents at the moment they mark a store loading.
// Labels:
//   - store: "users", "tasks" or "session"
//   - op: the intent name (e.g. "fetch_all", "login")
var IntentsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intents_issued_total",
		Help:      "Total number of intents issued against a store.",
	},
	[]string{"store", "op"},
)

// IntentsSettledTotal counts settlements.
// Labels:
//   - store, op: as above
//   - outcome: "ok", "error", "stale" (superseded fetch) or "dropped" (update of a missing record)
var IntentsSettledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intents_settled_total",
		Help:      "Total number of settled intents, by outcome.",
	},
	[]string{"store", "op", "outcome"},
)

// IntentsInFlight tracks intents issued but not yet settled.
var IntentsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "intents_in_flight",
		Help:      "Current number of intents awaiting settlement.",
	},
	[]string{"store"},
)

// IntentDuration measures issue-to-settlement latency, remote call included.
var IntentDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "intent_duration_seconds",
		Help:      "Duration from intent issue to settlement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"store", "op"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// CollectionSize is the number of records held by each entity store.
var CollectionSize = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collection_size",
		Help:      "Number of records currently held by an entity store.",
	},
	[]string{"store"},
)

// SessionAuthenticated is 1 while an identity is signed in.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "1 when the session holds an authenticated identity, 0 otherwise.",
	},
)
