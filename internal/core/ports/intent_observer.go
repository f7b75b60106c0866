package ports

import "time"

// Outcome labels how an intent settled.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeError   Outcome = "error"
	OutcomeStale   Outcome = "stale"
	OutcomeDropped Outcome = "dropped"
)

// IntentObserver is notified as intents move through their phases.
type IntentObserver interface {
	IntentIssued(store, op string)
	IntentSettled(store, op string, outcome Outcome, elapsed time.Duration)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) IntentIssued(string, string)                          {}
func (NopObserver) IntentSettled(string, string, Outcome, time.Duration) {}
