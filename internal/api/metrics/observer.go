package metrics

import (
	"time"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

// Observer records intent lifecycles. It satisfies ports.IntentObserver.
type Observer struct{}

var _ ports.IntentObserver = Observer{}

func (Observer) IntentIssued(storeName, op string) {
	IntentsIssuedTotal.WithLabelValues(storeName, op).Inc()
	IntentsInFlight.WithLabelValues(storeName).Inc()
}

func (Observer) IntentSettled(storeName, op string, outcome ports.Outcome, elapsed time.Duration) {
	IntentsInFlight.WithLabelValues(storeName).Dec()
	IntentsSettledTotal.WithLabelValues(storeName, op, string(outcome)).Inc()
	IntentDuration.WithLabelValues(storeName, op).Observe(elapsed.Seconds())
}

// Watch keeps the store gauges in step with c. The returned func stops it.
func Watch(c *store.Container) func() {
	stopUsers := c.Users.Subscribe(func(s store.EntitySnapshot[domain.User]) {
		CollectionSize.WithLabelValues(store.NameUsers).Set(float64(len(s.Items)))
	})
	stopTasks := c.Tasks.Subscribe(func(s store.EntitySnapshot[domain.Task]) {
		CollectionSize.WithLabelValues(store.NameTasks).Set(float64(len(s.Items)))
	})
	stopSession := c.Session.Subscribe(setAuthenticated)

	// Seed after subscribing so no transition falls between the two.
	CollectionSize.WithLabelValues(store.NameUsers).Set(float64(len(c.Users.Snapshot().Items)))
	CollectionSize.WithLabelValues(store.NameTasks).Set(float64(len(c.Tasks.Snapshot().Items)))
	setAuthenticated(c.Session.Snapshot())

	return func() {
		stopUsers()
		stopTasks()
		stopSession()
	}
}

func setAuthenticated(s store.Session) {
	if s.IsAuthenticated {
		SessionAuthenticated.Set(1)
		return
	}
	SessionAuthenticated.Set(0)
}
