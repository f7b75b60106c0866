package store

import (
	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

type settings struct {
	log      zerolog.Logger
	observer ports.IntentObserver
}

// Option configures a store.
type Option func(*settings)

// WithLogger sets the logger used for intent lifecycle messages.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithObserver sets the observer notified of intent phases.
func WithObserver(o ports.IntentObserver) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: zerolog.Nop(), observer: ports.NopObserver{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
