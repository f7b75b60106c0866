package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// Call performs the remote half of an intent.
type Call[T Record] func(ctx context.Context) (Payload[T], error)

// Pending is an intent that has been issued and may not have settled yet.
type Pending[T Record] struct {
	Seq       uint64
	Op        Op
	RequestID string

	done    chan struct{}
	result  Result[Payload[T]]
	outcome ports.Outcome
}

// Done is closed once the intent has settled and its effect is committed.
func (p *Pending[T]) Done() <-chan struct{} { return p.done }

// Wait blocks until settlement and returns the call's result.
func (p *Pending[T]) Wait() Result[Payload[T]] {
	<-p.done
	return p.result
}

// Outcome reports how the settlement was committed. Valid after Done.
func (p *Pending[T]) Outcome() ports.Outcome {
	<-p.done
	return p.outcome
}

// Start issues an intent: the store is marked loading before Start returns
// and before call runs. call executes on its own goroutine and its outcome is
// committed as Succeeded or Failed. A later intent never aborts an earlier one.
func (s *EntityStore[T]) Start(ctx context.Context, op Op, call Call[T]) *Pending[T] {
	seq := s.issue(op)
	p := &Pending[T]{
		Seq:       seq,
		Op:        op,
		RequestID: uuid.NewString(),
		done:      make(chan struct{}),
	}
	s.cfg.observer.IntentIssued(s.name, string(op))
	log := s.logger()
	log.Debug().Str("op", string(op)).Uint64("seq", seq).Str("request_id", p.RequestID).Msg("intent issued")

	callCtx := WithRequestID(ctx, p.RequestID)
	started := time.Now()
	go func() {
		defer close(p.done)

		payload, err := call(callCtx)
		if err != nil {
			msg := domain.Message(err)
			p.outcome = s.apply(Failed{Seq: seq, Op: op, Message: msg})
			p.result = Err[Payload[T]](err)
			log.Warn().Err(err).
				Str("op", string(op)).
				Str("request_id", p.RequestID).
				Str("kind", domain.KindOf(err).String()).
				Msg("intent failed")
		} else {
			p.outcome = s.apply(Succeeded[T]{Seq: seq, Op: op, Records: payload.Records, Record: payload.Record, ID: payload.ID})
			p.result = Ok(payload)
			switch p.outcome {
			case ports.OutcomeStale:
				log.Info().Str("op", string(op)).Uint64("seq", seq).Msg("stale fetch discarded")
			case ports.OutcomeDropped:
				log.Warn().Str("op", string(op)).Str("id", payload.Record.RecordID().String()).
					Msg("update dropped: record not in collection")
			default:
				log.Debug().Str("op", string(op)).Str("request_id", p.RequestID).Msg("intent settled")
			}
		}
		s.cfg.observer.IntentSettled(s.name, string(op), p.outcome, time.Since(started))
	}()
	return p
}

// Run issues an intent and waits for it to settle.
func (s *EntityStore[T]) Run(ctx context.Context, op Op, call Call[T]) Result[Payload[T]] {
	return s.Start(ctx, op, call).Wait()
}
