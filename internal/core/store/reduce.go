package store

import (
	"fmt"
	"slices"

	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// entityState is everything an entity store owns. issued and fetched are the
// sequence numbers of the newest issued intent and the newest committed
// fetch_all.
type entityState[T Record] struct {
	items   []T
	status  RequestStatus
	issued  uint64
	fetched uint64
}

// reduce is the single transition function for entity stores. It never
// mutates s in place; the returned outcome is empty for Issued.
func reduce[T Record](s entityState[T], ev Event) (entityState[T], ports.Outcome) {
	switch e := ev.(type) {
	case Issued:
		if e.Seq > s.issued {
			s.issued = e.Seq
		}
		s.status = RequestStatus{Loading: true, Phase: PhasePending}
		return s, ""

	case Succeeded[T]:
		outcome := ports.OutcomeOK
		switch e.Op {
		case OpFetchAll:
			if e.Seq < s.fetched {
				outcome = ports.OutcomeStale
				break
			}
			s.items = slices.Clone(e.Records)
			s.fetched = e.Seq
		case OpCreate:
			s.items = upsert(s.items, e.Record)
		case OpUpdate:
			var ok bool
			s.items, ok = replace(s.items, e.Record)
			if !ok {
				outcome = ports.OutcomeDropped
			}
		case OpDelete:
			s.items = remove(s.items, e)
		default:
			panic(fmt.Sprintf("store: unknown op %q", e.Op))
		}
		if e.Seq == s.issued {
			s.status = RequestStatus{Phase: PhaseSettledOK}
		}
		return s, outcome

	case Failed:
		if e.Seq == s.issued {
			s.status = RequestStatus{Error: e.Message, Phase: PhaseSettledError}
		}
		return s, ports.OutcomeError
	}
	panic(fmt.Sprintf("store: unexpected event %T", ev))
}

// upsert appends r, or replaces the record already holding its id.
func upsert[T Record](items []T, r T) []T {
	if out, ok := replace(items, r); ok {
		return out
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, r)
}

func replace[T Record](items []T, r T) ([]T, bool) {
	idx := slices.IndexFunc(items, func(it T) bool { return it.RecordID() == r.RecordID() })
	if idx < 0 {
		return items, false
	}
	out := slices.Clone(items)
	out[idx] = r
	return out, true
}

func remove[T Record](items []T, e Succeeded[T]) []T {
	return slices.DeleteFunc(slices.Clone(items), func(it T) bool { return it.RecordID() == e.ID })
}
