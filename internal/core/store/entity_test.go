package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func users(ids ...string) []domain.User {
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.User{ID: domain.ID(id), Name: "user " + id})
	}
	return out
}

func ids[T Record](items []T) []domain.ID {
	out := make([]domain.ID, 0, len(items))
	for _, it := range items {
		out = append(out, it.RecordID())
	}
	return out
}

func list[T Record](items []T) Call[T] {
	return func(context.Context) (Payload[T], error) { return Payload[T]{Records: items}, nil }
}

func one[T Record](item T) Call[T] {
	return func(context.Context) (Payload[T], error) { return Payload[T]{Record: item}, nil }
}

func fail[T Record](err error) Call[T] {
	return func(context.Context) (Payload[T], error) { return Payload[T]{}, err }
}

// gated returns a call that blocks until release is closed.
func gated[T Record](release <-chan struct{}, p Payload[T]) Call[T] {
	return func(context.Context) (Payload[T], error) {
		<-release
		return p, nil
	}
}

func seeded(t *testing.T, items []domain.User) *EntityStore[domain.User] {
	t.Helper()
	s := NewEntityStore[domain.User](NameUsers)
	if res := s.Run(context.Background(), OpFetchAll, list(items)); !res.IsOk() {
		t.Fatalf("seed fetch failed: %v", res.Err())
	}
	return s
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestEntityStore_FetchAllReplacesCollection(t *testing.T) {
	s := seeded(t, users("9"))

	res := s.Run(context.Background(), OpFetchAll, list(users("1", "2")))
	if !res.IsOk() {
		t.Fatalf("fetch failed: %v", res.Err())
	}

	snap := s.Snapshot()
	if got := ids(snap.Items); !reflect.DeepEqual(got, []domain.ID{"1", "2"}) {
		t.Fatalf("expected exactly [1 2], got %v", got)
	}
	if snap.Status.Loading || snap.Status.Error != "" {
		t.Fatalf("unexpected status: %+v", snap.Status)
	}
	if snap.Status.Phase != PhaseSettledOK {
		t.Fatalf("expected settled-ok, got %s", snap.Status.Phase)
	}
}

func TestEntityStore_CreateAppendsServerRecord(t *testing.T) {
	s := seeded(t, users("1", "2"))

	s.Run(context.Background(), OpCreate, one(domain.User{ID: "3", Name: "new"}))

	if got := ids(s.Snapshot().Items); !reflect.DeepEqual(got, []domain.ID{"1", "2", "3"}) {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestEntityStore_CreateWithExistingIDReplaces(t *testing.T) {
	s := seeded(t, users("1", "2"))

	s.Run(context.Background(), OpCreate, one(domain.User{ID: "2", Name: "again"}))

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected one record per id, got %v", ids(snap.Items))
	}
	if snap.Items[1].Name != "again" {
		t.Fatalf("expected record 2 replaced, got %+v", snap.Items[1])
	}
}

func TestEntityStore_UpdateReplacesInPlace(t *testing.T) {
	s := seeded(t, users("1", "2", "3"))

	p := s.Start(context.Background(), OpUpdate, one(domain.User{ID: "2", Name: "renamed"}))
	p.Wait()

	snap := s.Snapshot()
	if snap.Items[1].Name != "renamed" || snap.Items[1].ID != "2" {
		t.Fatalf("expected record 2 replaced at index 1, got %+v", snap.Items)
	}
	if p.Outcome() != ports.OutcomeOK {
		t.Fatalf("expected ok outcome, got %s", p.Outcome())
	}
}

func TestEntityStore_UpdateMissingIDIsSilentNoop(t *testing.T) {
	s := NewEntityStore[domain.Task](NameTasks)
	s.Run(context.Background(), OpFetchAll, list([]domain.Task{{ID: "1", Status: domain.TaskPending}}))
	before := s.Snapshot().Items

	p := s.Start(context.Background(), OpUpdate, one(domain.Task{ID: "2", Status: domain.TaskCompleted}))
	res := p.Wait()

	if !res.IsOk() {
		t.Fatalf("expected no error, got %v", res.Err())
	}
	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Items, before) {
		t.Fatalf("collection changed: %+v", snap.Items)
	}
	if snap.Status.Error != "" || snap.Status.Loading {
		t.Fatalf("unexpected status: %+v", snap.Status)
	}
	if p.Outcome() != ports.OutcomeDropped {
		t.Fatalf("expected dropped outcome, got %s", p.Outcome())
	}
}

func TestEntityStore_DeleteRemovesByID(t *testing.T) {
	s := seeded(t, users("1", "2", "3"))

	s.Run(context.Background(), OpDelete, func(context.Context) (Payload[domain.User], error) {
		return Payload[domain.User]{ID: "2"}, nil
	})

	if got := ids(s.Snapshot().Items); !reflect.DeepEqual(got, []domain.ID{"1", "3"}) {
		t.Fatalf("expected [1 3], got %v", got)
	}
}

func TestEntityStore_FailureLeavesCollectionUnchanged(t *testing.T) {
	s := seeded(t, users("1", "2"))
	before := s.Snapshot().Items

	res := s.Run(context.Background(), OpUpdate, fail[domain.User](domain.ServerError(500, "database unavailable")))

	if res.IsOk() {
		t.Fatalf("expected failure")
	}
	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Items, before) {
		t.Fatalf("collection mutated on failure: %+v", snap.Items)
	}
	if snap.Status.Loading {
		t.Fatalf("loading must be cleared")
	}
	if snap.Status.Error != "database unavailable" {
		t.Fatalf("unexpected error message: %q", snap.Status.Error)
	}
	if snap.Status.Phase != PhaseSettledError {
		t.Fatalf("expected settled-error, got %s", snap.Status.Phase)
	}
}

func TestEntityStore_IssueMarksLoadingBeforeCallRuns(t *testing.T) {
	s := seeded(t, users("1"))
	_ = s.Run(context.Background(), OpUpdate, fail[domain.User](errors.New("previous failure")))

	called := make(chan struct{})
	release := make(chan struct{})
	var statusAtCall RequestStatus
	p := s.Start(context.Background(), OpFetchAll, func(context.Context) (Payload[domain.User], error) {
		statusAtCall = s.Snapshot().Status
		close(called)
		<-release
		return Payload[domain.User]{Records: users("1")}, nil
	})

	snap := s.Snapshot()
	if !snap.Status.Loading || snap.Status.Error != "" || snap.Status.Phase != PhasePending {
		t.Fatalf("expected pending status right after Start, got %+v", snap.Status)
	}

	<-called
	if !statusAtCall.Loading {
		t.Fatalf("store was not loading when the remote call started")
	}
	close(release)
	p.Wait()

	if s.Snapshot().Status.Loading {
		t.Fatalf("loading must be cleared after settlement")
	}
}

func TestEntityStore_ConcurrentFetchSecondIssuedWins(t *testing.T) {
	s := NewEntityStore[domain.Task](NameTasks)
	firstRelease := make(chan struct{})
	secondRelease := make(chan struct{})

	first := s.Start(context.Background(), OpFetchAll,
		gated(firstRelease, Payload[domain.Task]{Records: []domain.Task{{ID: "old"}}}))
	second := s.Start(context.Background(), OpFetchAll,
		gated(secondRelease, Payload[domain.Task]{Records: []domain.Task{{ID: "new-1"}, {ID: "new-2"}}}))

	close(secondRelease)
	second.Wait()
	close(firstRelease)
	first.Wait()

	snap := s.Snapshot()
	if got := ids(snap.Items); !reflect.DeepEqual(got, []domain.ID{"new-1", "new-2"}) {
		t.Fatalf("expected second response to win, got %v", got)
	}
	if first.Outcome() != ports.OutcomeStale {
		t.Fatalf("expected first fetch to be stale, got %s", first.Outcome())
	}
	if snap.Status.Loading {
		t.Fatalf("expected loading cleared")
	}
}

func TestEntityStore_StatusTracksMostRecentlyIssued(t *testing.T) {
	s := seeded(t, users("1"))
	release := make(chan struct{})

	older := s.Start(context.Background(), OpFetchAll, gated(release, Payload[domain.User]{Records: users("1")}))
	newer := s.Start(context.Background(), OpUpdate, fail[domain.User](errors.New("rejected")))
	newer.Wait()

	if got := s.Snapshot().Status.Error; got != "rejected" {
		t.Fatalf("expected newer failure to be visible, got %q", got)
	}

	close(release)
	older.Wait()

	snap := s.Snapshot()
	if snap.Status.Error != "rejected" {
		t.Fatalf("older settlement must not overwrite status, got %+v", snap.Status)
	}
}

func TestEntityStore_MutationsKeepIDsUnique(t *testing.T) {
	s := seeded(t, users("1", "2"))
	ctx := context.Background()

	steps := []struct {
		op   Op
		call Call[domain.User]
	}{
		{OpCreate, one(domain.User{ID: "3"})},
		{OpCreate, one(domain.User{ID: "3"})},
		{OpUpdate, one(domain.User{ID: "1", Name: "x"})},
		{OpDelete, func(context.Context) (Payload[domain.User], error) { return Payload[domain.User]{ID: "2"}, nil }},
		{OpCreate, one(domain.User{ID: "2"})},
		{OpUpdate, one(domain.User{ID: "42"})},
	}
	for i, step := range steps {
		s.Run(ctx, step.op, step.call)
		seen := map[domain.ID]bool{}
		for _, id := range ids(s.Snapshot().Items) {
			if seen[id] {
				t.Fatalf("step %d: duplicate id %s", i, id)
			}
			seen[id] = true
		}
	}
}

func TestEntityStore_SubscribeSeesMonotonicVersions(t *testing.T) {
	s := NewEntityStore[domain.User](NameUsers)
	versions := make(chan uint64, 64)
	unsubscribe := s.Subscribe(func(snap EntitySnapshot[domain.User]) { versions <- snap.Version })

	for i := 0; i < 5; i++ {
		s.Run(context.Background(), OpCreate, one(domain.User{ID: domain.ID(fmt.Sprint(i))}))
	}
	unsubscribe()
	s.Run(context.Background(), OpCreate, one(domain.User{ID: "after"}))
	close(versions)

	var last uint64
	count := 0
	for v := range versions {
		if v <= last {
			t.Fatalf("versions went backwards: %d after %d", v, last)
		}
		last = v
		count++
	}
	if count != 10 {
		t.Fatalf("expected 10 notifications (issue+settle x5), got %d", count)
	}
}

type recordingObserver struct {
	issued  chan string
	settled chan ports.Outcome
}

func (o *recordingObserver) IntentIssued(store, op string) { o.issued <- store + ":" + op }
func (o *recordingObserver) IntentSettled(_, _ string, outcome ports.Outcome, _ time.Duration) {
	o.settled <- outcome
}

func TestEntityStore_NotifiesObserver(t *testing.T) {
	obs := &recordingObserver{issued: make(chan string, 1), settled: make(chan ports.Outcome, 1)}
	s := NewEntityStore[domain.User](NameUsers, WithObserver(obs))

	s.Run(context.Background(), OpUpdate, one(domain.User{ID: "missing"}))

	if got := <-obs.issued; got != "users:update" {
		t.Fatalf("unexpected issued label %q", got)
	}
	if got := <-obs.settled; got != ports.OutcomeDropped {
		t.Fatalf("unexpected outcome %s", got)
	}
}

func TestEntityStore_RequestIDReachesCall(t *testing.T) {
	s := NewEntityStore[domain.User](NameUsers)
	var seen string
	p := s.Start(context.Background(), OpFetchAll, func(ctx context.Context) (Payload[domain.User], error) {
		seen = RequestIDFrom(ctx)
		return Payload[domain.User]{}, nil
	})
	p.Wait()

	if seen == "" || seen != p.RequestID {
		t.Fatalf("expected request id %q in call context, got %q", p.RequestID, seen)
	}
}

func TestEntityStore_EmptySnapshot(t *testing.T) {
	s := NewEntityStore[domain.Task](NameTasks)
	snap := s.Snapshot()
	if len(snap.Items) != 0 || snap.Status.Loading || snap.Status.Phase != PhaseIdle {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
}
