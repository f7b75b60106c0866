package store

import (
	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// Event is the closed set of transitions an entity store accepts: Issued,
// Succeeded or Failed. The unexported marker keeps the set closed.
type Event interface {
	entityEvent()
}

// Issued marks an intent as in flight.
type Issued struct {
	Seq uint64
	Op  Op
}

// Succeeded carries the confirmed result of a remote call. Which field is
// meaningful depends on Op: Records for fetch_all, Record for create and
// update, ID for delete.
type Succeeded[T Record] struct {
	Seq     uint64
	Op      Op
	Records []T
	Record  T
	ID      domain.ID
}

// Failed carries the message extracted from a failed remote call.
type Failed struct {
	Seq     uint64
	Op      Op
	Message string
}

func (Issued) entityEvent()       {}
func (Succeeded[T]) entityEvent() {}
func (Failed) entityEvent()       {}

// Payload is what an intent's remote call returns to the coordinator.
type Payload[T Record] struct {
	Records []T
	Record  T
	ID      domain.ID
}
