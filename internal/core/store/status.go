package store

// Op names the kind of intent an entity store can run.
type Op string

const (
	OpFetchAll Op = "fetch_all"
	OpCreate   Op = "create"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
)

// Phase is where the most recently issued intent of a store stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSettledOK
	PhaseSettledError
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSettledOK:
		return "settled-ok"
	case PhaseSettledError:
		return "settled-error"
	}
	return "idle"
}

// RequestStatus is the request-status flag attached to an entity store. It
// tracks the most recently issued intent, not individual records.
type RequestStatus struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Phase   Phase  `json:"-"`
}
