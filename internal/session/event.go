package session

import (
	"time"

	"ferret/pkg/types"
)

// Mode distinguishes directory reads from searches.
type Mode int

const (
	// Listing is a flat read of one directory; every entry is reported.
	Listing Mode = iota
	// Search is a recursive walk reporting only matching entries.
	Search
)

func (m Mode) String() string {
	if m == Search {
		return "search"
	}
	return "listing"
}

// EventKind identifies the payload of an Event.
type EventKind int

const (
	// Found carries one entry.
	Found EventKind = iota
	// Done is the last event of a session and carries its Summary.
	Done
)

func (k EventKind) String() string {
	if k == Done {
		return "done"
	}
	return "found"
}

// Event is pushed to the registry listener while a session runs.
type Event struct {
	Kind    EventKind    `json:"kind"`
	Mode    Mode         `json:"mode"`
	Session string       `json:"session"`
	Entry   *types.Entry `json:"entry,omitempty"`
	Summary *Summary     `json:"summary,omitempty"`
}

// Summary describes a finished session.
type Summary struct {
	ID       string              `json:"id"`
	Mode     Mode                `json:"mode"`
	Request  types.SearchRequest `json:"request"`
	Started  time.Time           `json:"started"`
	Finished time.Time           `json:"finished"`
	Count    int                 `json:"count"`
	// Stopped is true only when cancellation ended the walk early.
	Stopped bool  `json:"stopped"`
	Err     error `json:"-"`
}

// Elapsed is the wall time between start and finish.
func (s Summary) Elapsed() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Listener receives session events on the session's worker goroutine.
// It may call Stop but must not start a session on the same registry.
type Listener func(Event)
