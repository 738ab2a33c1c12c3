// Package history keeps browser-style back/forward navigation state.
//
// History is not safe for concurrent use; callers serialise transitions
// together with the directory read each one triggers.
package history

// State is a copy of the navigation state.
type State struct {
	Past    []string `json:"past"`
	Present string   `json:"present"`
	Future  []string `json:"future"`
}

// History tracks visited directories.
type History struct {
	past    []string
	present string
	future  []string
}

// New returns a history positioned at initial.
func New(initial string) *History {
	return &History{present: initial}
}

// Navigate moves to path, pushing the present onto the past and dropping the future.
func (h *History) Navigate(path string) {
	h.past = append(h.past, h.present)
	h.present = path
	h.future = nil
}

// Undo steps back. It returns false and changes nothing when there is no past.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	last := len(h.past) - 1
	h.future = append([]string{h.present}, h.future...)
	h.present = h.past[last]
	h.past = h.past[:last]
	return true
}

// Redo steps forward. It returns false and changes nothing when there is no future.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[0]
	h.future = h.future[1:]
	return true
}

// Reset returns to the empty state.
func (h *History) Reset() {
	h.past = nil
	h.present = ""
	h.future = nil
}

func (h *History) CanUndo() bool   { return len(h.past) > 0 }
func (h *History) CanRedo() bool   { return len(h.future) > 0 }
func (h *History) Present() string { return h.present }

// Snapshot copies the current state. Empty stacks are returned as empty, not nil, slices.
func (h *History) Snapshot() State {
	return State{
		Past:    append([]string{}, h.past...),
		Present: h.present,
		Future:  append([]string{}, h.future...),
	}
}
