// Package review tracks the review state of each suggestion in a batch and
// owns the single currently open diff.
package review

import (
	"errors"
	"fmt"
)

// Sentinel errors for state transitions.
var (
	ErrUnknownSuggestion = errors.New("unknown suggestion")
	ErrResolved          = errors.New("suggestion already resolved")
	ErrNotShown          = errors.New("suggestion diff is not shown")
)

// State is the review state of one suggestion.
type State int

const (
	Highlighted State = iota // anchored as a plain mark
	DiffShown                // open as a diff; at most one at a time
	Accepted                 // terminal
	Rejected                 // terminal
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Highlighted:
		return "highlighted"
	case DiffShown:
		return "diff_shown"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state removes the suggestion from the active set.
func (s State) Terminal() bool {
	return s == Accepted || s == Rejected
}

// Machine holds the review state for a batch of suggestions. The open diff
// is explicit state here rather than inferred from the document.
type Machine struct {
	states []State
	open   int // -1 when no diff is open
}

// NewMachine returns a machine with n suggestions, all Highlighted.
func NewMachine(n int) *Machine {
	return &Machine{
		states: make([]State, n),
		open:   -1,
	}
}

// Reset discards all state and starts over with n suggestions.
func (m *Machine) Reset(n int) {
	m.states = make([]State, n)
	m.open = -1
}

// Len returns the number of suggestions tracked, resolved or not.
func (m *Machine) Len() int {
	return len(m.states)
}

// State returns the state of suggestion id.
func (m *Machine) State(id int) (State, error) {
	if id < 0 || id >= len(m.states) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSuggestion, id)
	}
	return m.states[id], nil
}

// Open returns the suggestion whose diff is shown, if any.
func (m *Machine) Open() (int, bool) {
	return m.open, m.open >= 0
}

// Active returns the unresolved suggestion ids in index order.
func (m *Machine) Active() []int {
	ids := make([]int, 0, len(m.states))
	for id, s := range m.states {
		if !s.Terminal() {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsActive reports whether id is tracked and unresolved.
func (m *Machine) IsActive(id int) bool {
	s, err := m.State(id)
	return err == nil && !s.Terminal()
}

// Show moves id to DiffShown. Any other open suggestion is collapsed back to
// Highlighted first and its id returned as collapsed.
func (m *Machine) Show(id int) (collapsed int, ok bool, err error) {
	if err := m.unresolved(id); err != nil {
		return 0, false, err
	}

	if m.open >= 0 && m.open != id {
		collapsed, ok = m.open, true
		m.states[m.open] = Highlighted
	}

	m.states[id] = DiffShown
	m.open = id
	return collapsed, ok, nil
}

// Collapse returns an open suggestion to Highlighted.
func (m *Machine) Collapse(id int) error {
	if err := m.shown(id); err != nil {
		return err
	}
	m.states[id] = Highlighted
	m.open = -1
	return nil
}

// Accept resolves a shown suggestion as Accepted.
func (m *Machine) Accept(id int) error {
	return m.resolve(id, Accepted)
}

// Reject resolves a shown suggestion as Rejected. Rejection is terminal: the
// suggestion leaves the active set and is not offered again.
func (m *Machine) Reject(id int) error {
	return m.resolve(id, Rejected)
}

// Forget collapses the open suggestion, if any, and returns its id. The
// editor calls it when an edit has already removed the diff from the
// document.
func (m *Machine) Forget() (int, bool) {
	if m.open < 0 {
		return 0, false
	}
	id := m.open
	m.states[id] = Highlighted
	m.open = -1
	return id, true
}

// Counts returns how many suggestions are in each state.
func (m *Machine) Counts() map[State]int {
	counts := make(map[State]int, 4)
	for _, s := range m.states {
		counts[s]++
	}
	return counts
}

func (m *Machine) resolve(id int, to State) error {
	if err := m.shown(id); err != nil {
		return err
	}
	m.states[id] = to
	m.open = -1
	return nil
}

func (m *Machine) unresolved(id int) error {
	s, err := m.State(id)
	if err != nil {
		return err
	}
	if s.Terminal() {
		return fmt.Errorf("%w: %d is %s", ErrResolved, id, s)
	}
	return nil
}

func (m *Machine) shown(id int) error {
	if err := m.unresolved(id); err != nil {
		return err
	}
	if m.states[id] != DiffShown {
		return fmt.Errorf("%w: %d", ErrNotShown, id)
	}
	return nil
}

// Shown returns the ids currently in DiffShown. It never holds more than one.
func (m *Machine) Shown() []int {
	var ids []int
	for id, s := range m.states {
		if s == DiffShown {
			ids = append(ids, id)
		}
	}
	return ids
}
