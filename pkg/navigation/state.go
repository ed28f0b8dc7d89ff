package navigation

import "errors"

// ErrInvalidTransition is returned when an operation is not valid in the
// current state, e.g. selecting while nothing is highlighted. Callers treat it
// as a no-op.
var ErrInvalidTransition = errors.New("invalid navigation transition")

// None is the ActiveIndex value meaning "nothing highlighted".
const None = -1

// Mode is the coarse state of the navigation state machine.
type Mode int

const (
	// Idle means there are no candidates.
	Idle Mode = iota
	// Browsing means there is at least one candidate.
	Browsing
)

func (m Mode) String() string {
	if m == Browsing {
		return "Browsing"
	}
	return "Idle"
}

// Candidate is one suggestion produced by a lookup.
type Candidate struct {
	Text string
}

// State owns the current candidate set and the active index. It knows nothing
// about rendering; callers keep the rendered list in step with it.
type State struct {
	candidates []Candidate
	active     int
}

// New returns an idle State.
func New() *State {
	return &State{active: None}
}

// Load replaces the candidate set wholesale and resets the active index.
func (s *State) Load(candidates []Candidate) {
	s.candidates = append([]Candidate(nil), candidates...)
	s.active = None
}

// Clear discards all candidates.
func (s *State) Clear() {
	s.candidates = nil
	s.active = None
}

// MoveDown advances the active index, stopping at the last candidate. It
// reports whether the index changed.
func (s *State) MoveDown() bool {
	if s.Mode() != Browsing {
		return false
	}
	if s.active >= len(s.candidates)-1 {
		return false
	}
	s.active++
	return true
}

// MoveUp moves the active index back, stopping at None. It reports whether
// the index changed.
func (s *State) MoveUp() bool {
	if s.Mode() != Browsing {
		return false
	}
	if s.active <= None {
		return false
	}
	s.active--
	return true
}

// Select returns the highlighted candidate without changing state.
func (s *State) Select() (Candidate, error) {
	if s.active < 0 || s.active >= len(s.candidates) {
		return Candidate{}, ErrInvalidTransition
	}
	return s.candidates[s.active], nil
}

// Mode reports Idle or Browsing.
func (s *State) Mode() Mode {
	if len(s.candidates) == 0 {
		return Idle
	}
	return Browsing
}

// ActiveIndex returns the highlighted position, or None.
func (s *State) ActiveIndex() int {
	return s.active
}

// Len returns the number of candidates.
func (s *State) Len() int {
	return len(s.candidates)
}

// Candidates returns a copy of the candidate set.
func (s *State) Candidates() []Candidate {
	return append([]Candidate(nil), s.candidates...)
}

// Candidate returns the candidate at i.
func (s *State) Candidate(i int) (Candidate, bool) {
	if i < 0 || i >= len(s.candidates) {
		return Candidate{}, false
	}
	return s.candidates[i], true
}
