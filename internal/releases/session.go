package releases

import (
	"fmt"

	"checkarr/internal/arr"
)

// Resolution is the terminal state of a selection session.
type Resolution int

const (
	// ResolutionPending means the session is still open.
	ResolutionPending Resolution = iota
	// ResolutionSelected means the user picked a release to download.
	ResolutionSelected
	// ResolutionSkipped means the user declined the file permanently.
	ResolutionSkipped
	// ResolutionKeptCurrent means the user kept the existing file this run.
	ResolutionKeptCurrent
)

// Choice indices with special meaning at the prompt. Visible releases are
// numbered starting at 1.
const (
	ChoiceSkipForever = 0
	ChoiceKeepCurrent = -1
)

// Session holds the state of one interactive pick: the ranked candidate
// list, the active filter, and the eventual resolution. It carries no I/O;
// the prompt layer renders Visible and feeds choices back in.
type Session struct {
	ranked     []arr.Release
	filter     Filter
	resolution Resolution
	selected   arr.Release
}

// NewSession ranks the candidates and opens a session over them.
func NewSession(candidates []arr.Release) *Session {
	return &Session{ranked: Rank(candidates)}
}

// Visible returns the ranked candidates that pass the active filter.
func (s *Session) Visible() []arr.Release {
	return s.filter.Apply(s.ranked)
}

// Total returns the unfiltered candidate count.
func (s *Session) Total() int { return len(s.ranked) }

// Filtered reports whether a filter is currently active.
func (s *Session) Filtered() bool { return !s.filter.Empty() }

// SetFilter replaces the active filter. The full ranked list stays intact,
// so clearing restores every candidate.
func (s *Session) SetFilter(filter Filter) {
	s.filter = filter
}

// ClearFilter drops the active filter.
func (s *Session) ClearFilter() {
	s.filter = Filter{}
}

// Choose resolves the session from a prompt index. 0 skips the file
// permanently, -1 keeps the current file, and 1..n selects from the
// currently visible list. Out-of-range indices leave the session open.
func (s *Session) Choose(index int) (Resolution, error) {
	if s.resolution != ResolutionPending {
		return s.resolution, fmt.Errorf("session already resolved")
	}
	switch {
	case index == ChoiceSkipForever:
		s.resolution = ResolutionSkipped
	case index == ChoiceKeepCurrent:
		s.resolution = ResolutionKeptCurrent
	case index >= 1:
		visible := s.Visible()
		if index > len(visible) {
			return ResolutionPending, fmt.Errorf("choice %d out of range, %d releases shown", index, len(visible))
		}
		s.selected = visible[index-1]
		s.resolution = ResolutionSelected
	default:
		return ResolutionPending, fmt.Errorf("choice %d out of range", index)
	}
	return s.resolution, nil
}

// Resolution returns the session's terminal state, ResolutionPending while open.
func (s *Session) Resolution() Resolution { return s.resolution }

// Selected returns the chosen release. Only meaningful after Choose
// returned ResolutionSelected.
func (s *Session) Selected() arr.Release { return s.selected }
