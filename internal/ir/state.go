package ir

import (
	"strconv"

	"flexir/internal/diag"
)

// DefaultTempPrefix is the prefix of generated temporaries.
const DefaultTempPrefix = "__tmp"

// State is the mutable part of one lowering pass.
type State struct {
	cur      BlockID
	temps    int
	prefix   string
	reporter diag.Reporter
}

func NewState(prefix string, reporter diag.Reporter) *State {
	if prefix == "" {
		prefix = DefaultTempPrefix
	}
	if reporter == nil {
		reporter = diag.Discard
	}
	return &State{cur: NoBlockID, prefix: prefix, reporter: reporter}
}

// NextTemporary returns prefix0, prefix1, ... and never repeats within a pass.
func (s *State) NextTemporary() string {
	name := s.prefix + strconv.Itoa(s.temps)
	s.temps++
	return name
}

func (s *State) Current() BlockID { return s.cur }

func (s *State) SetCurrent(bb BlockID) { s.cur = bb }

// Temporaries reports how many temporaries were handed out.
func (s *State) Temporaries() int { return s.temps }

func (s *State) Reporter() diag.Reporter { return s.reporter }

// Reset rewinds the counter and insertion point for a new pass.
func (s *State) Reset() {
	s.cur = NoBlockID
	s.temps = 0
}
