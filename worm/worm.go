// Package worm tracks the distinguished open worldline (the "worm") that
// exists in off-diagonal configurations: its endpoints, length, gap, and the
// transient "special" bead markers several moves use as scratch state.
// Grounded on every keepMove call site in move.cpp that invokes
// path.worm.update(...)/path.worm.reset(), and on common.h's
// enum ensemble {DIAGONAL, OFFDIAGONAL, ANY}.
package worm

import (
	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/path"
)

// Ensemble tags which sector(s) a move may operate on.
type Ensemble int

const (
	Diagonal Ensemble = iota
	OffDiagonal
	Any
)

func (e Ensemble) String() string {
	switch e {
	case Diagonal:
		return "DIAGONAL"
	case OffDiagonal:
		return "OFFDIAGONAL"
	case Any:
		return "ANY"
	default:
		return "UNKNOWN"
	}
}

// logBig mirrors common.h's LBIG (log of BIG = 1.0E30): the exponent past
// which a free-particle reconnection kernel is considered negligible.
const logBig = 69.07755279

// State is the worm's own bookkeeping: it borrows bead identifiers from
// Path but owns none of the beads themselves.
type State struct {
	Head, Tail       beadid.BeadID
	Length, Gap      int
	IsConfigDiagonal bool
	Special1         beadid.BeadID
	Special2         beadid.BeadID

	lambda, tau float64
}

// New builds a worm in the diagonal (no-worm) state.
func New(lambda, tau float64) *State {
	s := &State{lambda: lambda, tau: tau}
	s.Reset()
	return s
}

// Reset returns the worm to the diagonal state: no endpoints, zero length,
// zero gap.
func (s *State) Reset() {
	s.Head = beadid.Nil
	s.Tail = beadid.Nil
	s.Length = 0
	s.Gap = 0
	s.IsConfigDiagonal = true
	s.Special1 = beadid.Nil
	s.Special2 = beadid.Nil
}

// Update installs newHead/newTail as the worm's endpoints and recomputes
// Length (beads from tail to head inclusive, following next) and Gap
// (missing links to close the worm into a ring, M - Length + 1 mod M) from
// p's current links.
func (s *State) Update(p *path.Path, newHead, newTail beadid.BeadID) {
	s.Head = newHead
	s.Tail = newTail

	if newHead.IsNil() && newTail.IsNil() {
		s.Length = 0
		s.Gap = 0
		s.IsConfigDiagonal = true
		return
	}

	s.IsConfigDiagonal = false
	steps := 0
	cur := newTail
	for cur != newHead {
		cur = p.Next(cur)
		steps++
		if cur.IsNil() {
			break
		}
	}
	s.Length = steps + 1
	m := p.NumTimeSlices()
	// Gap counts missing *links* needed to close the worm back into a ring
	// (spec.md's "gap = missing links to close the worm into a ring"), one
	// more than the missing-bead count m-Length.
	s.Gap = ((m-s.Length+1)%m + m) % m
}

// FoundBead reports whether b lies on the worm's chain (from Tail to Head
// inclusive, following next links).
func (s *State) FoundBead(p *path.Path, b beadid.BeadID) bool {
	if s.IsConfigDiagonal {
		return false
	}
	cur := s.Tail
	for {
		if cur == b {
			return true
		}
		if cur == s.Head || cur.IsNil() {
			return false
		}
		cur = p.Next(cur)
	}
}

// BeadOn asks Path whether b names a currently-live bead.
func (s *State) BeadOn(p *path.Path, b beadid.BeadID) bool {
	return p.BeadExists(b)
}

// TooCostlySeparation reports whether the free-particle kinetic weight of
// reconnecting two endpoints separated by sep over gap slices is negligible
// -- i.e. whether its exponent exceeds the logBig threshold (mirrors
// common.h's LBIG, "the log of a big number", used throughout move.cpp as
// the cutoff for discarding vanishingly unlikely reconnections).
func (s *State) TooCostlySeparation(sep box.Vec, gap int) bool {
	if gap <= 0 {
		return false
	}
	r2 := 0.0
	for _, x := range sep {
		r2 += x * x
	}
	exponent := r2 / (4 * s.lambda * float64(gap) * s.tau)
	return exponent > logBig
}

// TooCostly is the diagonal-state overload: it uses the worm's own
// head/tail/gap against p's current geometry.
func (s *State) TooCostly(p *path.Path) bool {
	if s.IsConfigDiagonal {
		return false
	}
	sep := p.GetSeparation(s.Head, s.Tail)
	return s.TooCostlySeparation(sep, s.Gap)
}
