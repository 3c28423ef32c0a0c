package move

import (
	"log/slog"
	"math"

	"github.com/ethancmcgarrigle/pimc/action"
	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/constants"
	"github.com/ethancmcgarrigle/pimc/lookup"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/prng"
	"github.com/ethancmcgarrigle/pimc/worm"
)

// Open removes an even-length run of beads from a closed worldline,
// creating a worm whose tail and head are the two surviving cut ends.
// Diagonal-only (it is the move that leaves the diagonal sector).
// Grounded on move.cpp's OpenMove::attemptMove.
type Open struct {
	base
}

// NewOpen builds an Open move.
func NewOpen(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *Open {
	return &Open{base: newBase("Open", Diagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *Open) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	tailBead := m.pickRandomLiveBead()
	if tailBead.IsNil() {
		return false, nil
	}
	l := m.drawEvenLength()
	if l >= m.path.NumTimeSlices() {
		return false, nil // gap >= M is ineligible, spec.md §8
	}
	headBead := m.path.Next(tailBead, l)
	if headBead.IsNil() || headBead == tailBead {
		return false, nil
	}

	// Capture the interior beads that will be deleted.
	interior := make([]beadid.BeadID, 0, l-1)
	cur := tailBead
	for k := 1; k < l; k++ {
		cur = m.path.Next(cur)
		interior = append(interior, cur)
	}

	m.recordAttempt()

	oldInteriorAction := 0.0
	for _, b := range interior {
		oldInteriorAction += m.act.BarePotentialAction(m.path, b)
	}
	rho0 := m.act.Rho0(m.path, headBead, tailBead, l)
	liveBeads := float64(m.path.TotalLiveBeads())

	pOpen := m.attemptProb("Open")
	pClose := m.attemptProb("Close")
	factor := (m.cs.C * float64(m.cs.Mbar) * liveBeads / rho0) *
		(pClose / pOpen) *
		math.Exp(m.cs.Mu*float64(l)*m.cs.Tau)
	deltaS := -oldInteriorAction
	acceptProb := factor * math.Exp(-deltaS)

	if m.rng.Float64() < acceptProb {
		// Commit: delete the interior beads (splicing their neighbors
		// together as we go), then unlink tail from head so the worm's
		// gap actually opens rather than leaving them spliced together.
		for _, b := range interior {
			m.path.DelBeadGetNext(b)
		}
		m.path.Unlink(tailBead)
		// The surviving chain runs forward from headBead around to
		// tailBead (the long way around the ring); worm.Update walks
		// forward from its newTail argument to its newHead argument, so
		// headBead plays newTail and tailBead plays newHead here.
		m.worm.Update(m.path, tailBead, headBead)
		m.recordAccept()
		return true, nil
	}
	return false, nil
}
