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

// Bisection regrows a window of 2^B - 1 interior beads in B levels of
// refinement, coarsest first: level ell has shift = 2^(ell-1) and fills
// the midpoints that haven't yet been set by a coarser level. Each level
// runs its own Metropolis test on exp(-(deltaS_ell - deltaS_(ell+1))):
// above level 1 deltaS covers only the beads that level places, at level 1
// it covers every interior bead of the window. The first rejection
// short-circuits and rolls back every bead moved in this attempt --
// grounded on move.cpp's BisectionMove.
//
// Per spec.md §8, Bisection requires a local (per-slice separable) action;
// it fails fast (ineligible, not rejected) when action.Local() is false.
type Bisection struct {
	base
	levels int
}

// NewBisection builds a Bisection move using cs.B refinement levels.
func NewBisection(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *Bisection {
	return &Bisection{
		base:   newBase("Bisection", Any, p, w, bx, act, lu, cs, rng, log, totals),
		levels: cs.B,
	}
}

func (m *Bisection) AttemptMove() (bool, error) {
	if !m.act.Local() {
		return false, nil
	}
	if m.levels < 1 {
		return false, nil
	}
	length := 1 << uint(m.levels)

	startBead := m.pickRandomLiveBead()
	if startBead.IsNil() {
		return false, nil
	}
	endBead := m.path.Next(startBead, length)
	if endBead.IsNil() {
		return false, nil
	}

	interior := make([]beadid.BeadID, 0, length-1)
	cur := startBead
	for k := 1; k < length; k++ {
		cur = m.path.Next(cur)
		interior = append(interior, cur)
	}

	m.recordAttempt()
	if len(m.counters.NumAttemptedLevel) < m.levels {
		m.counters.NumAttemptedLevel = make([]int, m.levels)
		m.counters.NumAcceptedLevel = make([]int, m.levels)
	}

	oldPos := make([]box.Vec, len(interior))
	for i, b := range interior {
		oldPos[i] = m.path.Position(b)
	}
	m.act.SetShift(1)
	oldFullAction := 0.0
	for _, b := range interior {
		oldFullAction += m.act.BarePotentialAction(m.path, b)
	}

	prevDeltaS := 0.0
	accepted := true

	for level := m.levels; level >= 1; level-- {
		shift := 1 << uint(level-1)
		m.act.SetShift(shift)
		m.counters.NumAttemptedLevel[level-1]++

		var touched []beadid.BeadID
		oldLevelAction := 0.0
		for k := shift; k < length; k += 2 * shift {
			b := interior[k-1]
			touched = append(touched, b)
			oldLevelAction += m.act.BarePotentialAction(m.path, b)
		}

		for _, b := range touched {
			m.path.UpdateBead(b, m.newBisectionPosition(b, shift))
		}

		newLevelAction := 0.0
		for _, b := range touched {
			newLevelAction += m.act.BarePotentialAction(m.path, b)
		}

		deltaS := newLevelAction - oldLevelAction
		if level == 1 {
			newFullAction := 0.0
			for _, b := range interior {
				newFullAction += m.act.BarePotentialAction(m.path, b)
			}
			deltaS = newFullAction - oldFullAction
		}
		if m.rng.Float64() >= math.Exp(-(deltaS - prevDeltaS)) {
			accepted = false
			break
		}
		prevDeltaS = deltaS
		m.counters.NumAcceptedLevel[level-1]++
	}
	m.act.SetShift(1)

	if accepted {
		m.recordAccept()
		return true, nil
	}

	for i, b := range interior {
		m.path.UpdateBead(b, oldPos[i])
	}
	return false, nil
}
