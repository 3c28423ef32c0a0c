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

// SwapHead re-links the worm's head to a nearby worldline chosen by its
// free-particle propagator weight, exchanging which worldline continues
// through the next Mbar slices (the permutation-sampling move). Grounded on
// move.cpp's SwapMoveBase::getNorm/selectPivotBead and the
// "Swap pivot selection" protocol of spec.md's move table.
type SwapHead struct {
	base
}

// NewSwapHead builds a SwapHead move.
func NewSwapHead(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *SwapHead {
	return &SwapHead{base: newBase("SwapHead", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *SwapHead) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	x := m.worm.Head
	if x.IsNil() {
		return false, nil
	}
	nSlices := m.path.NumTimeSlices()
	pivotSlice := ((x.Slice+m.cs.Mbar)%nSlices + nSlices) % nSlices

	m.lookup.UpdateFullInteractionList(x, pivotSlice)
	candidates := append([]beadid.BeadID(nil), m.lookup.FullBeadList...)
	if len(candidates) == 0 {
		return false, nil
	}

	weights, sumAtX := m.pivotWeights(x, candidates)
	idx := m.selectPivot(weights, sumAtX)
	if idx < 0 {
		return false, nil
	}
	pivot := candidates[idx]

	swapBead := m.path.Prev(pivot, m.cs.Mbar)
	if swapBead.IsNil() || swapBead == m.worm.Tail {
		return false, nil
	}

	m.recordAttempt()

	swapCandidates := candidates
	if !m.lookup.GridShare(x, swapBead) {
		m.lookup.UpdateFullInteractionList(swapBead, pivotSlice)
		swapCandidates = append([]beadid.BeadID(nil), m.lookup.FullBeadList...)
	}
	_, sumAtSwap := m.pivotWeights(swapBead, swapCandidates)
	if sumAtSwap <= 0 {
		return false, nil
	}
	preAccept := sumAtX / sumAtSwap
	if preAccept > 1 {
		preAccept = 1
	}
	if m.rng.Float64() >= preAccept {
		return false, nil
	}

	interior := make([]beadid.BeadID, 0, m.cs.Mbar-1)
	cur := swapBead
	for k := 0; k < m.cs.Mbar-1; k++ {
		cur = m.path.Next(cur)
		interior = append(interior, cur)
	}

	oldPos := make([]box.Vec, len(interior))
	for i, b := range interior {
		oldPos[i] = m.path.Position(b)
	}
	oldAction := m.act.PotentialAction(m.path, swapBead, pivot)

	m.path.Unlink(swapBead)
	m.path.Link(x, interior[0])
	m.path.Link(interior[len(interior)-1], pivot)
	prev := x
	for k, b := range interior {
		m.path.UpdateBead(b, m.newStagingPosition(prev, pivot, m.cs.Mbar, k))
		prev = b
	}

	newAction := m.act.PotentialAction(m.path, x, pivot)
	deltaS := newAction - oldAction

	if m.rng.Float64() < math.Exp(-deltaS) {
		m.worm.Update(m.path, swapBead, m.worm.Tail)
		m.recordAccept()
		return true, nil
	}

	for i, b := range interior {
		m.path.UpdateBead(b, oldPos[i])
	}
	m.path.Unlink(x)
	m.path.Link(swapBead, interior[0])
	m.path.Link(interior[len(interior)-1], pivot)
	return false, nil
}
