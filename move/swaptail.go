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

// SwapTail is SwapHead's mirror image: it re-links the worm's tail to a
// nearby worldline Mbar slices earlier in imaginary time. Grounded on
// move.cpp's SwapMoveBase/SwapTailMove and the "Swap pivot selection"
// protocol of spec.md's move table.
type SwapTail struct {
	base
}

// NewSwapTail builds a SwapTail move.
func NewSwapTail(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *SwapTail {
	return &SwapTail{base: newBase("SwapTail", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *SwapTail) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	x := m.worm.Tail
	if x.IsNil() {
		return false, nil
	}
	nSlices := m.path.NumTimeSlices()
	pivotSlice := ((x.Slice-m.cs.Mbar)%nSlices + nSlices) % nSlices

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

	swapBead := m.path.Next(pivot, m.cs.Mbar)
	if swapBead.IsNil() || swapBead == m.worm.Head {
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
		cur = m.path.Prev(cur)
		interior = append(interior, cur)
	}
	// interior is currently ordered swapBead-adjacent -> pivot-adjacent;
	// newStagingPosition indexes its interior beads 0..Mbar-2 walking from
	// pivot towards x, so reverse to that order.
	for i, j := 0, len(interior)-1; i < j; i, j = i+1, j-1 {
		interior[i], interior[j] = interior[j], interior[i]
	}

	oldPos := make([]box.Vec, len(interior))
	for i, b := range interior {
		oldPos[i] = m.path.Position(b)
	}
	oldAction := m.act.PotentialAction(m.path, pivot, swapBead)

	m.path.Unlink(interior[len(interior)-1])
	m.path.Link(pivot, interior[0])
	m.path.Link(interior[len(interior)-1], x)
	prev := pivot
	for k, b := range interior {
		m.path.UpdateBead(b, m.newStagingPosition(prev, x, m.cs.Mbar, k))
		prev = b
	}

	newAction := m.act.PotentialAction(m.path, pivot, x)
	deltaS := newAction - oldAction

	if m.rng.Float64() < math.Exp(-deltaS) {
		m.worm.Update(m.path, m.worm.Head, swapBead)
		m.recordAccept()
		return true, nil
	}

	for i, b := range interior {
		m.path.UpdateBead(b, oldPos[i])
	}
	m.path.Unlink(interior[len(interior)-1])
	m.path.Link(interior[len(interior)-1], swapBead)
	m.path.Link(pivot, interior[0])
	return false, nil
}
