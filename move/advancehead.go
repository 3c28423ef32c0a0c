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

// AdvanceHead grows the worm's head end by L free-particle steps, each
// sampled as a Gaussian about the previous bead. Off-diagonal only.
// Grounded on move.cpp's AdvanceHeadMove::attemptMove.
type AdvanceHead struct {
	base
}

// NewAdvanceHead builds an AdvanceHead move.
func NewAdvanceHead(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *AdvanceHead {
	return &AdvanceHead{base: newBase("AdvanceHead", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *AdvanceHead) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	oldHead := m.worm.Head
	if oldHead.IsNil() {
		return false, nil
	}
	l := m.drawEvenLength()

	m.recordAttempt()

	created := make([]beadid.BeadID, 0, l)
	prev := oldHead
	for k := 0; k < l; k++ {
		pos := m.newFreeParticlePosition(prev)
		prev = m.path.AddNextBead(prev, pos)
		created = append(created, prev)
	}
	newHead := prev

	newAction := 0.0
	for _, b := range created {
		newAction += m.act.BarePotentialAction(m.path, b)
	}

	pAdvance := m.attemptProb("AdvanceHead")
	pRecede := m.attemptProb("RecedeHead")
	factor := (pRecede / pAdvance) * math.Exp(m.cs.Mu*float64(l)*m.cs.Tau)
	acceptProb := factor * math.Exp(-newAction)

	if m.rng.Float64() < acceptProb {
		m.worm.Update(m.path, newHead, m.worm.Tail)
		m.recordAccept()
		return true, nil
	}

	for i := len(created) - 1; i >= 0; i-- {
		m.path.DelBeadGetNext(created[i])
	}
	return false, nil
}
