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

// RecedeHead shortens the worm's head end by L beads, the exact inverse of
// AdvanceHead. Requires L < worm.Length. Grounded on move.cpp's
// RecedeHeadMove::attemptMove.
type RecedeHead struct {
	base
}

// NewRecedeHead builds a RecedeHead move.
func NewRecedeHead(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *RecedeHead {
	return &RecedeHead{base: newBase("RecedeHead", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *RecedeHead) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	oldHead := m.worm.Head
	if oldHead.IsNil() {
		return false, nil
	}
	l := m.drawEvenLength()
	if l >= m.worm.Length {
		return false, nil
	}
	newHead := m.path.Prev(oldHead, l)
	if newHead.IsNil() {
		return false, nil
	}

	m.recordAttempt()

	removed := make([]beadid.BeadID, 0, l)
	cur := oldHead
	for k := 0; k < l; k++ {
		removed = append(removed, cur)
		cur = m.path.Prev(cur)
	}

	oldAction := 0.0
	for _, b := range removed {
		oldAction += m.act.BarePotentialAction(m.path, b)
	}

	pAdvance := m.attemptProb("AdvanceHead")
	pRecede := m.attemptProb("RecedeHead")
	factor := (pAdvance / pRecede) * math.Exp(-m.cs.Mu*float64(l)*m.cs.Tau)
	acceptProb := factor * math.Exp(oldAction)

	if m.rng.Float64() < acceptProb {
		for _, b := range removed {
			m.path.DelBeadGetPrev(b)
		}
		m.worm.Update(m.path, newHead, m.worm.Tail)
		m.recordAccept()
		return true, nil
	}
	return false, nil
}
