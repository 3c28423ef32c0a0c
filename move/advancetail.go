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

// AdvanceTail shortens the worm's tail end by L beads, moving the tail cut
// point forward along the existing worldline. Requires L < worm.Length.
// Grounded on move.cpp's AdvanceTailMove::attemptMove.
type AdvanceTail struct {
	base
}

// NewAdvanceTail builds an AdvanceTail move.
func NewAdvanceTail(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *AdvanceTail {
	return &AdvanceTail{base: newBase("AdvanceTail", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *AdvanceTail) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	oldTail := m.worm.Tail
	if oldTail.IsNil() {
		return false, nil
	}
	l := m.drawEvenLength()
	if l >= m.worm.Length {
		return false, nil
	}
	newTail := m.path.Next(oldTail, l)
	if newTail.IsNil() {
		return false, nil
	}

	m.recordAttempt()

	removed := make([]beadid.BeadID, 0, l)
	cur := oldTail
	for k := 0; k < l; k++ {
		removed = append(removed, cur)
		cur = m.path.Next(cur)
	}

	oldAction := 0.0
	for _, b := range removed {
		oldAction += m.act.BarePotentialAction(m.path, b)
	}

	pAdvance := m.attemptProb("AdvanceTail")
	pRecede := m.attemptProb("RecedeTail")
	factor := (pRecede / pAdvance) * math.Exp(-m.cs.Mu*float64(l)*m.cs.Tau)
	acceptProb := factor * math.Exp(oldAction)

	if m.rng.Float64() < acceptProb {
		for _, b := range removed {
			m.path.DelBeadGetNext(b)
		}
		m.worm.Update(m.path, m.worm.Head, newTail)
		m.recordAccept()
		return true, nil
	}
	return false, nil
}
