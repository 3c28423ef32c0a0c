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

// RecedeTail grows the worm's tail end backwards by L free-particle steps,
// the exact inverse of AdvanceTail. Grounded on move.cpp's
// RecedeTailMove::attemptMove.
type RecedeTail struct {
	base
}

// NewRecedeTail builds a RecedeTail move.
func NewRecedeTail(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *RecedeTail {
	return &RecedeTail{base: newBase("RecedeTail", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *RecedeTail) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	oldTail := m.worm.Tail
	if oldTail.IsNil() {
		return false, nil
	}
	l := m.drawEvenLength()

	m.recordAttempt()

	created := make([]beadid.BeadID, 0, l)
	prev := oldTail
	for k := 0; k < l; k++ {
		pos := m.newFreeParticlePosition(prev)
		prev = m.path.AddPrevBead(prev, pos)
		created = append(created, prev)
	}
	newTail := prev

	newAction := 0.0
	for _, b := range created {
		newAction += m.act.BarePotentialAction(m.path, b)
	}

	pAdvance := m.attemptProb("AdvanceTail")
	pRecede := m.attemptProb("RecedeTail")
	factor := (pAdvance / pRecede) * math.Exp(m.cs.Mu*float64(l)*m.cs.Tau)
	acceptProb := factor * math.Exp(-newAction)

	if m.rng.Float64() < acceptProb {
		m.worm.Update(m.path, m.worm.Head, newTail)
		m.recordAccept()
		return true, nil
	}

	for _, b := range created {
		m.path.DelBeadGetNext(b)
	}
	return false, nil
}
