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

// Insert creates a brand-new free open chain of even length L, anchored at
// a uniformly chosen position and slice, independent of any existing
// worldline. Diagonal-only. Grounded on move.cpp's InsertMove::attemptMove.
type Insert struct {
	base
}

// NewInsert builds an Insert move.
func NewInsert(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *Insert {
	return &Insert{base: newBase("Insert", Diagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *Insert) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	l := m.drawEvenLength()
	if l >= m.path.NumTimeSlices() {
		return false, nil
	}
	startSlice := m.rng.Intn(m.path.NumTimeSlices())
	startPos := m.box.RandPosition(m.rng)

	m.recordAttempt()

	tailBead := m.path.AddBead(startSlice, startPos)
	created := []beadid.BeadID{tailBead}
	prev := tailBead
	for k := 1; k < l; k++ {
		pos := m.newFreeParticlePosition(prev)
		prev = m.path.AddNextBead(prev, pos)
		created = append(created, prev)
	}
	headBead := prev

	newChainAction := 0.0
	for _, b := range created {
		newChainAction += m.act.BarePotentialAction(m.path, b)
	}

	pInsert := m.attemptProb("Insert")
	pRemove := m.attemptProb("Remove")
	factor := m.cs.C * float64(m.cs.Mbar) * float64(m.path.NumTimeSlices()) * m.box.Volume() *
		(pRemove / pInsert) *
		math.Exp(m.cs.Mu*float64(l)*m.cs.Tau)
	acceptProb := factor * math.Exp(-newChainAction)

	if m.rng.Float64() < acceptProb {
		m.worm.Update(m.path, headBead, tailBead)
		m.recordAccept()
		return true, nil
	}

	for i := len(created) - 1; i >= 0; i-- {
		m.path.DelBeadGetNext(created[i])
	}
	return false, nil
}
