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

// Remove destroys the entire worm when its length is at most Mbar, the
// exact inverse of Insert. Grounded on move.cpp's RemoveMove::attemptMove.
type Remove struct {
	base
}

// NewRemove builds a Remove move.
func NewRemove(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *Remove {
	return &Remove{base: newBase("Remove", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *Remove) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	length := m.worm.Length
	if length > m.cs.Mbar || length < 1 {
		return false, nil
	}
	tailBead, headBead := m.worm.Tail, m.worm.Head
	if tailBead.IsNil() || headBead.IsNil() {
		return false, nil
	}

	m.recordAttempt()

	chain := make([]beadid.BeadID, 0, length)
	cur := tailBead
	for {
		chain = append(chain, cur)
		if cur == headBead {
			break
		}
		cur = m.path.Next(cur)
	}

	oldChainAction := 0.0
	for _, b := range chain {
		oldChainAction += m.act.BarePotentialAction(m.path, b)
	}

	pInsert := m.attemptProb("Insert")
	pRemove := m.attemptProb("Remove")
	factor := 1.0 / (m.cs.C * float64(m.cs.Mbar) * float64(m.path.NumTimeSlices()) * m.box.Volume()) *
		(pInsert / pRemove) *
		math.Exp(m.cs.Mu*float64(length)*m.cs.Tau)
	acceptProb := factor * math.Exp(oldChainAction)

	if m.rng.Float64() < acceptProb {
		for _, b := range chain {
			m.path.DelBeadGetNext(b)
		}
		m.worm.Reset()
		m.recordAccept()
		return true, nil
	}
	return false, nil
}
