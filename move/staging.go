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

// Staging regrows the Mbar-1 interior beads of a fixed-length window
// [startBead, next(startBead,Mbar)] by exact free-particle (Lévy bridge)
// sampling, so the proposal ratio is exactly 1 and acceptance depends only
// on the potential-action difference. Grounded on move.cpp's StagingMove.
type Staging struct {
	base
}

// NewStaging builds a Staging move.
func NewStaging(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *Staging {
	return &Staging{base: newBase("Staging", Any, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *Staging) AttemptMove() (bool, error) {
	startBead := m.pickRandomLiveBead()
	if startBead.IsNil() {
		return false, nil
	}
	endBead := m.path.Next(startBead, m.cs.Mbar)
	if endBead.IsNil() {
		return false, nil // window runs off the end of a worm segment
	}

	interior := make([]beadid.BeadID, 0, m.cs.Mbar-1)
	cur := startBead
	for k := 1; k < m.cs.Mbar; k++ {
		cur = m.path.Next(cur)
		interior = append(interior, cur)
	}

	m.recordAttempt()

	oldPos := make([]box.Vec, len(interior))
	for i, b := range interior {
		oldPos[i] = m.path.Position(b)
	}
	oldAction := m.act.PotentialAction(m.path, startBead, endBead)

	prev := startBead
	for k, b := range interior {
		m.path.UpdateBead(b, m.newStagingPosition(prev, endBead, m.cs.Mbar, k))
		prev = b
	}

	newAction := m.act.PotentialAction(m.path, startBead, endBead)
	deltaS := newAction - oldAction

	if m.rng.Float64() < math.Exp(-deltaS) {
		m.recordAccept()
		return true, nil
	}

	for i, b := range interior {
		m.path.UpdateBead(b, oldPos[i])
	}
	return false, nil
}
