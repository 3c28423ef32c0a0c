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

// Close fills the worm's gap with a freshly-sampled free-particle bridge,
// reconnecting tail to head and returning the configuration to the
// diagonal sector. The Open/Close pair must satisfy detailed balance
// against each other. Grounded on move.cpp's CloseMove::attemptMove.
type Close struct {
	base
}

// NewClose builds a Close move.
func NewClose(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *Close {
	return &Close{base: newBase("Close", OffDiagonal, p, w, bx, act, lu, cs, rng, log, totals)}
}

func (m *Close) AttemptMove() (bool, error) {
	if !m.sectorEligible() {
		return false, nil
	}
	gap := m.worm.Gap
	if gap <= 0 || gap > m.cs.Mbar {
		return false, nil
	}
	// worm.Update (called by Open) stores the gap's near/physical-tail cut
	// point as Head and the far/physical-head cut point as Tail, so the
	// surviving chain walks forward from field Tail to field Head; the gap
	// itself runs the other way, from field Head forward to field Tail.
	tailBead, headBead := m.worm.Head, m.worm.Tail
	if tailBead.IsNil() || headBead.IsNil() {
		return false, nil
	}

	m.recordAttempt()

	rho0 := m.act.Rho0(m.path, headBead, tailBead, gap)
	liveBeads := float64(m.path.TotalLiveBeads())

	// Tentatively grow the bridge one bead at a time, same construction
	// newStagingPosition uses for a Lévy bridge of the remaining length.
	created := make([]beadid.BeadID, 0, gap-1)
	prev := tailBead
	for k := 0; k < gap-1; k++ {
		pos := m.newStagingPosition(prev, headBead, gap-k, 0)
		prev = m.path.AddNextBead(prev, pos)
		created = append(created, prev)
	}

	newInteriorAction := 0.0
	for _, b := range created {
		newInteriorAction += m.act.BarePotentialAction(m.path, b)
	}

	pOpen := m.attemptProb("Open")
	pClose := m.attemptProb("Close")
	factor := rho0 / (m.cs.C * float64(m.cs.Mbar) * (liveBeads + float64(gap) - 1)) *
		(pOpen / pClose) *
		math.Exp(m.cs.Mu*float64(gap)*m.cs.Tau)
	acceptProb := factor * math.Exp(-newInteriorAction)

	if m.rng.Float64() < acceptProb {
		m.path.Link(prev, headBead)
		m.worm.Reset()
		m.recordAccept()
		return true, nil
	}

	// Roll back: delete every tentatively-created bead, splicing tail
	// back to having no successor as each deletion cascades.
	for _, b := range created {
		m.path.DelBeadGetNext(b)
	}
	return false, nil
}
