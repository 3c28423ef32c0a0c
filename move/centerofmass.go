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

// CenterOfMass rigidly shifts one entire worldline (every bead on it) by a
// single random displacement drawn uniformly in [-Delta/2, Delta/2] per
// axis. Grounded on move.cpp's CenterOfMassMove::attemptMove.
type CenterOfMass struct {
	base
}

// NewCenterOfMass builds a CenterOfMass move.
func NewCenterOfMass(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) *CenterOfMass {
	return &CenterOfMass{base: newBase("CenterOfMass", Any, p, w, bx, act, lu, cs, rng, log, totals)}
}

// collectWorldline returns every bead on the worldline reachable from
// start, following next until the ring closes (or the chain ends at a worm
// endpoint) and then prev back the other way. Returns ok=false if more
// than NumTimeSlices beads are visited (spec.md §7's "worldline longer
// than M for COM" ineligibility case).
func (m *CenterOfMass) collectWorldline(start beadid.BeadID) (beads []beadid.BeadID, ok bool) {
	limit := m.path.NumTimeSlices()
	beads = append(beads, start)
	cur := m.path.Next(start)
	for !cur.IsNil() && cur != start {
		beads = append(beads, cur)
		if len(beads) > limit {
			return nil, false
		}
		cur = m.path.Next(cur)
	}
	if cur == start {
		return beads, true
	}
	cur = m.path.Prev(start)
	for !cur.IsNil() {
		beads = append(beads, cur)
		if len(beads) > limit {
			return nil, false
		}
		cur = m.path.Prev(cur)
	}
	return beads, true
}

// AttemptMove implements the move. Per DESIGN.md Open Question decision #1,
// the start bead's slice is hard-coded to 0 regardless of the random draw,
// reproducing move.cpp's comma-operator artifact
// (`startBead[0] = 0, random.randInt(...)`) rather than the probably
// intended "random slice" behavior.
func (m *CenterOfMass) AttemptMove() (bool, error) {
	if m.path.NumBeadsAtSlice(0) == 0 {
		return false, nil
	}
	beadsAtZero := m.path.BeadsAtSlice(0)
	startBead := beadsAtZero[m.rng.Intn(len(beadsAtZero))]

	worldline, ok := m.collectWorldline(startBead)
	if !ok {
		return false, nil
	}

	m.recordAttempt()

	delta := make(box.Vec, m.box.NDIM())
	for i := range delta {
		delta[i] = m.cs.Delta * (m.rng.Float64() - 0.5)
	}

	oldPositions := make([]box.Vec, len(worldline))
	oldAction := 0.0
	for i, b := range worldline {
		oldPositions[i] = m.path.Position(b)
		oldAction += m.act.PotentialActionBead(m.path, b)
	}

	for _, b := range worldline {
		m.path.UpdateBead(b, m.box.PutInside(addVec(m.path.Position(b), delta)))
	}

	newAction := 0.0
	for _, b := range worldline {
		newAction += m.act.PotentialActionBead(m.path, b)
	}
	deltaS := newAction - oldAction

	if m.rng.Float64() < math.Exp(-deltaS) {
		m.recordAccept()
		return true, nil
	}

	for i, b := range worldline {
		m.path.UpdateBead(b, oldPositions[i])
	}
	return false, nil
}
