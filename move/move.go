// Package move implements the worm-algorithm update library: the three
// ANY-sector kinetic movers (CenterOfMass, Staging, Bisection) and the ten
// worm-topology movers (Open, Close, Insert, Remove, Advance/RecedeHead,
// Advance/RecedeTail, SwapHead, SwapTail). Every move follows the common
// attempt/keep/undo contract move.cpp's MoveBase establishes: check
// eligibility without mutating, capture rollback state, mutate, run a
// Metropolis test, then either keep the mutation or restore the captured
// state exactly.
package move

import (
	"errors"
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

// Ensemble re-exports worm.Ensemble: the sector a move may run in.
type Ensemble = worm.Ensemble

const (
	Diagonal    = worm.Diagonal
	OffDiagonal = worm.OffDiagonal
	Any         = worm.Any
)

// ErrInvariantViolation is returned by debug-build consistency checks
// (pimcdebug build tag) when a move leaves Path/Worm in a state that
// violates one of spec.md §3's configuration invariants. Mirrors
// common.h/move.cpp's PIMC_ASSERT / checkMove, gated the Go way with a
// build tag instead of a preprocessor #ifdef.
var ErrInvariantViolation = errors.New("move: invariant violation")

// Counters tallies a single move's attempt/accept history, plus
// per-bisection-level histograms (unused, left at length 0, by every move
// except Bisection).
type Counters struct {
	NumAttempted      int
	NumAccepted       int
	NumAttemptedLevel []int
	NumAcceptedLevel  []int
}

// Move is the capability every concrete move type implements.
type Move interface {
	Name() string
	Sector() Ensemble
	AttemptMove() (bool, error)
	Counters() Counters
}

// Totals accumulates attempt/accept counts across every move instance the
// driver holds, mirroring move.cpp's MoveBase::totAttempted/totAccepted
// static (class-wide) counters; a driver constructs one Totals and passes
// it to every move it builds.
type Totals struct {
	Attempted int64
	Accepted  int64
}

// base is embedded by every concrete move and implements the shared
// sampler helpers (newFreeParticlePosition/newStagingPosition/
// newBisectionPosition) plus the Name/Sector/Counters trio, exactly
// mirroring move.cpp's MoveBase.
type base struct {
	name   string
	sector Ensemble

	path   *path.Path
	worm   *worm.State
	box    *box.Box
	act    action.Action
	lookup *lookup.Table
	cs     *constants.Constants
	rng    prng.Source
	log    *slog.Logger
	totals *Totals

	counters Counters

	sqrtLambdaTau  float64
	sqrt2LambdaTau float64
}

func newBase(name string, sector Ensemble, p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger, totals *Totals) base {
	if log == nil {
		log = slog.Default()
	}
	return base{
		name:           name,
		sector:         sector,
		path:           p,
		worm:           w,
		box:            bx,
		act:            act,
		lookup:         lu,
		cs:             cs,
		rng:            rng,
		log:            log,
		totals:         totals,
		sqrtLambdaTau:  math.Sqrt(cs.Lambda * cs.Tau),
		sqrt2LambdaTau: math.Sqrt(2 * cs.Lambda * cs.Tau),
	}
}

func (b *base) Name() string         { return b.name }
func (b *base) Sector() Ensemble     { return b.sector }
func (b *base) Counters() Counters   { return b.counters }

func (b *base) recordAttempt() {
	b.counters.NumAttempted++
	if b.totals != nil {
		b.totals.Attempted++
	}
}

func (b *base) recordAccept() {
	b.counters.NumAccepted++
	if b.totals != nil {
		b.totals.Accepted++
	}
}

// sectorEligible reports whether this move's sector matches the worm's current
// diagonal/off-diagonal state (the driver also gates on this, but each
// move re-checks so it is safe to call standalone, e.g. from a test).
func (b *base) sectorEligible() bool {
	switch b.sector {
	case worm.Diagonal:
		return b.worm.IsConfigDiagonal
	case worm.OffDiagonal:
		return !b.worm.IsConfigDiagonal
	default:
		return true
	}
}

// pickRandomLiveBead returns a uniformly chosen live bead, or Nil if the
// path is empty.
func (b *base) pickRandomLiveBead() beadid.BeadID {
	all := b.path.AllBeads()
	if len(all) == 0 {
		return beadid.Nil
	}
	return all[b.rng.Intn(len(all))]
}

// attemptProb returns the configured selection weight for move name, or
// 1.0 if unset -- used for the P_x/P_y ratios in the move table's
// proposal-ratio column.
func (b *base) attemptProb(name string) float64 {
	if b.cs.AttemptProb == nil {
		return 1.0
	}
	if w, ok := b.cs.AttemptProb[name]; ok && w > 0 {
		return w
	}
	return 1.0
}

// drawEvenLength draws an even segment length 2*(1+U[0,Mbar/2-1]), the
// distribution the move table names for Open/Insert/AdvanceHead/RecedeHead/
// AdvanceTail/RecedeTail. rng.Intn is exclusive of n (Go idiom); the spec's
// randInt(Mbar/2-1) is inclusive, so Mbar/2 is passed here -- see DESIGN.md
// Open Question decision #4.
func (b *base) drawEvenLength() int {
	return 2 * (1 + b.rng.Intn(b.cs.Mbar/2))
}

// newFreeParticlePosition draws a Gaussian step about pos(neighbor) with
// variance 2*lambda*tau, used by Insert/AdvanceHead/RecedeTail to grow the
// worm one free-particle step at a time.
func (b *base) newFreeParticlePosition(neighbor beadid.BeadID) box.Vec {
	center := b.path.Position(neighbor)
	out := make(box.Vec, len(center))
	for i := range out {
		out[i] = b.rng.Norm(center[i], b.sqrt2LambdaTau)
	}
	return b.box.PutInside(out)
}

// newStagingPosition draws the k-th (0-indexed) interior bead of a Lévy
// bridge of length stageLength ending at "to", where "from" is the bead
// just before the k-th interior bead (the bridge start for k = 0, else
// interior bead k-1 as already redrawn): mean
// pos(from) + (pos(to)-pos(from))*f2 with f1 = stageLength-k-1,
// f2 = 1/(stageLength-k), variance 2*lambda*tau*f1*f2.
func (b *base) newStagingPosition(from, to beadid.BeadID, stageLength, k int) box.Vec {
	f1 := float64(stageLength - k - 1)
	f2 := 1.0 / float64(stageLength-k)
	sigma := b.sqrt2LambdaTau * math.Sqrt(f1*f2)

	fromPos := b.path.Position(from)
	sep := b.path.GetSeparation(to, from)
	mean := make(box.Vec, len(fromPos))
	for i := range mean {
		mean[i] = fromPos[i] + sep[i]*f2
	}
	out := make(box.Vec, len(mean))
	for i := range out {
		out[i] = b.rng.Norm(mean[i], sigma)
	}
	return b.box.PutInside(out)
}

// newBisectionPosition draws a bead lshift slices from bead, Gaussian about
// the midpoint of prev(bead,lshift) and next(bead,lshift), variance
// lambda*tau*lshift.
func (b *base) newBisectionPosition(bead beadid.BeadID, lshift int) box.Vec {
	sigma := b.sqrtLambdaTau * math.Sqrt(float64(lshift))
	left := b.path.Prev(bead, lshift)
	right := b.path.Next(bead, lshift)
	sep := b.path.GetSeparation(right, left)
	leftPos := b.path.Position(left)
	mean := make(box.Vec, len(leftPos))
	for i := range mean {
		mean[i] = leftPos[i] + 0.5*sep[i]
	}
	out := make(box.Vec, len(mean))
	for i := range out {
		out[i] = b.rng.Norm(mean[i], sigma)
	}
	return b.box.PutInside(out)
}

// pivotWeights computes Rho0(from, c, Mbar) for every c in candidates and
// their sum -- the c_i/normalization step of spec.md's "Swap pivot
// selection" protocol.
func (b *base) pivotWeights(from beadid.BeadID, candidates []beadid.BeadID) ([]float64, float64) {
	weights := make([]float64, len(candidates))
	sum := 0.0
	for i, c := range candidates {
		w := b.act.Rho0(b.path, from, c, b.cs.Mbar)
		weights[i] = w
		sum += w
	}
	return weights, sum
}

// selectPivot draws u~U[0,1) and returns the smallest index i whose
// cumulative weight share reaches u (binary-search-equivalent linear scan;
// candidate lists are small grid-cell neighborhoods).
func (b *base) selectPivot(weights []float64, sum float64) int {
	if sum <= 0 {
		return -1
	}
	u := b.rng.Float64()
	running := 0.0
	for i, w := range weights {
		running += w / sum
		if running >= u {
			return i
		}
	}
	return len(weights) - 1
}

func addVec(a, delta box.Vec) box.Vec {
	out := make(box.Vec, len(a))
	for i := range out {
		out[i] = a[i] + delta[i]
	}
	return out
}
