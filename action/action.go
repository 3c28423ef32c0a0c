// Package action implements the scalar weights (potentialAction, rho0,
// kineticAction, the correction term) every move consults before a
// Metropolis test, and the local/non-local capability flag that tells a
// move which acceptance protocol to use. Grounded throughout on move.cpp's
// actionPtr->... call sites, both the `actionPtr->local` branches and their
// non-local `else` counterparts.
package action

import (
	"math"

	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/potential"
)

// Action is the capability set move.go consumes. The action methods return
// dimensionless log-weights, for which the Metropolis factor is exp(-deltaS);
// Rho0 and EnsembleWeight return plain (non-log) factors.
type Action interface {
	// PotentialAction integrates the potential action along the chain from
	// a to b inclusive, with trapezoidal (half-weight) endpoints.
	PotentialAction(p *path.Path, a, b beadid.BeadID) float64
	// PotentialActionBead is the full-weight per-slice contribution of a
	// single bead.
	PotentialActionBead(p *path.Path, b beadid.BeadID) float64
	// BarePotentialAction is the per-bead contribution used by the
	// single-slice local rejection protocol; for a primitive action this
	// coincides with PotentialActionBead.
	BarePotentialAction(p *path.Path, b beadid.BeadID) float64
	// PotentialActionCorrection is a boundary correction applied once over
	// the full segment [a,b]; zero for the primitive approximation this
	// package implements.
	PotentialActionCorrection(p *path.Path, a, b beadid.BeadID) float64
	// Rho0 returns the free-particle density matrix kernel connecting a to
	// b over L slices (symmetric in a, b).
	Rho0(p *path.Path, a, b beadid.BeadID, l int) float64
	// KineticAction sums the discretized kinetic action over every live
	// link in p; used only by debug cross-checks.
	KineticAction(p *path.Path) float64
	// SetShift tells the action the current bisection level's tau
	// multiplier (the number of slices a link at this level spans).
	SetShift(k int)
	// Local reports whether moves may use the cheaper per-slice rejection
	// protocol (true) or must propose whole trajectories (false).
	Local() bool
	// EnsembleWeight is the grand-canonical reweighting factor for a move
	// that changes the link count by deltaN.
	EnsembleWeight(deltaN int) float64
}

// core holds the state and helpers shared by Primitive and NonLocal: the
// external and pairwise potentials, lambda/tau, and the current bisection
// shift.
type core struct {
	external potential.Potential
	pair     potential.Potential
	lambda   float64
	tau      float64
	shift    int
}

func newCore(external, pair potential.Potential, lambda, tau float64) core {
	if external == nil {
		external = potential.Free{}
	}
	if pair == nil {
		pair = potential.Free{}
	}
	return core{external: external, pair: pair, lambda: lambda, tau: tau, shift: 1}
}

func (c *core) SetShift(k int) {
	if k < 1 {
		k = 1
	}
	c.shift = k
}

func (c *core) effTau() float64 {
	return c.tau * float64(c.shift)
}

// beadPotential sums the external potential at pos(b) plus the pairwise
// potential between b and every other live bead on b's own slice -- this
// charges the full interaction energy of the moving bead against the rest
// of the configuration, the scheme cmc.cpp's getTotalEnergy/updateMove use
// (sum V(sep) over all p2 != p).
func (c *core) beadPotential(p *path.Path, b beadid.BeadID) float64 {
	e := c.external.V(p.Position(b))
	for _, other := range p.BeadsAtSlice(b.Slice) {
		if other == b {
			continue
		}
		e += c.pair.V(p.GetSeparation(b, other))
	}
	return e
}

func (c *core) PotentialActionBead(p *path.Path, b beadid.BeadID) float64 {
	return c.effTau() * c.beadPotential(p, b)
}

func (c *core) BarePotentialAction(p *path.Path, b beadid.BeadID) float64 {
	return c.PotentialActionBead(p, b)
}

func (c *core) PotentialAction(p *path.Path, a, b beadid.BeadID) float64 {
	total := 0.0
	factor := 0.5
	cur := a
	for {
		total += factor * c.effTau() * c.beadPotential(p, cur)
		if cur == b {
			break
		}
		cur = p.Next(cur)
		if cur.IsNil() {
			break
		}
		factor = 1.0
		if cur == b {
			factor = 0.5
		}
	}
	return total
}

// PotentialActionCorrection is zero: both Primitive and NonLocal in this
// package implement the lowest-order ("primitive") action, for which the
// trapezoidal weighting already applied in PotentialAction is the whole
// story. A higher-order (e.g. GSF) action would return a nonzero term here;
// spec.md leaves the exact form unspecified and out of scope.
func (c *core) PotentialActionCorrection(p *path.Path, a, b beadid.BeadID) float64 {
	return 0
}

// Rho0 returns the free-particle density matrix kernel value (not its log,
// despite the name in spec.md's prose -- see DESIGN.md's Open Question
// resolution #5, which follows move.cpp's actual usage: the kernel value is
// divided directly into a ratio, never re-exponentiated).
func (c *core) Rho0(p *path.Path, a, b beadid.BeadID, l int) float64 {
	if l <= 0 {
		l = 1
	}
	sep := p.GetSeparation(a, b)
	r2 := 0.0
	for _, x := range sep {
		r2 += x * x
	}
	denom := 4 * c.lambda * float64(l) * c.tau
	norm := math.Pow(4*math.Pi*c.lambda*float64(l)*c.tau, -float64(len(sep))/2)
	return norm * math.Exp(-r2/denom)
}

func (c *core) KineticAction(p *path.Path) float64 {
	total := 0.0
	for _, b := range p.AllBeads() {
		nxt := p.Next(b)
		if nxt.IsNil() {
			continue
		}
		sep := p.GetSeparation(nxt, b)
		r2 := 0.0
		for _, x := range sep {
			r2 += x * x
		}
		total += r2 / (4 * c.lambda * c.tau)
	}
	return total
}

// EnsembleWeight is 1 in the default grand-canonical build: the chemical
// potential factor exp(mu*deltaL*tau) already carried by each move's
// proposal ratio accounts for particle-number reweighting. This hook exists
// for a canonical (fixed-N) ensemble variant, which spec.md does not call
// for.
func (c *core) EnsembleWeight(deltaN int) float64 {
	return 1
}

// Primitive is the local (per-slice separable) action: moves may use the
// cheaper single-slice rejection protocol. Grounded on the bulk of
// move.cpp's actionPtr->local branches.
type Primitive struct {
	core
}

// NewPrimitive builds a Primitive action over the given external and pair
// potentials (either may be nil, meaning potential.Free{}).
func NewPrimitive(external, pair potential.Potential, lambda, tau float64) *Primitive {
	return &Primitive{core: newCore(external, pair, lambda, tau)}
}

func (p *Primitive) Local() bool { return true }

// NonLocal is the whole-trajectory action: moves must propose the entire
// trajectory and do a single Metropolis test. Grounded on the `else`
// branch of every move in move.cpp (e.g. OpenMove::attemptMove's final
// else block), and on the "Bisection fails fast when action.local == false"
// boundary behavior from spec.md §8.
type NonLocal struct {
	core
}

// NewNonLocal builds a NonLocal action over the given external and pair
// potentials (either may be nil, meaning potential.Free{}).
func NewNonLocal(external, pair potential.Potential, lambda, tau float64) *NonLocal {
	return &NonLocal{core: newCore(external, pair, lambda, tau)}
}

func (n *NonLocal) Local() bool { return false }
