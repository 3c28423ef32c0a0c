// Package estimator implements the observables sampled from a running
// configuration: a virial-theorem energy estimator and a particle-number/
// density estimator, plus a Diagonal wrapper that restricts sampling to
// diagonal configurations. Grounded on pointlander-qmc/main.go's Original()
// virial estimator (E = V(x) + 0.5*x*dV/dx, accumulated into running
// sum/sum-of-squares) and original_source/cmc.cpp's aveNumParticles
// bookkeeping, generalized to NDIM and multiple particles. spec.md §1
// explicitly disclaims estimator *accumulation logic* as out of scope for
// the sampler kernel itself; this package is the supplement SPEC_FULL.md
// §4.11 adds so the sampler has at least one concrete, testable consumer.
package estimator

import (
	"math"

	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/potential"
	"github.com/ethancmcgarrigle/pimc/worm"
)

// Estimator accumulates running statistics from successive configurations.
type Estimator interface {
	Name() string
	Sample(p *path.Path, w *worm.State)
	Mean() float64
	StdErr() float64
	NumSamples() int64
	Reset()
}

// running holds the sum/sum-of-squares/count triple every estimator in this
// package accumulates into, mirroring Original()'s E_sum/E_sqd_sum/values.
type running struct {
	sum, sumSq float64
	n          int64
}

func (r *running) add(x float64) {
	r.sum += x
	r.sumSq += x * x
	r.n++
}

func (r *running) mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.sum / float64(r.n)
}

func (r *running) stdErr() float64 {
	if r.n < 2 {
		return 0
	}
	mean := r.mean()
	variance := r.sumSq/float64(r.n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance / float64(r.n))
}

func (r *running) reset() { *r = running{} }

// gradientPotential is implemented by potentials that can report dV/dr
// (potential.Harmonic, potential.Free, potential.HardSphere all do); a
// potential without it contributes zero to the virial term.
type gradientPotential interface {
	Gradient(r box.Vec) box.Vec
}

func gradientOf(p potential.Potential, r box.Vec) box.Vec {
	if gp, ok := p.(gradientPotential); ok {
		return gp.Gradient(r)
	}
	return make(box.Vec, len(r))
}

// Energy is the virial-theorem total-energy estimator: per live bead,
// E_bead = V(pos) + 0.5*pos.Gradient(pos), averaged over every live bead in
// the current configuration and accumulated across calls to Sample.
// Grounded directly on Original()'s `E := V(x_new) + 0.5*x_new*dVdx(x_new)`.
type Energy struct {
	external potential.Potential
	running
}

// NewEnergy builds an Energy estimator against the given external potential.
func NewEnergy(external potential.Potential) *Energy {
	return &Energy{external: external}
}

func (e *Energy) Name() string { return "Energy" }

func (e *Energy) Sample(p *path.Path, w *worm.State) {
	beads := p.AllBeads()
	if len(beads) == 0 {
		return
	}
	total := 0.0
	for _, b := range beads {
		pos := p.Position(b)
		grad := gradientOf(e.external, pos)
		dot := 0.0
		for i, x := range pos {
			dot += x * grad[i]
		}
		total += e.external.V(pos) + 0.5*dot
	}
	e.add(total / float64(len(beads)))
}

func (e *Energy) Mean() float64      { return e.running.mean() }
func (e *Energy) StdErr() float64    { return e.running.stdErr() }
func (e *Energy) NumSamples() int64  { return e.running.n }
func (e *Energy) Reset()             { e.running.reset() }

// Number is the mean-particle-number / density estimator: each sample is
// the live-bead count divided by the number of time slices (the number of
// particles a fully diagonal configuration represents). Grounded on
// original_source/cmc.cpp's aveNumParticles/aveNumParticles/boxPtr->volume.
type Number struct {
	bx            *box.Box
	numTimeSlices int
	running
}

// NewNumber builds a Number estimator over bx with the given slice count.
func NewNumber(bx *box.Box, numTimeSlices int) *Number {
	return &Number{bx: bx, numTimeSlices: numTimeSlices}
}

func (n *Number) Name() string { return "Number" }

func (n *Number) Sample(p *path.Path, w *worm.State) {
	if n.numTimeSlices <= 0 {
		return
	}
	n.add(float64(p.TotalLiveBeads()) / float64(n.numTimeSlices))
}

func (n *Number) Mean() float64     { return n.running.mean() }
func (n *Number) StdErr() float64   { return n.running.stdErr() }
func (n *Number) NumSamples() int64 { return n.running.n }
func (n *Number) Reset()            { n.running.reset() }

// Density returns the mean number divided by the box volume.
func (n *Number) Density() float64 { return n.Mean() / n.bx.Volume() }

// Diagonal wraps an Estimator so Sample is a no-op on off-diagonal
// configurations -- diagonal-sector estimators (fixed particle number,
// closed worldlines) are not meaningful while a worm is open. Universal
// worm-algorithm PIMC convention; spec.md never states it explicitly
// outside describing the diagonal/off-diagonal sectors structurally (§3).
type Diagonal struct {
	Estimator
}

func (d Diagonal) Sample(p *path.Path, w *worm.State) {
	if w.IsConfigDiagonal {
		d.Estimator.Sample(p, w)
	}
}
