// Package potential defines the scalar external/pair-interaction interface
// the action layer consumes, and a handful of concrete potentials. spec.md
// §6 names the interface ("V(r) scalar in R^N") but explicitly treats the
// physics of individual potentials as an external collaborator; this
// package supplies the minimum needed to exercise the sampler end to end.
package potential

import (
	"math"

	"github.com/ethancmcgarrigle/pimc/box"
)

// Potential is the scalar capability every action implementation consumes,
// for both the single-particle external field and pairwise interactions.
type Potential interface {
	V(r box.Vec) float64
}

// Free is the no-interaction potential: V(r) = 0 everywhere. Used for the
// ideal Bose gas scenarios in spec.md §8 (scenarios 1 and 2).
type Free struct{}

func (Free) V(r box.Vec) float64 { return 0 }

// Gradient is the zero vector: Free has no force to report.
func (Free) Gradient(r box.Vec) box.Vec { return make(box.Vec, len(r)) }

// Harmonic is the isotropic harmonic trap V(r) = 0.5*Omega^2*|r|^2, the
// exact external potential pointlander-qmc/main.go's Original() uses
// (`V := func(x float64) float64 { return 0.5 * math.Pow(x, 2.0) }`),
// generalized from 1D to NDIM. Used for spec.md §8 scenario 6.
type Harmonic struct {
	Omega float64
}

func (h Harmonic) V(r box.Vec) float64 {
	r2 := 0.0
	for _, x := range r {
		r2 += x * x
	}
	return 0.5 * h.Omega * h.Omega * r2
}

// Gradient returns Omega^2*r, dV/dr for the isotropic harmonic trap -- used
// by estimator.Energy's virial-theorem formula (E = V + 0.5*r.Gradient(r)).
func (h Harmonic) Gradient(r box.Vec) box.Vec {
	out := make(box.Vec, len(r))
	for i, x := range r {
		out[i] = h.Omega * h.Omega * x
	}
	return out
}

// HardSphere is a simple repulsive pair potential: infinite for |r| <
// Radius, zero otherwise. Supplemented from original_source/cmc.cpp's
// pairwise interactionPtr->V(sep) usage pattern -- a minimal concrete pair
// potential that exercises the PotentialAction pairwise-sum code path a
// single external potential alone cannot reach.
type HardSphere struct {
	Radius float64
}

func (hs HardSphere) V(r box.Vec) float64 {
	r2 := 0.0
	for _, x := range r {
		r2 += x * x
	}
	if r2 < hs.Radius*hs.Radius {
		return math.Inf(1)
	}
	return 0
}

// Gradient returns the zero vector away from the hard core; the potential's
// discontinuity at |r| = Radius has no well-defined gradient, which the
// virial estimator is not exercised against for this potential.
func (hs HardSphere) Gradient(r box.Vec) box.Vec { return make(box.Vec, len(r)) }
