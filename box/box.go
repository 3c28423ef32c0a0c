// Package box implements the periodic (or partially periodic) simulation
// cell: minimum-image wrapping, random positions, and random small
// displacements. Grounded on move.cpp's pervasive
// path.boxPtr->putInside(...)/putInBC(...) call sites and cmc.cpp's
// boxPtr->randUpdate/boxPtr->randPosition/boxPtr->volume.
package box

import (
	"math"

	"github.com/ethancmcgarrigle/pimc/prng"
)

// Vec is an NDIM-length coordinate or displacement. The teacher
// (pointlander-qmc/main.go) represents per-slice state as plain []float64;
// Go has no blitz::TinyVector<double,NDIM>, so a slice is the natural
// replacement and NDIM is carried at runtime on Box rather than fixed at
// compile time.
type Vec []float64

// Box is the simulation cell: an axis-aligned box, each axis independently
// periodic or not, centered on the origin.
type Box struct {
	Side     []float64
	Periodic []bool
	// Delta is the default step size for RandUpdate; callers typically set
	// this from constants.Constants.Delta after construction.
	Delta float64
}

// NewBox builds a Box with the given per-axis side lengths and periodicity.
// Delta defaults to a tenth of the smallest side; callers that need a
// specific step (e.g. matching constants.Constants.Delta) should assign
// b.Delta directly.
func NewBox(side []float64, periodic []bool) *Box {
	b := &Box{
		Side:     append([]float64(nil), side...),
		Periodic: append([]bool(nil), periodic...),
	}
	minSide := math.Inf(1)
	for _, s := range b.Side {
		if s < minSide {
			minSide = s
		}
	}
	b.Delta = minSide / 10
	return b
}

// NDIM returns the number of spatial dimensions.
func (b *Box) NDIM() int {
	return len(b.Side)
}

// Volume returns the product of the side lengths.
func (b *Box) Volume() float64 {
	v := 1.0
	for _, s := range b.Side {
		v *= s
	}
	return v
}

// PutInside wraps p into the canonical cell [-side/2, side/2) on every
// periodic axis; non-periodic axes are returned unchanged (the caller is
// responsible for rejecting out-of-range values, per spec.md §4.1).
func (b *Box) PutInside(p Vec) Vec {
	out := make(Vec, len(p))
	for i, x := range p {
		if i < len(b.Periodic) && b.Periodic[i] {
			s := b.Side[i]
			x = math.Mod(x+0.5*s, s)
			if x < 0 {
				x += s
			}
			out[i] = x - 0.5*s
		} else {
			out[i] = x
		}
	}
	return out
}

// PutInBC reduces v to its minimum image on every periodic axis. It is
// symmetric: PutInBC(-v) = -PutInBC(v) for every v not exactly on a cell
// boundary.
func (b *Box) PutInBC(v Vec) Vec {
	out := make(Vec, len(v))
	for i, x := range v {
		if i < len(b.Periodic) && b.Periodic[i] {
			s := b.Side[i]
			out[i] = x - s*math.Round(x/s)
		} else {
			out[i] = x
		}
	}
	return out
}

// RandPosition draws a position uniformly distributed in the cell.
func (b *Box) RandPosition(rng prng.Source) Vec {
	out := make(Vec, len(b.Side))
	for i, s := range b.Side {
		out[i] = s * (rng.Float64() - 0.5)
	}
	return out
}

// RandUpdate returns p displaced by a uniform random step of size b.Delta
// on each axis, wrapped back into the cell.
func (b *Box) RandUpdate(rng prng.Source, p Vec) Vec {
	out := make(Vec, len(p))
	for i, x := range p {
		out[i] = x + b.Delta*(rng.Float64()-0.5)
	}
	return b.PutInside(out)
}
