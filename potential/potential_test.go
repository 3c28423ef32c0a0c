package potential_test

import (
	"math"
	"testing"

	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/potential"
	"github.com/stretchr/testify/assert"
)

func TestFreeIsAlwaysZero(t *testing.T) {
	t.Parallel()
	var p potential.Potential = potential.Free{}
	assert.Equal(t, 0.0, p.V(box.Vec{1, 2, 3}))
	assert.Equal(t, 0.0, p.V(box.Vec{0, 0, 0}))
}

func TestHarmonicAtOrigin(t *testing.T) {
	t.Parallel()
	h := potential.Harmonic{Omega: 2.0}
	assert.Equal(t, 0.0, h.V(box.Vec{0, 0, 0}))
}

func TestHarmonicMatchesClosedForm(t *testing.T) {
	t.Parallel()
	h := potential.Harmonic{Omega: 1.5}
	r := box.Vec{1, 2, 2}
	want := 0.5 * h.Omega * h.Omega * 9.0
	assert.InDelta(t, want, h.V(r), 1e-12)
}

func TestHardSphereRepulsiveInsideRadius(t *testing.T) {
	t.Parallel()
	hs := potential.HardSphere{Radius: 1.0}
	assert.True(t, math.IsInf(hs.V(box.Vec{0.1, 0, 0}), 1))
}

func TestHardSphereZeroOutsideRadius(t *testing.T) {
	t.Parallel()
	hs := potential.HardSphere{Radius: 1.0}
	assert.Equal(t, 0.0, hs.V(box.Vec{2, 0, 0}))
}
