package action_test

import (
	"math"
	"testing"

	"github.com/ethancmcgarrigle/pimc/action"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/potential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPath(m int) *path.Path {
	bx := box.NewBox([]float64{10, 10, 10}, []bool{true, true, true})
	return path.New(bx, m, nil)
}

func TestPrimitiveIsLocal(t *testing.T) {
	t.Parallel()
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	assert.True(t, a.Local())
}

func TestNonLocalIsNotLocal(t *testing.T) {
	t.Parallel()
	a := action.NewNonLocal(potential.Free{}, potential.Free{}, 0.5, 0.05)
	assert.False(t, a.Local())
}

func TestFreeParticleActionIsZero(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b := p.AddBead(0, box.Vec{1, 2, 3})
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	assert.Equal(t, 0.0, a.BarePotentialAction(p, b))
	assert.Equal(t, 0.0, a.PotentialActionBead(p, b))
}

func TestHarmonicPotentialActionBeadScalesWithTau(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b := p.AddBead(0, box.Vec{1, 0, 0})
	a := action.NewPrimitive(potential.Harmonic{Omega: 1.0}, potential.Free{}, 0.5, 0.1)
	want := 0.1 * 0.5 * 1.0 // tau * 0.5*omega^2*r^2, r^2=1
	assert.InDelta(t, want, a.PotentialActionBead(p, b), 1e-12)
}

func TestSetShiftScalesEffectiveTau(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b := p.AddBead(0, box.Vec{1, 0, 0})
	a := action.NewPrimitive(potential.Harmonic{Omega: 1.0}, potential.Free{}, 0.5, 0.1)
	base := a.PotentialActionBead(p, b)
	a.SetShift(4)
	assert.InDelta(t, 4*base, a.PotentialActionBead(p, b), 1e-12)
}

func TestPotentialActionCorrectionIsZero(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b1 := p.AddBead(0, box.Vec{0, 0, 0})
	b2 := p.AddNextBead(b1, box.Vec{0, 0, 0})
	a := action.NewPrimitive(potential.Harmonic{Omega: 1.0}, potential.Free{}, 0.5, 0.1)
	assert.Equal(t, 0.0, a.PotentialActionCorrection(p, b1, b2))
}

func TestRho0IsSymmetricInBeadArguments(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b1 := p.AddBead(0, box.Vec{0, 0, 0})
	b2 := p.AddBead(0, box.Vec{1, 0, 0})
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	r1 := a.Rho0(p, b1, b2, 3)
	r2 := a.Rho0(p, b2, b1, 3)
	assert.InDelta(t, r1, r2, 1e-12)
}

func TestRho0DecaysWithSeparation(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	origin := p.AddBead(0, box.Vec{0, 0, 0})
	near := p.AddBead(0, box.Vec{0.1, 0, 0})
	far := p.AddBead(0, box.Vec{3, 0, 0})
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	require.Greater(t, a.Rho0(p, origin, near, 1), a.Rho0(p, origin, far, 1))
}

func TestKineticActionZeroForUnlinkedBeads(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	p.AddBead(0, box.Vec{0, 0, 0})
	p.AddBead(1, box.Vec{1, 1, 1})
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	assert.Equal(t, 0.0, a.KineticAction(p))
}

func TestKineticActionPositiveForLinkedBeadsWithSeparation(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b1 := p.AddBead(0, box.Vec{0, 0, 0})
	p.AddNextBead(b1, box.Vec{0.5, 0, 0})
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	assert.Greater(t, a.KineticAction(p), 0.0)
}

func TestEnsembleWeightDefaultIsOne(t *testing.T) {
	t.Parallel()
	a := action.NewPrimitive(potential.Free{}, potential.Free{}, 0.5, 0.05)
	assert.Equal(t, 1.0, a.EnsembleWeight(-3))
	assert.Equal(t, 1.0, a.EnsembleWeight(3))
}

func TestPairInteractionContributesToBeadPotential(t *testing.T) {
	t.Parallel()
	p := newTestPath(8)
	b1 := p.AddBead(0, box.Vec{0, 0, 0})
	p.AddBead(0, box.Vec{0.5, 0, 0})
	a := action.NewPrimitive(potential.Free{}, potential.HardSphere{Radius: 1.0}, 0.5, 0.05)
	assert.True(t, math.IsInf(a.PotentialActionBead(p, b1), 1))
}
