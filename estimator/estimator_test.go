package estimator_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/estimator"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/potential"
	"github.com/ethancmcgarrigle/pimc/worm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyVirialEstimatorOnHarmonicTrap(t *testing.T) {
	t.Parallel()
	bx := box.NewBox([]float64{10, 10, 10}, []bool{false, false, false})
	p := path.New(bx, 4, nil)
	p.AddBead(0, box.Vec{1, 0, 0})
	p.AddBead(1, box.Vec{2, 0, 0})
	w := worm.New(0.5, 0.05)

	e := estimator.NewEnergy(potential.Harmonic{Omega: 1})
	e.Sample(p, w)

	// bead1: V=0.5*1=0.5, grad=1*1=1, dot=1*1=1, E=0.5+0.5=1
	// bead2: V=0.5*4=2.0, grad=2, dot=2*2=4, E=2+2=4
	// mean = (1+4)/2 = 2.5
	require.EqualValues(t, 1, e.NumSamples())
	assert.InDelta(t, 2.5, e.Mean(), 1e-9)
}

func TestNumberEstimatorCountsParticlesPerSlice(t *testing.T) {
	t.Parallel()
	bx := box.NewBox([]float64{10, 10, 10}, []bool{true, true, true})
	p := path.New(bx, 4, nil)
	first := p.AddBead(0, box.Vec{0, 0, 0})
	prev := first
	for s := 1; s < 4; s++ {
		prev = p.AddNextBead(prev, box.Vec{0, 0, 0})
	}
	p.Link(prev, first)
	w := worm.New(0.5, 0.05)

	n := estimator.NewNumber(bx, 4)
	n.Sample(p, w)
	assert.InDelta(t, 1.0, n.Mean(), 1e-9)
	assert.InDelta(t, 1.0/bx.Volume(), n.Density(), 1e-9)
}

func TestDiagonalWrapperSkipsOffDiagonalSamples(t *testing.T) {
	t.Parallel()
	bx := box.NewBox([]float64{10, 10, 10}, []bool{false, false, false})
	p := path.New(bx, 4, nil)
	tail := p.AddBead(0, box.Vec{1, 0, 0})
	head := p.AddNextBead(tail, box.Vec{2, 0, 0})
	w := worm.New(0.5, 0.05)
	w.Update(p, head, tail) // off-diagonal: worm present

	d := estimator.Diagonal{Estimator: estimator.NewEnergy(potential.Harmonic{Omega: 1})}
	d.Sample(p, w)
	assert.EqualValues(t, 0, d.NumSamples())
}
