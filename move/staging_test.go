package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ringOf(t *testing.T, sys *testSystem, m int) {
	t.Helper()
	prevBead := sys.path.AddBead(0, box.Vec{0, 0, 0})
	first := prevBead
	for s := 1; s < m; s++ {
		prevBead = sys.path.AddNextBead(prevBead, box.Vec{0, 0, 0})
	}
	sys.path.Link(prevBead, first)
}

func TestStagingFreeParticleAlwaysAccepts(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ringOf(t, sys, 8)

	totals := &move.Totals{}
	m := move.NewStaging(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStagingIneligibleWhenWindowRunsOffWormEnd(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	// A single 2-bead open segment: next(start, Mbar=4) runs off the end.
	b0 := sys.path.AddBead(0, box.Vec{0, 0, 0})
	sys.path.AddNextBead(b0, box.Vec{0, 0, 0})

	totals := &move.Totals{}
	m := move.NewStaging(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), totals.Attempted)
}
