package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openWorm builds a ring of m beads then opens a gap of length l starting
// after physTail, leaving the worm's Head field holding physTail and its
// Tail field holding physHead (see move.Open's commit-path comment on the
// worm.Update argument-order convention).
func openWorm(t *testing.T, sys *testSystem, m, l int) {
	t.Helper()
	ringOf(t, sys, m)
	all := sys.path.AllBeads()
	physTail := all[0]
	physHead := sys.path.Next(physTail, l)

	cur := physTail
	for k := 1; k < l; k++ {
		nxt := sys.path.Next(cur)
		sys.path.DelBeadGetNext(nxt)
	}
	sys.path.Unlink(physTail)
	sys.worm.Update(sys.path, physTail, physHead)
}

func TestCloseFreeParticleAcceptsAndReturnsToDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	openWorm(t, sys, 8, 2)
	require.False(t, sys.worm.IsConfigDiagonal)

	totals := &move.Totals{}
	m := move.NewClose(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, sys.worm.IsConfigDiagonal)
	assert.Equal(t, 8, sys.path.TotalLiveBeads())
}

func TestCloseIneligibleWhenDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ringOf(t, sys, 8)

	totals := &move.Totals{}
	m := move.NewClose(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), totals.Attempted)
}
