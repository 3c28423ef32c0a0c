package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceHeadFreeParticleGrowsWorm(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	openWorm(t, sys, 8, 2)
	startLen := sys.worm.Length
	startBeads := sys.path.TotalLiveBeads()

	totals := &move.Totals{}
	m := move.NewAdvanceHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, startLen+2, sys.worm.Length)
	assert.Equal(t, startBeads+2, sys.path.TotalLiveBeads())
	assert.False(t, sys.worm.IsConfigDiagonal)
}

func TestAdvanceHeadIneligibleWhenDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ringOf(t, sys, 8)

	totals := &move.Totals{}
	m := move.NewAdvanceHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), totals.Attempted)
}
