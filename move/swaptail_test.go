package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapTailSplicesEntireSecondWorldlineIntoWorm(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ring := ringParticle(t, sys, 8)
	tailA, headA := danglingWorm(t, sys)
	_ = headA

	totals := &move.Totals{}
	m := move.NewSwapTail(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 10, sys.worm.Length)
	assert.Equal(t, 10, sys.path.TotalLiveBeads())
	assert.Equal(t, headA, sys.worm.Head)
	assert.Equal(t, ring[0], sys.worm.Tail)
	assert.False(t, sys.worm.IsConfigDiagonal)
	_ = tailA
}

func TestSwapTailIneligibleWhenDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ringOf(t, sys, 8)

	totals := &move.Totals{}
	m := move.NewSwapTail(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), totals.Attempted)
}
