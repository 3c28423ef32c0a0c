package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertThenRemoveReturnsToEmptyDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)

	totals := &move.Totals{}
	insert := move.NewInsert(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)
	ok, err := insert.AttemptMove()
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, sys.worm.IsConfigDiagonal)

	remove := move.NewRemove(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)
	ok, err = remove.AttemptMove()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, sys.worm.IsConfigDiagonal)
	assert.Equal(t, 0, sys.path.TotalLiveBeads())
}

func TestRemoveIneligibleWhenDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ringOf(t, sys, 8)

	totals := &move.Totals{}
	m := move.NewRemove(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), totals.Attempted)
}
