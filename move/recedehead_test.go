package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecedeHeadFreeParticleShrinksWorm(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	openWorm(t, sys, 8, 2)
	startLen := sys.worm.Length
	startBeads := sys.path.TotalLiveBeads()

	totals := &move.Totals{}
	m := move.NewRecedeHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, startLen-2, sys.worm.Length)
	assert.Equal(t, startBeads-2, sys.path.TotalLiveBeads())
}

func TestAdvanceHeadThenRecedeHeadRoundTrips(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	openWorm(t, sys, 8, 2)
	startLen := sys.worm.Length
	startBeads := sys.path.TotalLiveBeads()

	totals := &move.Totals{}
	adv := move.NewAdvanceHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)
	ok, err := adv.AttemptMove()
	require.NoError(t, err)
	require.True(t, ok)

	rec := move.NewRecedeHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)
	ok, err = rec.AttemptMove()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, startLen, sys.worm.Length)
	assert.Equal(t, startBeads, sys.path.TotalLiveBeads())
}
