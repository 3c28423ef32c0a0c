package move_test

import (
	"testing"

	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ringParticle builds a closed m-bead ring (a second, fully diagonal
// particle sharing the box) and returns its beads in slice order 0..m-1.
func ringParticle(t *testing.T, sys *testSystem, m int) []beadid.BeadID {
	t.Helper()
	beads := make([]beadid.BeadID, m)
	beads[0] = sys.path.AddBead(0, box.Vec{0, 0, 0})
	prev := beads[0]
	for s := 1; s < m; s++ {
		prev = sys.path.AddNextBead(prev, box.Vec{0, 0, 0})
		beads[s] = prev
	}
	sys.path.Link(prev, beads[0])
	return beads
}

// danglingWorm builds a free-standing two-bead worm (tail -> head, unlinked
// to anything else) the way move.Insert would, and installs it on sys.worm.
func danglingWorm(t *testing.T, sys *testSystem) (tail, head beadid.BeadID) {
	t.Helper()
	tail = sys.path.AddBead(0, box.Vec{0, 0, 0})
	head = sys.path.AddNextBead(tail, box.Vec{0, 0, 0})
	sys.worm.Update(sys.path, head, tail)
	return tail, head
}

func TestSwapHeadSplicesEntireSecondWorldlineIntoWorm(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ring := ringParticle(t, sys, 8)
	tailA, headA := danglingWorm(t, sys)
	_ = tailA

	totals := &move.Totals{}
	m := move.NewSwapHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 10, sys.worm.Length)
	assert.Equal(t, 10, sys.path.TotalLiveBeads())
	assert.Equal(t, tailA, sys.worm.Tail)
	assert.Equal(t, ring[1], sys.worm.Head)
	assert.False(t, sys.worm.IsConfigDiagonal)
	_ = headA
}

func TestSwapHeadIneligibleWhenDiagonal(t *testing.T) {
	t.Parallel()
	sys := newTestSystem(t, 8)
	ringOf(t, sys, 8)

	totals := &move.Totals{}
	m := move.NewSwapHead(sys.path, sys.worm, sys.box, sys.act, sys.lu, sys.cs, forceAccept(), newLogger(), totals)

	ok, err := m.AttemptMove()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), totals.Attempted)
}
