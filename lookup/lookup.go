// Package lookup implements the spatial grid of beads per time slice used
// by the swap moves to enumerate nearby worldlines without a full O(N)
// scan. Grounded on the "Default to turning on the NN lookup table" comment
// in common.h (NN_TABLE) and move.cpp's SwapMoveBase::getNorm/
// selectPivotBead, reworked as a Go map-of-sets grid instead of Blitz arrays
// of boost::ptr_vector.
package lookup

import (
	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/box"
)

// Table partitions each time slice's beads into a uniform spatial grid.
type Table struct {
	box           *box.Box
	numTimeSlices int
	cellsPerAxis  int
	cellSize      []float64

	// cells[slice][flatCellIndex] holds the set of bead ids in that cell.
	cells [][]map[beadid.BeadID]struct{}
	// cellOf/posOf let Remove/Move/GridNeighbors locate a bead's cell and
	// position without the caller having to remember them.
	cellOf map[beadid.BeadID]int
	posOf  map[beadid.BeadID]box.Vec

	// FullBeadList/FullNumBeads are the result of the most recent call to
	// UpdateFullInteractionList, matching move.cpp's fullBeadList/
	// fullNumBeads member-variable scratch buffer.
	FullBeadList []beadid.BeadID
	FullNumBeads int
}

// New builds a Table with cellsPerAxis cells along every spatial axis of bx,
// one independent grid per imaginary-time slice.
func New(bx *box.Box, numTimeSlices, cellsPerAxis int) *Table {
	if cellsPerAxis < 1 {
		cellsPerAxis = 1
	}
	t := &Table{
		box:           bx,
		numTimeSlices: numTimeSlices,
		cellsPerAxis:  cellsPerAxis,
		cellSize:      make([]float64, bx.NDIM()),
		cellOf:        make(map[beadid.BeadID]int),
		posOf:         make(map[beadid.BeadID]box.Vec),
	}
	for i, s := range bx.Side {
		t.cellSize[i] = s / float64(cellsPerAxis)
	}
	numCells := 1
	for range bx.Side {
		numCells *= cellsPerAxis
	}
	t.cells = make([][]map[beadid.BeadID]struct{}, numTimeSlices)
	for s := range t.cells {
		t.cells[s] = make([]map[beadid.BeadID]struct{}, numCells)
	}
	return t
}

func (t *Table) cellCoords(pos box.Vec) []int {
	coords := make([]int, len(pos))
	for i, x := range pos {
		s := t.box.Side[i]
		idx := int((x + 0.5*s) / t.cellSize[i])
		if idx < 0 {
			idx = 0
		}
		if idx >= t.cellsPerAxis {
			idx = t.cellsPerAxis - 1
		}
		coords[i] = idx
	}
	return coords
}

func (t *Table) flatten(coords []int) int {
	idx := 0
	for _, c := range coords {
		idx = idx*t.cellsPerAxis + c
	}
	return idx
}

func (t *Table) cellOfPos(pos box.Vec) int {
	return t.flatten(t.cellCoords(pos))
}

func (t *Table) ensureCell(slice, cell int) map[beadid.BeadID]struct{} {
	m := t.cells[slice][cell]
	if m == nil {
		m = make(map[beadid.BeadID]struct{})
		t.cells[slice][cell] = m
	}
	return m
}

// Insert registers bead b at position pos.
func (t *Table) Insert(b beadid.BeadID, pos box.Vec) {
	cell := t.cellOfPos(pos)
	t.ensureCell(b.Slice, cell)[b] = struct{}{}
	t.cellOf[b] = cell
	t.posOf[b] = pos
}

// Remove deregisters bead b.
func (t *Table) Remove(b beadid.BeadID) {
	cell, ok := t.cellOf[b]
	if !ok {
		return
	}
	delete(t.cells[b.Slice][cell], b)
	delete(t.cellOf, b)
	delete(t.posOf, b)
}

// Move relocates bead b to newPos, updating its cell membership.
func (t *Table) Move(b beadid.BeadID, newPos box.Vec) {
	t.Remove(b)
	t.Insert(b, newPos)
}

// neighborCellCoords returns the coordinates of coords and every adjacent
// cell (including itself), wrapping on periodic axes.
func (t *Table) neighborCellCoords(coords []int) [][]int {
	var out [][]int
	var rec func(axis int, cur []int)
	rec = func(axis int, cur []int) {
		if axis == len(coords) {
			cp := append([]int(nil), cur...)
			out = append(out, cp)
			return
		}
		for d := -1; d <= 1; d++ {
			v := coords[axis] + d
			if axis < len(t.box.Periodic) && t.box.Periodic[axis] {
				v = ((v % t.cellsPerAxis) + t.cellsPerAxis) % t.cellsPerAxis
			} else if v < 0 || v >= t.cellsPerAxis {
				continue
			}
			rec(axis+1, append(cur, v))
		}
	}
	rec(0, nil)
	return out
}

// UpdateFullInteractionList populates FullBeadList/FullNumBeads with the
// beads at pivotSlice whose grid cell is a neighbor of (or the same as) b's
// own grid cell.
func (t *Table) UpdateFullInteractionList(b beadid.BeadID, pivotSlice int) {
	coords := t.cellCoords(t.posOf[b])
	t.FullBeadList = t.FullBeadList[:0]
	for _, nc := range t.neighborCellCoords(coords) {
		cell := t.flatten(nc)
		for id := range t.cells[pivotSlice][cell] {
			t.FullBeadList = append(t.FullBeadList, id)
		}
	}
	t.FullNumBeads = len(t.FullBeadList)
}

// GridNeighbors reports whether a and b occupy adjacent (or the same) grid
// cells, regardless of which time slice each lives on.
func (t *Table) GridNeighbors(a, b beadid.BeadID) bool {
	ca := t.cellCoords(t.posOf[a])
	cb := t.cellCoords(t.posOf[b])
	for i := range ca {
		d := ca[i] - cb[i]
		if d < 0 {
			d = -d
		}
		if d > 1 {
			if i < len(t.box.Periodic) && t.box.Periodic[i] && d == t.cellsPerAxis-1 {
				continue // wraps to adjacent
			}
			return false
		}
	}
	return true
}

// GridShare reports whether a and b occupy the exact same grid cell.
func (t *Table) GridShare(a, b beadid.BeadID) bool {
	return t.cellOf[a] == t.cellOf[b]
}
