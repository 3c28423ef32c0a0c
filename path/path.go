// Package path implements the worldline bead store: positions plus prev/next
// links indexed by bead identifier, exactly the contract moves in move.cpp
// exercise via path.addNextBead/path.delBeadGetNext/path.next/path.prev.
package path

import (
	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/lookup"
)

type bead struct {
	pos        box.Vec
	prev, next beadid.BeadID
}

// Path owns every bead and every prev/next link. Bead identifiers are
// allocated from a per-slice monotonic counter that is never reused within
// a run (the simplest variant of the "compacting or free-list scheme"
// spec.md §3 permits — see DESIGN.md Open Question decision #3), so a
// move's captured rollback bundle of bead identifiers always stays valid
// across the lifetime of an attempt.
type Path struct {
	box    *box.Box
	lookup *lookup.Table

	beads         map[beadid.BeadID]*bead
	nextIndex     []int
	bySlice       []map[beadid.BeadID]struct{}
	numTimeSlices int
}

// New builds an empty Path over numTimeSlices slices in box bx. lu may be
// nil if spatial lookup acceleration is not needed (e.g. small test
// systems); when non-nil, Path calls lu.Insert/Remove/Move on every bead
// mutation so the grid never goes stale.
func New(bx *box.Box, numTimeSlices int, lu *lookup.Table) *Path {
	p := &Path{
		box:           bx,
		lookup:        lu,
		beads:         make(map[beadid.BeadID]*bead),
		nextIndex:     make([]int, numTimeSlices),
		bySlice:       make([]map[beadid.BeadID]struct{}, numTimeSlices),
		numTimeSlices: numTimeSlices,
	}
	for s := range p.bySlice {
		p.bySlice[s] = make(map[beadid.BeadID]struct{})
	}
	return p
}

// Box returns the simulation cell this path is embedded in.
func (p *Path) Box() *box.Box { return p.box }

// NumTimeSlices returns M.
func (p *Path) NumTimeSlices() int { return p.numTimeSlices }

// NumBeadsAtSlice returns the number of live beads on slice s.
func (p *Path) NumBeadsAtSlice(s int) int {
	s = ((s % p.numTimeSlices) + p.numTimeSlices) % p.numTimeSlices
	return len(p.bySlice[s])
}

// BeadsAtSlice returns the identifiers of every live bead on slice s, in no
// particular order. Used by action.PotentialActionBead's pairwise sum.
func (p *Path) BeadsAtSlice(s int) []beadid.BeadID {
	s = ((s % p.numTimeSlices) + p.numTimeSlices) % p.numTimeSlices
	out := make([]beadid.BeadID, 0, len(p.bySlice[s]))
	for id := range p.bySlice[s] {
		out = append(out, id)
	}
	return out
}

// TotalLiveBeads returns the number of live beads across all slices.
func (p *Path) TotalLiveBeads() int {
	return len(p.beads)
}

// AllBeads returns the identifiers of every live bead, in no particular
// order. Used by debug cross-checks, the checkpoint package, the action's
// KineticAction, the energy estimator, and the moves' random choice of a
// live bead (Open, Staging, Bisection).
func (p *Path) AllBeads() []beadid.BeadID {
	out := make([]beadid.BeadID, 0, len(p.beads))
	for id := range p.beads {
		out = append(out, id)
	}
	return out
}

// BeadExists reports whether b names a live bead.
func (p *Path) BeadExists(b beadid.BeadID) bool {
	if b.IsNil() {
		return false
	}
	_, ok := p.beads[b]
	return ok
}

// Position returns the position of bead b.
func (p *Path) Position(b beadid.BeadID) box.Vec {
	return p.beads[b].pos
}

// Next returns the bead reached by following k next-links from b (k
// defaults to 1). Returns NIL if the chain ends early.
func (p *Path) Next(b beadid.BeadID, k ...int) beadid.BeadID {
	steps := 1
	if len(k) > 0 {
		steps = k[0]
	}
	cur := b
	for i := 0; i < steps; i++ {
		if cur.IsNil() {
			return beadid.Nil
		}
		cur = p.beads[cur].next
	}
	return cur
}

// Prev returns the bead reached by following k prev-links from b (k
// defaults to 1). Returns NIL if the chain ends early.
func (p *Path) Prev(b beadid.BeadID, k ...int) beadid.BeadID {
	steps := 1
	if len(k) > 0 {
		steps = k[0]
	}
	cur := b
	for i := 0; i < steps; i++ {
		if cur.IsNil() {
			return beadid.Nil
		}
		cur = p.beads[cur].prev
	}
	return cur
}

// GetSeparation returns the minimum-image-wrapped difference pos(a) - pos(b).
func (p *Path) GetSeparation(a, b beadid.BeadID) box.Vec {
	pa := p.beads[a].pos
	pb := p.beads[b].pos
	sep := make(box.Vec, len(pa))
	for i := range sep {
		sep[i] = pa[i] - pb[i]
	}
	return p.box.PutInBC(sep)
}

// UpdateBead moves bead b to a new position, keeping the lookup table (if
// any) in sync.
func (p *Path) UpdateBead(b beadid.BeadID, pos box.Vec) {
	bd := p.beads[b]
	bd.pos = pos
	if p.lookup != nil {
		p.lookup.Move(b, pos)
	}
}

// AddBead allocates a new, unlinked bead at slice s with position pos and
// returns its identifier.
func (p *Path) AddBead(s int, pos box.Vec) beadid.BeadID {
	s = ((s % p.numTimeSlices) + p.numTimeSlices) % p.numTimeSlices
	idx := p.nextIndex[s]
	p.nextIndex[s]++
	id := beadid.BeadID{Slice: s, Index: idx}
	p.beads[id] = &bead{pos: pos, prev: beadid.Nil, next: beadid.Nil}
	p.bySlice[s][id] = struct{}{}
	if p.lookup != nil {
		p.lookup.Insert(id, pos)
	}
	return id
}

// AddNextBead allocates a bead one slice after a, links a -> new, and
// returns the new bead's identifier. The new bead's next is NIL; a's old
// next (if any) is not relinked.
func (p *Path) AddNextBead(a beadid.BeadID, pos box.Vec) beadid.BeadID {
	newSlice := a.Slice + 1
	b := p.AddBead(newSlice, pos)
	p.beads[a].next = b
	p.beads[b].prev = a
	return b
}

// AddPrevBead allocates a bead one slice before a, links new -> a, and
// returns the new bead's identifier. The new bead's prev is NIL; a's old
// prev (if any) is not relinked.
func (p *Path) AddPrevBead(a beadid.BeadID, pos box.Vec) beadid.BeadID {
	newSlice := a.Slice - 1
	b := p.AddBead(newSlice, pos)
	p.beads[a].prev = b
	p.beads[b].next = a
	return b
}

// DelBeadGetNext destroys b, splices prev(b) -> next(b) if both are
// non-NIL, and returns next(b) (or NIL if the chain ended there).
func (p *Path) DelBeadGetNext(b beadid.BeadID) beadid.BeadID {
	bd := p.beads[b]
	prevID, nextID := bd.prev, bd.next
	if !prevID.IsNil() {
		p.beads[prevID].next = nextID
	}
	if !nextID.IsNil() {
		p.beads[nextID].prev = prevID
	}
	p.deleteBead(b)
	return nextID
}

// DelBeadGetPrev destroys b, splices prev(b) -> next(b) if both are
// non-NIL, and returns prev(b) (or NIL if the chain ended there).
func (p *Path) DelBeadGetPrev(b beadid.BeadID) beadid.BeadID {
	bd := p.beads[b]
	prevID, nextID := bd.prev, bd.next
	if !prevID.IsNil() {
		p.beads[prevID].next = nextID
	}
	if !nextID.IsNil() {
		p.beads[nextID].prev = prevID
	}
	p.deleteBead(b)
	return prevID
}

func (p *Path) deleteBead(b beadid.BeadID) {
	delete(p.bySlice[b.Slice], b)
	delete(p.beads, b)
	if p.lookup != nil {
		p.lookup.Remove(b)
	}
}

// Link directly sets a -> b as consecutive links, without allocating. Used
// by moves that relink already-live beads (e.g. SwapHead/SwapTail).
func (p *Path) Link(a, b beadid.BeadID) {
	if !a.IsNil() {
		p.beads[a].next = b
	}
	if !b.IsNil() {
		p.beads[b].prev = a
	}
}

// Unlink breaks the next-link leaving a (and the matching prev-link
// entering its old successor), without deleting either bead. Used when a
// move temporarily detaches a worm endpoint before relinking it elsewhere.
func (p *Path) Unlink(a beadid.BeadID) {
	if a.IsNil() {
		return
	}
	nextID := p.beads[a].next
	if !nextID.IsNil() {
		p.beads[nextID].prev = beadid.Nil
	}
	p.beads[a].next = beadid.Nil
}
