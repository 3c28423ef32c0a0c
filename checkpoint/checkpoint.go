// Package checkpoint (de)serializes a Path/Worm configuration to a
// restartable form. Grounded on spec.md §6 ("Persistence: the sampler must
// be able to save and restore a configuration; format is the implementer's
// choice") -- this package is the expansion that supplies that choice.
package checkpoint

import (
	"encoding/json"
	"fmt"

	"github.com/ethancmcgarrigle/pimc/beadid"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/lookup"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/worm"
)

// BeadRecord is one bead's slice/index, position, and links. Prev/Next are
// nil for NIL -- *BeadRef identifier references, not pointers to other records,
// so a closed ring (every bead reachable from every other) encodes and
// decodes without the cyclic-pointer graph encoding/json cannot walk.
type BeadRecord struct {
	Slice, Index int
	Position     []float64
	Prev, Next   *BeadRef
}

// BeadRef names another bead by identifier.
type BeadRef struct {
	Slice, Index int
}

// WormRecord captures worm.State's exported fields.
type WormRecord struct {
	Head, Tail       *BeadRef
	Length, Gap      int
	IsConfigDiagonal bool
}

// Snapshot is the full restartable state of a configuration: every live
// bead plus the worm's bookkeeping. It does not capture Box or
// NumTimeSlices -- Decode takes those as separate arguments, since they are
// run parameters rather than sampled state.
type Snapshot struct {
	Beads []BeadRecord
	Worm  WormRecord
}

func ref(id beadid.BeadID) *BeadRef {
	if id.IsNil() {
		return nil
	}
	return &BeadRef{Slice: id.Slice, Index: id.Index}
}

func unref(r *BeadRef) beadid.BeadID {
	if r == nil {
		return beadid.Nil
	}
	return beadid.BeadID{Slice: r.Slice, Index: r.Index}
}

// Encode captures every live bead in p and w's bookkeeping into a Snapshot.
func Encode(p *path.Path, w *worm.State) Snapshot {
	ids := p.AllBeads()
	beads := make([]BeadRecord, 0, len(ids))
	for _, id := range ids {
		beads = append(beads, BeadRecord{
			Slice:    id.Slice,
			Index:    id.Index,
			Position: append([]float64(nil), p.Position(id)...),
			Prev:     ref(p.Prev(id)),
			Next:     ref(p.Next(id)),
		})
	}
	return Snapshot{
		Beads: beads,
		Worm: WormRecord{
			Head:             ref(w.Head),
			Tail:             ref(w.Tail),
			Length:           w.Length,
			Gap:              w.Gap,
			IsConfigDiagonal: w.IsConfigDiagonal,
		},
	}
}

// Decode rebuilds a Path (over bx with the given number of time slices and
// lookup grid, lu may be nil) and a worm.State (with the given lambda/tau)
// from a Snapshot. Every bead is re-allocated and relinked by
// BeadRecord.Prev/Next; returns an error if a link names a bead not present
// in the snapshot.
func Decode(snap Snapshot, bx *box.Box, numTimeSlices int, lu *lookup.Table, lambda, tau float64) (*path.Path, *worm.State, error) {
	p := path.New(bx, numTimeSlices, lu)

	// AddBead allocates a fresh per-slice index on every call, so a bead's
	// original (Slice, Index) is not necessarily reproduced verbatim if any
	// bead was ever deleted during the run that produced this snapshot
	// (path.Path never reuses a freed index -- see DESIGN.md decision #3).
	// byRef maps the snapshot's original identifiers to whatever identifier
	// this Decode call actually allocates, so relinking below is correct
	// regardless of whether the two happen to coincide.
	byRef := make(map[beadid.BeadID]beadid.BeadID, len(snap.Beads))
	for _, rec := range snap.Beads {
		want := beadid.BeadID{Slice: rec.Slice, Index: rec.Index}
		got := p.AddBead(rec.Slice, box.Vec(append([]float64(nil), rec.Position...)))
		byRef[want] = got
	}
	for _, rec := range snap.Beads {
		self := byRef[beadid.BeadID{Slice: rec.Slice, Index: rec.Index}]
		if rec.Next != nil {
			nextID := unref(rec.Next)
			next, ok := byRef[nextID]
			if !ok {
				return nil, nil, fmt.Errorf("checkpoint: bead %v names unknown next %v", self, nextID)
			}
			p.Link(self, next)
		}
	}

	w := worm.New(lambda, tau)
	if snap.Worm.Head != nil || snap.Worm.Tail != nil {
		headID := unref(snap.Worm.Head)
		tailID := unref(snap.Worm.Tail)
		head, tail := headID, tailID
		if !headID.IsNil() {
			head = byRef[headID]
		}
		if !tailID.IsNil() {
			tail = byRef[tailID]
		}
		w.Update(p, head, tail)
	}
	return p, w, nil
}

// EncodeJSON/DecodeJSON are the encoding/json convenience wrappers spec.md
// §6 leaves to the implementer's format choice; no pack dependency
// (fxamacker/cbor, pierrec/lz4) has any other foothold in this sampler, so
// stdlib encoding/json is used directly rather than adding a serialization
// dependency for its own sake (see DESIGN.md).
func EncodeJSON(p *path.Path, w *worm.State) ([]byte, error) {
	return json.MarshalIndent(Encode(p, w), "", "  ")
}

func DecodeJSON(data []byte, bx *box.Box, numTimeSlices int, lu *lookup.Table, lambda, tau float64) (*path.Path, *worm.State, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("checkpoint: decode json: %w", err)
	}
	return Decode(snap, bx, numTimeSlices, lu, lambda, tau)
}
