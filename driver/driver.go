// Package driver implements the minimal per-step sampling loop spec.md
// §4.7 leaves to "the driver": select a move eligible for the current
// diagonal/off-diagonal sector by weighted random choice, attempt it, and
// track the resulting ensemble state. Grounded on move.cpp's top-level
// moveLoop (construct every MoveBase-derived mover once, loop
// selectMove/attemptMove/keepMove-or-undoMove, track the ensemble tag off
// path.worm.isConfigDiagonal).
package driver

import (
	"log/slog"

	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/prng"
	"github.com/ethancmcgarrigle/pimc/worm"
)

// Driver holds the fixed set of moves a sampler run cycles over, their
// relative selection weights, and the shared RNG/worm state each Step
// consults. spec.md §4.7 states driver.New's signature as
// (moves, attemptProb, rng); this implementation also takes the *worm.State
// and *slog.Logger every move already shares a reference to, since Run
// cannot otherwise observe path.Worm.IsConfigDiagonal after a step -- see
// DESIGN.md's Open Question decision on this point.
type Driver struct {
	moves       []move.Move
	weights     []float64
	totalWeight float64
	path        *path.Path
	worm        *worm.State
	rng         prng.Source
	log         *slog.Logger
}

// New builds a Driver over moves, weighting each by attemptProb[move.Name()]
// (default 1.0 when a move's name is absent from the map, matching
// move.base.attemptProb's own fallback).
func New(moves []move.Move, attemptProb map[string]float64, p *path.Path, w *worm.State, rng prng.Source, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	weights := make([]float64, len(moves))
	total := 0.0
	for i, m := range moves {
		wt := 1.0
		if attemptProb != nil {
			if v, ok := attemptProb[m.Name()]; ok && v > 0 {
				wt = v
			}
		}
		weights[i] = wt
		total += wt
	}
	return &Driver{moves: moves, weights: weights, totalWeight: total, path: p, worm: w, rng: rng, log: log}
}

// eligible returns the indices of moves whose Sector() matches the current
// diagonal/off-diagonal tag, along with their summed weight.
func (d *Driver) eligible(diagonal bool) ([]int, float64) {
	sector := worm.OffDiagonal
	if diagonal {
		sector = worm.Diagonal
	}
	idx := make([]int, 0, len(d.moves))
	total := 0.0
	for i, m := range d.moves {
		if m.Sector() == worm.Any || m.Sector() == sector {
			idx = append(idx, i)
			total += d.weights[i]
		}
	}
	return idx, total
}

// Step selects one move eligible for the given sector by weighted random
// choice, attempts it, and returns the move, its accept/reject outcome, and
// any error from the debug-build invariant check (move.CheckInvariants,
// compiled in only under the pimcdebug build tag).
func (d *Driver) Step(diagonal bool) (move.Move, bool, error) {
	idx, total := d.eligible(diagonal)
	if len(idx) == 0 || total <= 0 {
		return nil, false, nil
	}
	u := d.rng.Float64() * total
	running := 0.0
	chosen := idx[len(idx)-1]
	for _, i := range idx {
		running += d.weights[i]
		if running >= u {
			chosen = i
			break
		}
	}

	m := d.moves[chosen]
	accepted, err := m.AttemptMove()
	if err != nil {
		d.log.Error("move attempt failed", "move", m.Name(), "error", err)
		return m, accepted, err
	}
	if ivErr := move.CheckInvariants(d.path, d.worm); ivErr != nil {
		d.log.Error("invariant violation after move", "move", m.Name(), "error", ivErr)
		return m, accepted, ivErr
	}
	return m, accepted, nil
}

// Run drives steps attempts, updating *diagonal from d.worm's own
// IsConfigDiagonal after every step, and returns the first error
// encountered (if any), halting early.
func (d *Driver) Run(steps int, diagonal *bool) error {
	for i := 0; i < steps; i++ {
		_, _, err := d.Step(*diagonal)
		if err != nil {
			return err
		}
		*diagonal = d.worm.IsConfigDiagonal
	}
	return nil
}
