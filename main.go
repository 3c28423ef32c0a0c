// Copyright 2025 The QMC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethancmcgarrigle/pimc/action"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/checkpoint"
	"github.com/ethancmcgarrigle/pimc/constants"
	"github.com/ethancmcgarrigle/pimc/driver"
	"github.com/ethancmcgarrigle/pimc/estimator"
	"github.com/ethancmcgarrigle/pimc/lookup"
	"github.com/ethancmcgarrigle/pimc/move"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/potential"
	"github.com/ethancmcgarrigle/pimc/prng"
	"github.com/ethancmcgarrigle/pimc/worm"
)

var (
	// FlagParticles the initial number of particles (closed worldline rings).
	FlagParticles = flag.Int("particles", 4, "the initial number of particles")
	// FlagSlices the number of imaginary-time slices M.
	FlagSlices = flag.Int("slices", 64, "the number of imaginary time slices")
	// FlagMbar the worm-segment window used by several moves.
	FlagMbar = flag.Int("mbar", 8, "the worm segment window Mbar")
	// FlagSteps the number of Monte Carlo steps to drive.
	FlagSteps = flag.Int("steps", 20000, "the number of Monte Carlo steps")
	// FlagTau the imaginary-time step.
	FlagTau = flag.Float64("tau", 0.05, "the imaginary time step tau")
	// FlagLambda is hbar^2/2m.
	FlagLambda = flag.Float64("lambda", 0.5, "hbar^2/2m")
	// FlagMu the chemical potential.
	FlagMu = flag.Float64("mu", 0.0, "the chemical potential")
	// FlagSide the side length of the (periodic, cubic) simulation box.
	FlagSide = flag.Float64("side", 10.0, "the side length of the simulation box")
	// FlagPotential selects the external potential: "free" or "harmonic".
	FlagPotential = flag.String("potential", "harmonic", "the external potential: free or harmonic")
	// FlagOmega the harmonic trap frequency, used when potential=harmonic.
	FlagOmega = flag.Float64("omega", 1.0, "the harmonic trap frequency")
	// FlagSeed the PRNG seed.
	FlagSeed = flag.Int64("seed", 1, "the PRNG seed")
	// FlagCheckpoint the path to write a JSON checkpoint of the final configuration to.
	FlagCheckpoint = flag.String("checkpoint", "", "path to write a JSON checkpoint to (empty disables)")
)

// buildSystem lays out FlagParticles closed worldline rings of FlagSlices
// beads each, one ring per particle spaced out along the box's first axis
// so particles don't start on top of each other.
func buildSystem(bx *box.Box, numTimeSlices int, lu *lookup.Table, particles int) *path.Path {
	p := path.New(bx, numTimeSlices, lu)
	side := bx.Side
	for n := 0; n < particles; n++ {
		offset := side[0] * (float64(n) + 0.5) / float64(particles)
		pos := box.Vec{offset, 0, 0}
		first := p.AddBead(0, bx.PutInside(pos))
		prev := first
		for s := 1; s < numTimeSlices; s++ {
			prev = p.AddNextBead(prev, bx.PutInside(pos))
		}
		p.Link(prev, first)
	}
	return p
}

// buildMoves constructs one instance of every worm-algorithm move, sharing
// a single Totals accumulator, mirroring move.cpp's top-level construction
// of every MoveBase-derived mover before the main sampling loop begins.
func buildMoves(p *path.Path, w *worm.State, bx *box.Box, act action.Action, lu *lookup.Table, cs *constants.Constants, rng prng.Source, log *slog.Logger) ([]move.Move, *move.Totals) {
	totals := &move.Totals{}
	moves := []move.Move{
		move.NewCenterOfMass(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewStaging(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewBisection(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewOpen(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewClose(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewInsert(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewRemove(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewAdvanceHead(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewRecedeHead(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewAdvanceTail(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewRecedeTail(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewSwapHead(p, w, bx, act, lu, cs, rng, log, totals),
		move.NewSwapTail(p, w, bx, act, lu, cs, rng, log, totals),
	}
	return moves, totals
}

// Run assembles a simulation cell per the CLI flags, drives it for
// FlagSteps Monte Carlo steps via driver.Driver, logging energy/number
// estimates sampled on every diagonal configuration, and optionally writes
// a JSON checkpoint of the final configuration.
func Run(log *slog.Logger) error {
	bx := box.NewBox([]float64{*FlagSide, *FlagSide, *FlagSide}, []bool{true, true, true})
	lu := lookup.New(bx, *FlagSlices, 4)
	p := buildSystem(bx, *FlagSlices, lu, *FlagParticles)
	w := worm.New(*FlagLambda, *FlagTau)

	var external potential.Potential
	switch *FlagPotential {
	case "free":
		external = potential.Free{}
	case "harmonic":
		external = potential.Harmonic{Omega: *FlagOmega}
	default:
		return fmt.Errorf("unknown potential %q (want free or harmonic)", *FlagPotential)
	}

	cs, err := constants.New(constants.Constants{
		T:             1.0,
		Mu:            *FlagMu,
		Tau:           *FlagTau,
		Lambda:        *FlagLambda,
		NumTimeSlices: *FlagSlices,
		Mbar:          *FlagMbar,
		B:             2,
		C:             1.0,
		Delta:         1.0,
		NDIM:          3,
		NumParticles:  *FlagParticles,
	})
	if err != nil {
		return fmt.Errorf("constants.New: %w", err)
	}

	act := action.NewPrimitive(external, potential.Free{}, cs.Lambda, cs.Tau)
	rng := prng.NewMathRand(*FlagSeed)
	moves, totals := buildMoves(p, w, bx, act, lu, cs, rng, log)
	d := driver.New(moves, cs.AttemptProb, p, w, rng, log)

	energy := estimator.Diagonal{Estimator: estimator.NewEnergy(external)}
	number := estimator.Diagonal{Estimator: estimator.NewNumber(bx, cs.NumTimeSlices)}

	diagonal := true
	for step := 0; step < *FlagSteps; step++ {
		m, accepted, err := d.Step(diagonal)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if m != nil && accepted {
			diagonal = w.IsConfigDiagonal
		}
		energy.Sample(p, w)
		number.Sample(p, w)
	}

	log.Info("run complete",
		"steps", *FlagSteps,
		"attempted", totals.Attempted,
		"accepted", totals.Accepted,
		"energy_mean", energy.Mean(),
		"energy_stderr", energy.StdErr(),
		"number_mean", number.Mean(),
	)

	if *FlagCheckpoint != "" {
		data, err := checkpoint.EncodeJSON(p, w)
		if err != nil {
			return fmt.Errorf("encoding checkpoint: %w", err)
		}
		if err := os.WriteFile(*FlagCheckpoint, data, 0o644); err != nil {
			return fmt.Errorf("writing checkpoint: %w", err)
		}
		log.Info("checkpoint written", "path", *FlagCheckpoint)
	}
	return nil
}

func main() {
	flag.Parse()
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := Run(log); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}
