package move_test

import (
	"log/slog"
	"testing"

	"github.com/ethancmcgarrigle/pimc/action"
	"github.com/ethancmcgarrigle/pimc/box"
	"github.com/ethancmcgarrigle/pimc/constants"
	"github.com/ethancmcgarrigle/pimc/lookup"
	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/potential"
	"github.com/ethancmcgarrigle/pimc/prng"
	"github.com/ethancmcgarrigle/pimc/worm"
)

// fixedSource is a deterministic prng.Source test double: Float64 always
// returns the configured value (0 forces every Metropolis accept test to
// pass, 1 forces every one to fail), Intn always returns 0, Norm always
// returns mean (no displacement). Grounded on SPEC_FULL.md §8's call for a
// forced-accept test double to check round-trip/detailed-balance identities.
type fixedSource struct {
	float64Val float64
}

func (f fixedSource) Float64() float64                  { return f.float64Val }
func (f fixedSource) Intn(n int) int                     { return 0 }
func (f fixedSource) Norm(mean, stddev float64) float64 { return mean }

func forceAccept() prng.Source { return fixedSource{float64Val: 0} }
func forceReject() prng.Source { return fixedSource{float64Val: 1} }

type testSystem struct {
	box  *box.Box
	path *path.Path
	lu   *lookup.Table
	worm *worm.State
	act  action.Action
	cs   *constants.Constants
}

func newTestSystem(t *testing.T, m int) *testSystem {
	t.Helper()
	bx := box.NewBox([]float64{10, 10, 10}, []bool{true, true, true})
	lu := lookup.New(bx, m, 4)
	p := path.New(bx, m, lu)
	w := worm.New(0.5, 0.05)
	cs, err := constants.New(constants.Constants{
		T:             1.0,
		Mu:            0.0,
		Tau:           0.05,
		Lambda:        0.5,
		NumTimeSlices: m,
		Mbar:          4,
		B:             2,
		C:             1.0,
		Delta:         1.0,
		NDIM:          3,
		NumParticles:  1,
	})
	if err != nil {
		t.Fatalf("constants.New: %v", err)
	}
	act := action.NewPrimitive(potential.Free{}, potential.Free{}, cs.Lambda, cs.Tau)
	return &testSystem{box: bx, path: p, lu: lu, worm: w, act: act, cs: cs}
}

func newLogger() *slog.Logger { return slog.Default() }

// nonLocalAction wraps an action.Action and reports Local() == false while
// delegating every other method, used to exercise Bisection's fail-fast
// ineligibility path without constructing a whole separate action.NonLocal.
type nonLocalAction struct {
	action.Action
}

func (nonLocalAction) Local() bool { return false }
