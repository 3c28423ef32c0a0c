//go:build pimcdebug

package move

import (
	"fmt"

	"github.com/ethancmcgarrigle/pimc/path"
	"github.com/ethancmcgarrigle/pimc/worm"
)

// CheckInvariants re-validates spec.md §3's configuration invariants: a
// diagonal configuration has no worm endpoints, an off-diagonal one has
// non-NIL endpoints with prev(tail)=NIL and next(head)=NIL. Built only
// under the pimcdebug tag (mirrors common.h/move.cpp's PIMC_ASSERT, which
// compiles out entirely in production builds).
func CheckInvariants(p *path.Path, w *worm.State) error {
	if w.IsConfigDiagonal {
		if !w.Head.IsNil() || !w.Tail.IsNil() {
			return fmt.Errorf("%w: diagonal configuration has non-NIL worm endpoints (head=%v tail=%v)", ErrInvariantViolation, w.Head, w.Tail)
		}
		return nil
	}
	if w.Head.IsNil() || w.Tail.IsNil() {
		return fmt.Errorf("%w: off-diagonal configuration has a NIL worm endpoint (head=%v tail=%v)", ErrInvariantViolation, w.Head, w.Tail)
	}
	if !p.Next(w.Head).IsNil() {
		return fmt.Errorf("%w: worm head %v has a non-NIL next link", ErrInvariantViolation, w.Head)
	}
	if !p.Prev(w.Tail).IsNil() {
		return fmt.Errorf("%w: worm tail %v has a non-NIL prev link", ErrInvariantViolation, w.Tail)
	}
	return nil
}
