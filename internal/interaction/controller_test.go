package interaction

import (
	"errors"
	"testing"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/picking"
	"github.com/park285/chess3d/internal/rules"
	"github.com/park285/chess3d/internal/scene"
)

func openingPosition() map[board.Point]board.PlacedPiece {
	return map[board.Point]board.PlacedPiece{
		pt("e2"): {Kind: board.Pawn, Side: board.White},
		pt("g1"): {Kind: board.Knight, Side: board.White},
		pt("e7"): {Kind: board.Pawn, Side: board.Black},
		pt("e1"): {Kind: board.King, Side: board.White},
		pt("e8"): {Kind: board.King, Side: board.Black},
	}
}

func piece(s string) picking.Target { return picking.Target{Kind: picking.PieceAt, Square: sq(s)} }
func cell(s string) picking.Target  { return picking.Target{Kind: picking.CellAt, Square: sq(s)} }

func newTestController(t *testing.T, f *fakeAuthority, opts ...Option) *Controller {
	t.Helper()
	return NewController(f, opts...)
}

func TestSelectOwnPiece(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e3", "e4")
	c := newTestController(t, f)

	if err := c.HandleTarget(piece("e2")); err != nil {
		t.Fatalf("select: %v", err)
	}
	sel := c.Selection()
	origin, ok := sel.Origin()
	if !ok || origin != sq("e2") {
		t.Fatalf("origin = %v, %v", origin, ok)
	}
	got := sel.Destinations()
	if len(got) != 2 || got[0] != sq("e4") || got[1] != sq("e3") {
		t.Fatalf("destinations = %v; want [e4 e3] in row-major order", got)
	}
}

func TestIdleStaysIdle(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	c := newTestController(t, f)

	for _, tgt := range []picking.Target{cell("d4"), piece("e7"), {Kind: picking.None}} {
		if err := c.HandleTarget(tgt); err != nil {
			t.Fatalf("%v: %v", tgt, err)
		}
		if !c.Selection().IsIdle() {
			t.Fatalf("%v should leave selection idle", tgt)
		}
	}
}

func TestAcceptedMove(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e3", "e4")
	changed := 0
	c := newTestController(t, f, WithBoardChanged(func() { changed++ }))

	_ = c.HandleTarget(piece("e2"))
	if err := c.HandleTarget(cell("e4")); err != nil {
		t.Fatalf("move: %v", err)
	}

	moves := c.Moves()
	if len(moves) != 1 || moves[0].Notation() != "e2e4" {
		t.Fatalf("moves = %v", moves)
	}
	if c.SideToMove() != board.Black {
		t.Fatalf("side = %v; want black", c.SideToMove())
	}
	if !c.Selection().IsIdle() {
		t.Fatalf("selection should be idle after a move")
	}
	if _, ok := c.Snapshot().At(sq("e4")); !ok {
		t.Fatalf("snapshot not refreshed")
	}
	if _, ok := c.Snapshot().At(sq("e2")); ok {
		t.Fatalf("origin still occupied")
	}
	if changed != 1 {
		t.Fatalf("board changed fired %d times", changed)
	}
	call := f.calls[0]
	if call.from != pt("e2") || call.to != pt("e4") || call.promotion != nil {
		t.Fatalf("commit call = %+v", call)
	}
}

func TestRejectedMove(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e4")
	f.reject = true
	changed := 0
	c := newTestController(t, f, WithBoardChanged(func() { changed++ }))

	_ = c.HandleTarget(piece("e2"))
	err := c.HandleTarget(cell("e4"))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v; want ErrIllegalMove", err)
	}
	if !errors.Is(err, rules.ErrRejected) {
		t.Fatalf("err = %v; should wrap the engine rejection", err)
	}
	if n := len(c.Moves()); n != 0 {
		t.Fatalf("log length = %d after rejection", n)
	}
	if c.log.Pending() {
		t.Fatalf("staged entry left pending")
	}
	if c.SideToMove() != board.White {
		t.Fatalf("side changed on rejection")
	}
	if !c.Selection().IsIdle() {
		t.Fatalf("selection should be cleared on rejection")
	}
	if changed != 0 {
		t.Fatalf("board changed fired on rejection")
	}
}

func TestAttemptMoveFromEmptySquare(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	c := newTestController(t, f)
	if err := c.AttemptMove(sq("d4"), sq("d5")); !errors.Is(err, ErrNoPiece) {
		t.Fatalf("err = %v; want ErrNoPiece", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("authority should not be called")
	}
}

func TestPromotionPassedOnlyWhenEligible(t *testing.T) {
	pieces := map[board.Point]board.PlacedPiece{
		pt("a7"): {Kind: board.Pawn, Side: board.White},
		pt("b6"): {Kind: board.Pawn, Side: board.White},
		pt("e1"): {Kind: board.King, Side: board.White},
	}
	f := newFakeAuthority(pieces)
	f.allow("b6", "b7")
	c := newTestController(t, f)

	if err := c.AttemptMove(sq("b6"), sq("b7")); err != nil {
		t.Fatalf("b6b7: %v", err)
	}
	if f.calls[0].promotion != nil {
		t.Fatalf("non-promoting pawn move passed a promotion")
	}

	f = newFakeAuthority(map[board.Point]board.PlacedPiece{
		pt("h2"): {Kind: board.Pawn, Side: board.Black},
	})
	f.side = board.Black
	f.allow("h2", "h1")
	c = newTestController(t, f, WithPromotionPolicy(FixedPromotion(board.Knight)))
	if err := c.AttemptMove(sq("h2"), sq("h1")); err != nil {
		t.Fatalf("h2h1: %v", err)
	}
	last := f.calls[len(f.calls)-1]
	if last.promotion == nil || *last.promotion != board.Knight {
		t.Fatalf("promotion = %v; want knight", last.promotion)
	}
	if got := c.Moves()[0].Notation(); got != "h2h1n" {
		t.Fatalf("notation = %q", got)
	}
}

func TestDefaultPromotionIsQueen(t *testing.T) {
	f := newFakeAuthority(map[board.Point]board.PlacedPiece{
		pt("a7"): {Kind: board.Pawn, Side: board.White},
	})
	f.allow("a7", "a8")
	c := newTestController(t, f)
	if err := c.AttemptMove(sq("a7"), sq("a8")); err != nil {
		t.Fatalf("a7a8: %v", err)
	}
	if p := f.calls[0].promotion; p == nil || *p != board.Queen {
		t.Fatalf("promotion = %v; want queen", p)
	}
	if got, _ := c.Snapshot().At(sq("a8")); got.Kind != board.Queen {
		t.Fatalf("a8 holds %v", got)
	}
}

func TestInvalidPolicyFallsBackToQueen(t *testing.T) {
	f := newFakeAuthority(map[board.Point]board.PlacedPiece{
		pt("a7"): {Kind: board.Pawn, Side: board.White},
	})
	f.allow("a7", "a8")
	c := newTestController(t, f, WithPromotionPolicy(FixedPromotion(board.King)))
	if err := c.AttemptMove(sq("a7"), sq("a8")); err != nil {
		t.Fatalf("a7a8: %v", err)
	}
	if p := f.calls[0].promotion; p == nil || *p != board.Queen {
		t.Fatalf("promotion = %v; want queen", p)
	}
}

func TestSwitchSelectionDiscardsDestinations(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e3", "e4")
	f.allow("g1", "f3", "h3")
	c := newTestController(t, f)

	_ = c.HandleTarget(piece("e2"))
	_ = c.HandleTarget(piece("g1"))

	sel := c.Selection()
	if origin, _ := sel.Origin(); origin != sq("g1") {
		t.Fatalf("origin = %v; want g1", origin)
	}
	if sel.Allows(sq("e4")) {
		t.Fatalf("previous destinations leaked into new selection")
	}
	if !sel.Allows(sq("f3")) || !sel.Allows(sq("h3")) {
		t.Fatalf("new destinations missing: %v", sel.Destinations())
	}
}

func TestDeselectTransitions(t *testing.T) {
	cases := []struct {
		name   string
		second picking.Target
	}{
		{"same origin", piece("e2")},
		{"empty square not in destinations", cell("a5")},
		{"opponent piece not in destinations", piece("e7")},
		{"miss", picking.Target{Kind: picking.None}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeAuthority(openingPosition())
			f.allow("e2", "e3", "e4")
			c := newTestController(t, f)
			_ = c.HandleTarget(piece("e2"))
			if err := c.HandleTarget(tc.second); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.Selection().IsIdle() {
				t.Fatalf("selection should be idle")
			}
			if len(f.calls) != 0 || len(c.Moves()) != 0 {
				t.Fatalf("no move expected")
			}
		})
	}
}

func TestCellOnOwnPieceSelects(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("g1", "f3")
	c := newTestController(t, f)
	_ = c.HandleTarget(cell("g1"))
	if origin, ok := c.Selection().Origin(); !ok || origin != sq("g1") {
		t.Fatalf("cell click on own piece should select it")
	}
}

func TestCaptureOnOpponentPieceInDestinations(t *testing.T) {
	pieces := openingPosition()
	pieces[pt("d5")] = board.PlacedPiece{Kind: board.Pawn, Side: board.Black}
	pieces[pt("e4")] = board.PlacedPiece{Kind: board.Pawn, Side: board.White}
	delete(pieces, pt("e2"))
	f := newFakeAuthority(pieces)
	f.allow("e4", "e5", "d5")
	c := newTestController(t, f)

	_ = c.HandleTarget(piece("e4"))
	if err := c.HandleTarget(piece("d5")); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if got := c.Moves(); len(got) != 1 || got[0].Notation() != "e4d5" {
		t.Fatalf("moves = %v", got)
	}
	if p, _ := c.Snapshot().At(sq("d5")); p.Side != board.White {
		t.Fatalf("d5 holds %v", p)
	}
}

func TestFinishedGameIgnoresClicks(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e4")
	f.status = board.Checkmate
	c := newTestController(t, f)
	_ = c.HandleTarget(piece("e2"))
	if !c.Selection().IsIdle() {
		t.Fatalf("finished game should not select")
	}
	if w, ok := c.Winner(); !ok || w != board.Black {
		t.Fatalf("winner = %v, %v; want black", w, ok)
	}
}

func TestResetGame(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e4")
	changed := 0
	c := newTestController(t, f, WithBoardChanged(func() { changed++ }))
	firstID := c.GameID()

	_ = c.AttemptMove(sq("e2"), sq("e4"))
	_ = c.HandleTarget(piece("e7"))
	c.ResetGame()

	v := c.View()
	if v.GameID == firstID || v.GameID == "" {
		t.Fatalf("game id not renewed: %q", v.GameID)
	}
	if len(v.Moves) != 0 || v.Side != board.White || v.Status != board.InProgress || !v.Selection.IsIdle() {
		t.Fatalf("reset view = %+v", v)
	}
	if _, ok := v.Snapshot.At(sq("e2")); !ok {
		t.Fatalf("snapshot not restored")
	}
	if f.resets != 1 || changed != 2 {
		t.Fatalf("resets = %d, changed = %d", f.resets, changed)
	}
}

func TestClickThroughScene(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	f.allow("e2", "e3", "e4")
	sc := scene.New()
	c := newTestController(t, f, WithScene(sc))

	tgt, err := c.Click(scene.CellCenter(sq("e2")))
	if err != nil || tgt.Kind != picking.PieceAt || tgt.Square != sq("e2") {
		t.Fatalf("click e2 = %v, %v", tgt, err)
	}
	if got := sc.Highlighted(); len(got) != 2 {
		t.Fatalf("highlights = %v", got)
	}

	tgt, err = c.Click(scene.CellCenter(sq("e4")))
	if err != nil || tgt.Kind != picking.CellAt {
		t.Fatalf("click e4 = %v, %v", tgt, err)
	}
	if len(c.Moves()) != 1 {
		t.Fatalf("move not committed")
	}
	if len(sc.Highlighted()) != 0 {
		t.Fatalf("highlights should clear after the move")
	}
	if sc.Root().Find(picking.PieceTag(sq("e4"))) == nil {
		t.Fatalf("scene not synced after the move")
	}

	if tgt, _ := c.Click(scene.Vec3{X: 20, Z: 20}); tgt.Kind != picking.None {
		t.Fatalf("off-board click = %v", tgt)
	}
}

func TestClickWithoutSceneIsMiss(t *testing.T) {
	f := newFakeAuthority(openingPosition())
	c := newTestController(t, f)
	if tgt, err := c.Click(scene.Vec3{}); err != nil || tgt.Kind != picking.None {
		t.Fatalf("click = %v, %v", tgt, err)
	}
}
