package interaction

import (
	"fmt"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/rules"
)

type commitCall struct {
	from, to  board.Point
	promotion *board.PieceKind
}

// fakeAuthority is a rules authority with scripted legal moves: a move is
// accepted iff it is listed in legal, and the piece is relocated verbatim.
type fakeAuthority struct {
	pieces  map[board.Point]board.PlacedPiece
	legal   map[board.Point][]board.Point
	side    board.Side
	status  board.Status
	calls   []commitCall
	resets  int
	initial map[board.Point]board.PlacedPiece
	// reject forces CommitMove to fail even for listed moves.
	reject bool
}

func newFakeAuthority(pieces map[board.Point]board.PlacedPiece) *fakeAuthority {
	initial := make(map[board.Point]board.PlacedPiece, len(pieces))
	for k, v := range pieces {
		initial[k] = v
	}
	return &fakeAuthority{pieces: pieces, legal: map[board.Point][]board.Point{}, initial: initial}
}

func (f *fakeAuthority) allow(from string, to ...string) {
	p := pt(from)
	for _, t := range to {
		f.legal[p] = append(f.legal[p], pt(t))
	}
}

func (f *fakeAuthority) PieceAt(x, y int) (board.PlacedPiece, bool) {
	p, ok := f.pieces[board.Point{X: x, Y: y}]
	return p, ok
}

func (f *fakeAuthority) LegalDestinations(x, y int) []board.Point {
	return f.legal[board.Point{X: x, Y: y}]
}

func (f *fakeAuthority) CommitMove(from, to board.Point, promotion *board.PieceKind) error {
	f.calls = append(f.calls, commitCall{from: from, to: to, promotion: promotion})
	if f.reject {
		return fmt.Errorf("%w: forced", rules.ErrRejected)
	}
	ok := false
	for _, d := range f.legal[from] {
		if d == to {
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%w: %v->%v", rules.ErrRejected, from, to)
	}
	p := f.pieces[from]
	if promotion != nil {
		p.Kind = *promotion
	}
	delete(f.pieces, from)
	f.pieces[to] = p
	f.legal = map[board.Point][]board.Point{}
	f.side = f.side.Opponent()
	return nil
}

func (f *fakeAuthority) Status() board.Status   { return f.status }
func (f *fakeAuthority) SideToMove() board.Side { return f.side }

func (f *fakeAuthority) Reset() {
	f.resets++
	f.pieces = make(map[board.Point]board.PlacedPiece, len(f.initial))
	for k, v := range f.initial {
		f.pieces[k] = v
	}
	f.legal = map[board.Point][]board.Point{}
	f.side = board.White
	f.status = board.InProgress
}

// pt converts algebraic notation to engine coordinates.
func pt(s string) board.Point {
	return board.Point{X: int(s[0] - 'a'), Y: int(s[1] - '1')}
}

// sq converts algebraic notation to a UI square.
func sq(s string) board.Square {
	return board.MustSquare(int('8'-s[1]), int(s[0]-'a'))
}

var _ rules.Authority = (*fakeAuthority)(nil)
