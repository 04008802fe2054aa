package interaction

import "github.com/park285/chess3d/internal/board"

// Selection is either idle or a selected origin with its legal
// destinations. The zero value is idle.
type Selection struct {
	active bool
	origin board.Square
	dests  map[board.Square]struct{}
}

func Idle() Selection { return Selection{} }

func selected(origin board.Square, dests []board.Square) Selection {
	set := make(map[board.Square]struct{}, len(dests))
	for _, d := range dests {
		set[d] = struct{}{}
	}
	return Selection{active: true, origin: origin, dests: set}
}

func (s Selection) IsIdle() bool { return !s.active }

// Origin returns the selected square; ok is false when idle.
func (s Selection) Origin() (board.Square, bool) { return s.origin, s.active }

func (s Selection) Allows(dest board.Square) bool {
	_, ok := s.dests[dest]
	return ok
}

// Destinations returns the legal destinations in row-major order.
func (s Selection) Destinations() []board.Square {
	if !s.active {
		return nil
	}
	out := make([]board.Square, 0, len(s.dests))
	for _, sq := range board.AllSquares() {
		if _, ok := s.dests[sq]; ok {
			out = append(out, sq)
		}
	}
	return out
}
