package board

// PieceSource answers occupancy queries in engine coordinates.
type PieceSource interface {
	PieceAt(x, y int) (PlacedPiece, bool)
}

type cell struct {
	piece    PlacedPiece
	occupied bool
}

// Snapshot is a read-only view of piece placement, rebuilt after every
// change in the rules engine.
type Snapshot struct {
	cells [Size * Size]cell
}

// Refresh queries src for every square and returns a new snapshot.
func Refresh(src PieceSource) Snapshot {
	var snap Snapshot
	if src == nil {
		return snap
	}
	for _, sq := range AllSquares() {
		p := ToEngine(sq)
		if piece, ok := src.PieceAt(p.X, p.Y); ok {
			snap.cells[index(sq)] = cell{piece: piece, occupied: true}
		}
	}
	return snap
}

func index(sq Square) int { return sq.row*Size + sq.col }

func (s Snapshot) At(sq Square) (PlacedPiece, bool) {
	c := s.cells[index(sq)]
	return c.piece, c.occupied
}

// Each calls fn for every occupied square in row-major UI order.
func (s Snapshot) Each(fn func(sq Square, p PlacedPiece)) {
	for i, c := range s.cells {
		if !c.occupied {
			continue
		}
		fn(Square{row: i / Size, col: i % Size}, c.piece)
	}
}

func (s Snapshot) Count() int {
	n := 0
	for _, c := range s.cells {
		if c.occupied {
			n++
		}
	}
	return n
}

// Owns reports whether sq holds a piece of the given side.
func (s Snapshot) Owns(sq Square, side Side) bool {
	p, ok := s.At(sq)
	return ok && p.Side == side
}
