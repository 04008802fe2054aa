package rules

import (
	"errors"

	"github.com/park285/chess3d/internal/board"
)

var ErrRejected = errors.New("move rejected by rules engine")

// Authority is the rules engine as seen by the interaction layer. All
// coordinates are engine space (see board.ToEngine).
type Authority interface {
	PieceAt(x, y int) (board.PlacedPiece, bool)
	LegalDestinations(x, y int) []board.Point
	// CommitMove applies the move or returns an error wrapping ErrRejected.
	// promotion is nil unless the move is a pawn reaching its far rank.
	CommitMove(from, to board.Point, promotion *board.PieceKind) error
	Status() board.Status
	SideToMove() board.Side
	Reset()
}
