package rules

import (
	nchess "github.com/corentings/chess/v2"
	"github.com/park285/chess3d/internal/board"
)

func engineSquare(p board.Point) (nchess.Square, bool) {
	if p.X < 0 || p.X >= board.Size || p.Y < 0 || p.Y >= board.Size {
		return nchess.NoSquare, false
	}
	return nchess.NewSquare(nchess.File(p.X), nchess.Rank(p.Y)), true
}

func pointFrom(sq nchess.Square) board.Point {
	return board.Point{X: int(sq.File()), Y: int(sq.Rank())}
}

func sideFrom(c nchess.Color) board.Side {
	if c == nchess.Black {
		return board.Black
	}
	return board.White
}

func placedFrom(p nchess.Piece) (board.PlacedPiece, bool) {
	if p == nchess.NoPiece {
		return board.PlacedPiece{}, false
	}
	var kind board.PieceKind
	switch p.Type() {
	case nchess.Pawn:
		kind = board.Pawn
	case nchess.Knight:
		kind = board.Knight
	case nchess.Bishop:
		kind = board.Bishop
	case nchess.Rook:
		kind = board.Rook
	case nchess.Queen:
		kind = board.Queen
	case nchess.King:
		kind = board.King
	default:
		return board.PlacedPiece{}, false
	}
	return board.PlacedPiece{Kind: kind, Side: sideFrom(p.Color())}, true
}

func pieceTypeFrom(k board.PieceKind) (nchess.PieceType, bool) {
	switch k {
	case board.Knight:
		return nchess.Knight, true
	case board.Bishop:
		return nchess.Bishop, true
	case board.Rook:
		return nchess.Rook, true
	case board.Queen:
		return nchess.Queen, true
	}
	return nchess.NoPieceType, false
}

func promoSuffix(pt nchess.PieceType) string {
	switch pt {
	case nchess.Queen:
		return "q"
	case nchess.Rook:
		return "r"
	case nchess.Bishop:
		return "b"
	case nchess.Knight:
		return "n"
	}
	return ""
}
