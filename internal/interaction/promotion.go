package interaction

import "github.com/park285/chess3d/internal/board"

// PromotionPolicy chooses the piece a pawn becomes when it reaches its far
// row. Only knight, bishop, rook and queen are honoured.
type PromotionPolicy func(origin, dest board.Square) board.PieceKind

func QueenPromotion(board.Square, board.Square) board.PieceKind { return board.Queen }

// FixedPromotion always promotes to kind.
func FixedPromotion(kind board.PieceKind) PromotionPolicy {
	return func(board.Square, board.Square) board.PieceKind { return kind }
}

func promotionEligible(p board.PlacedPiece, dest board.Square) bool {
	return p.Kind == board.Pawn && dest.Row() == p.Side.FarRow()
}

func validPromotion(k board.PieceKind) bool {
	switch k {
	case board.Knight, board.Bishop, board.Rook, board.Queen:
		return true
	}
	return false
}
