package board

import "strings"

// PieceKind identifies a chess piece type.
type PieceKind int

const (
	Pawn PieceKind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

// Letter is the upper-case symbol used in FEN and SAN.
func (k PieceKind) Letter() string {
	switch k {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// ParsePieceKind accepts full names and single-letter symbols (case-insensitive).
func ParsePieceKind(s string) (PieceKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pawn", "p":
		return Pawn, true
	case "knight", "n":
		return Knight, true
	case "bishop", "b":
		return Bishop, true
	case "rook", "r":
		return Rook, true
	case "queen", "q":
		return Queen, true
	case "king", "k":
		return King, true
	}
	return 0, false
}

// Side identifies a player.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// FarRow is the UI row a pawn of this side promotes on.
func (s Side) FarRow() int {
	if s == White {
		return 0
	}
	return Size - 1
}

type PlacedPiece struct {
	Kind PieceKind
	Side Side
}

func (p PlacedPiece) String() string {
	return p.Side.String() + " " + p.Kind.String()
}

// Status is the game state as reported by the rules authority.
type Status int

const (
	InProgress Status = iota
	Check
	Checkmate
	Stalemate
	Draw
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Finished reports whether no further moves can be made.
func (s Status) Finished() bool {
	return s == Checkmate || s == Stalemate || s == Draw
}
