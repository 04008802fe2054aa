// Package picking turns scene hit results into board targets.
package picking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/chess3d/internal/board"
)

const (
	PiecePrefix  = "piece"
	SquarePrefix = "square"
)

// Node is a scene node as far as picking is concerned.
type Node interface {
	Name() string
	Parent() Node
}

// Hit is one scene hit candidate; callers supply hits front-to-back.
type Hit struct {
	Node     Node
	Distance float64
}

type Kind int

const (
	None Kind = iota
	PieceAt
	CellAt
)

func (k Kind) String() string {
	switch k {
	case PieceAt:
		return "piece"
	case CellAt:
		return "cell"
	default:
		return "none"
	}
}

// Target is the resolved click target. Square is meaningful only when Kind
// is not None.
type Target struct {
	Kind   Kind
	Square board.Square
}

func (t Target) String() string {
	if t.Kind == None {
		return "none"
	}
	return fmt.Sprintf("%s@%d,%d", t.Kind, t.Square.Row(), t.Square.Col())
}

func PieceTag(sq board.Square) string {
	return fmt.Sprintf("%s_%d_%d", PiecePrefix, sq.Row(), sq.Col())
}

func SquareTag(sq board.Square) string {
	return fmt.Sprintf("%s_%d_%d", SquarePrefix, sq.Row(), sq.Col())
}

// ParseTag decodes piece_<row>_<col> and square_<row>_<col>.
func ParseTag(name string) (Target, bool) {
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return Target{}, false
	}
	var kind Kind
	switch parts[0] {
	case PiecePrefix:
		kind = PieceAt
	case SquarePrefix:
		kind = CellAt
	default:
		return Target{}, false
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return Target{}, false
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return Target{}, false
	}
	sq, err := board.NewSquare(row, col)
	if err != nil {
		return Target{}, false
	}
	return Target{Kind: kind, Square: sq}, true
}

// Resolve returns the first target found walking each hit's ancestors, in
// the order supplied.
func Resolve(hits []Hit) Target {
	for _, h := range hits {
		for n := h.Node; n != nil; n = n.Parent() {
			if t, ok := ParseTag(n.Name()); ok {
				return t
			}
		}
	}
	return Target{Kind: None}
}
