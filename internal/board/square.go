package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 8

var ErrOutOfRange = errors.New("square out of range")

// Square is a board cell in UI coordinates: row 0 is the far rank (rank 8),
// col 0 is the a-file. Values outside the board are never constructed.
type Square struct {
	row int
	col int
}

// Point is an engine coordinate: X is the file, Y the rank index counted
// upward from white's side.
type Point struct {
	X int
	Y int
}

func NewSquare(row, col int) (Square, error) {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return Square{}, fmt.Errorf("%w: row=%d col=%d", ErrOutOfRange, row, col)
	}
	return Square{row: row, col: col}, nil
}

// MustSquare is NewSquare for constants; it panics on out-of-range input.
func MustSquare(row, col int) Square {
	sq, err := NewSquare(row, col)
	if err != nil {
		panic(err)
	}
	return sq
}

func (s Square) Row() int { return s.row }
func (s Square) Col() int { return s.col }

// Notation renders the square as <file><rank>, e.g. e2.
func (s Square) Notation() string {
	return fmt.Sprintf("%c%d", 'a'+s.col, Size-s.row)
}

func (s Square) String() string { return s.Notation() }

// ParseSquare is the inverse of Notation.
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return NewSquare(Size-int(s[1]-'0'), int(s[0]-'a'))
}

// ToEngine maps a UI square into engine space.
func ToEngine(s Square) Point {
	return Point{X: s.col, Y: Size - 1 - s.row}
}

// ToUI maps an engine point back into UI space.
func ToUI(p Point) (Square, error) {
	return NewSquare(Size-1-p.Y, p.X)
}

// AllSquares lists the 64 squares in row-major UI order.
func AllSquares() []Square {
	out := make([]Square, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out = append(out, Square{row: row, col: col})
		}
	}
	return out
}
