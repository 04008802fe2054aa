package render

import (
	"image"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/scene"
)

const DefaultSquarePx = 72

// Layout places the board inside the image. Pixel and scene coordinates
// are related through it, so the same Layout must be used for rendering
// and for turning clicks back into scene points.
type Layout struct {
	SquarePx     int
	SideMargin   int
	TopMargin    int
	BottomMargin int
}

func NewLayout(squarePx int) Layout {
	if squarePx <= 0 {
		squarePx = DefaultSquarePx
	}
	return Layout{
		SquarePx:     squarePx,
		SideMargin:   squarePx / 2,
		TopMargin:    squarePx*3/2 + 2,
		BottomMargin: squarePx / 2,
	}
}

func (l Layout) boardPx() int { return l.SquarePx * board.Size }

func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.boardPx()+l.SideMargin*2, l.boardPx()+l.TopMargin+l.BottomMargin)
}

func (l Layout) Origin() image.Point { return image.Pt(l.SideMargin, l.TopMargin) }

func (l Layout) BoardRect() image.Rectangle {
	o := l.Origin()
	return image.Rect(o.X, o.Y, o.X+l.boardPx(), o.Y+l.boardPx())
}

func (l Layout) SquareRect(sq board.Square) image.Rectangle {
	o := l.Origin()
	x := o.X + sq.Col()*l.SquarePx
	y := o.Y + sq.Row()*l.SquarePx
	return image.Rect(x, y, x+l.SquarePx, y+l.SquarePx)
}

func (l Layout) SquareCenter(sq board.Square) image.Point {
	r := l.SquareRect(sq)
	return image.Pt(r.Min.X+l.SquarePx/2, r.Min.Y+l.SquarePx/2)
}

// SquareAt returns the square under pixel p.
func (l Layout) SquareAt(p image.Point) (board.Square, bool) {
	if !p.In(l.BoardRect()) {
		return board.Square{}, false
	}
	o := l.Origin()
	sq, err := board.NewSquare((p.Y-o.Y)/l.SquarePx, (p.X-o.X)/l.SquarePx)
	return sq, err == nil
}

// ScenePoint maps pixel p onto the scene's board plane. Points outside the
// board map outside the scene's tiles and pick nothing.
func (l Layout) ScenePoint(p image.Point) scene.Vec3 {
	o := l.Origin()
	half := float64(board.Size) / 2
	return scene.Vec3{
		X: (float64(p.X-o.X)+0.5)/float64(l.SquarePx) - half,
		Z: (float64(p.Y-o.Y)+0.5)/float64(l.SquarePx) - half,
	}
}
