package scene

import (
	"fmt"
	"sort"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/picking"
)

const (
	squareSize     = 1.0
	tileInset      = 0.95
	tileY          = 0.01
	highlightR     = 0.3
	highlightY     = 0.05
	highlightH     = 0.05
	pickRayHeight  = 50.0
	boardThickness = 0.2
)

const (
	RootName       = "root"
	BoardName      = "board"
	PiecesName     = "pieces"
	HighlightNamef = "highlight_%d_%d"
)

// Scene mirrors the rendered board: tiles, pieces and move highlights.
type Scene struct {
	root       *Node
	boardNode  *Node
	piecesNode *Node
	highlights []*Node
}

func New() *Scene {
	s := &Scene{
		root:       NewNode(RootName),
		boardNode:  NewNode(BoardName),
		piecesNode: NewNode(PiecesName),
	}
	s.root.AddChild(s.boardNode)
	s.root.AddChild(s.piecesNode)

	half := squareSize * board.Size / 2
	s.boardNode.AddChild(NewGeometry("", Box{
		Min: Vec3{-half, -0.05 - boardThickness, -half},
		Max: Vec3{half, -0.05, half},
	}))
	for _, sq := range board.AllSquares() {
		c := CellCenter(sq)
		h := squareSize * tileInset / 2
		s.boardNode.AddChild(NewGeometry(picking.SquareTag(sq), Box{
			Min: Vec3{c.X - h, tileY - 0.001, c.Z - h},
			Max: Vec3{c.X + h, tileY + 0.001, c.Z + h},
		}))
	}
	return s
}

func (s *Scene) Root() *Node { return s.root }

// CellCenter is the board-plane centre of sq; row grows along +Z.
func CellCenter(sq board.Square) Vec3 {
	half := float64(board.Size) / 2
	return Vec3{
		X: float64(sq.Col())*squareSize - half + squareSize/2,
		Y: 0,
		Z: float64(sq.Row())*squareSize - half + squareSize/2,
	}
}

// Sync replaces every piece node with the contents of snap.
func (s *Scene) Sync(snap board.Snapshot) {
	s.piecesNode.RemoveAllChildren()
	snap.Each(func(sq board.Square, p board.PlacedPiece) {
		s.piecesNode.AddChild(pieceNode(sq, p))
	})
}

func pieceNode(sq board.Square, p board.PlacedPiece) *Node {
	group := NewNode(picking.PieceTag(sq))
	at := CellCenter(sq)
	for _, part := range pieceParts(p.Kind) {
		group.AddChild(NewGeometry("", part.box().Offset(at)))
	}
	return group
}

// SetHighlights replaces the destination markers.
func (s *Scene) SetHighlights(squares []board.Square) {
	s.ClearHighlights()
	for _, sq := range squares {
		c := CellCenter(sq)
		n := NewGeometry(fmt.Sprintf(HighlightNamef, sq.Row(), sq.Col()), Box{
			Min: Vec3{c.X - highlightR, highlightY - highlightH/2, c.Z - highlightR},
			Max: Vec3{c.X + highlightR, highlightY + highlightH/2, c.Z + highlightR},
		})
		s.boardNode.AddChild(n)
		s.highlights = append(s.highlights, n)
	}
}

func (s *Scene) ClearHighlights() {
	for _, n := range s.highlights {
		n.RemoveFromParent()
	}
	s.highlights = nil
}

func (s *Scene) Highlighted() []string {
	out := make([]string, 0, len(s.highlights))
	for _, n := range s.highlights {
		out = append(out, n.Name())
	}
	return out
}

// HitTest returns every geometry node crossed by r, nearest first.
func (s *Scene) HitTest(r Ray) []picking.Hit {
	var hits []picking.Hit
	s.root.walk(func(n *Node) {
		b, ok := n.Bounds()
		if !ok {
			return
		}
		if d, ok := b.Intersect(r); ok {
			hits = append(hits, picking.Hit{Node: n, Distance: d})
		}
	})
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// PickAt casts a ray straight down through the board-plane point p (Y is
// ignored).
func (s *Scene) PickAt(p Vec3) []picking.Hit {
	return s.HitTest(Ray{
		Origin: Vec3{X: p.X, Y: pickRayHeight, Z: p.Z},
		Dir:    Vec3{Y: -1},
	})
}
