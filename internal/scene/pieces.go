package scene

import "github.com/park285/chess3d/internal/board"

// part is one primitive of a piece model, bounded as a box around the
// piece's vertical axis.
type part struct {
	dx     float64
	rx, rz float64
	y0, y1 float64
}

func round(r, y0, y1 float64) part { return part{rx: r, rz: r, y0: y0, y1: y1} }

func (p part) box() Box {
	return Box{
		Min: Vec3{p.dx - p.rx, p.y0, -p.rz},
		Max: Vec3{p.dx + p.rx, p.y1, p.rz},
	}
}

func pieceParts(kind board.PieceKind) []part {
	switch kind {
	case board.Pawn:
		return []part{round(0.25, 0, 0.08), round(0.2, 0.05, 0.45)}
	case board.Rook:
		return []part{round(0.28, 0, 0.1), round(0.22, 0.1, 0.5), round(0.26, 0.5, 0.6)}
	case board.Knight:
		return []part{
			round(0.25, 0, 0.1),
			{rx: 0.2, rz: 0.15, y0: 0.15, y1: 0.45},
			{dx: 0.2, rx: 0.12, rz: 0.12, y0: 0.38, y1: 0.62},
		}
	case board.Bishop:
		return []part{round(0.25, 0, 0.1), round(0.12, 0.095, 0.545), round(0.18, 0.42, 0.78), round(0.04, 0.68, 0.88)}
	case board.Queen:
		return []part{round(0.3, 0, 0.12), round(0.28, 0.12, 0.42), round(0.18, 0.375, 0.725), round(0.2, 0.65, 1.05), round(0.18, 0.945, 1.095)}
	case board.King:
		return []part{round(0.32, 0, 0.12), round(0.2, 0.12, 0.62), round(0.2, 0.55, 0.95), round(0.22, 0.88, 0.96), round(0.18, 1.0, 1.2)}
	}
	return nil
}
