package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/park285/chess3d/internal/board"
)

// LastMove marks the previous move on the board.
type LastMove struct {
	From board.Square
	To   board.Square
	Side board.Side
}

type Options struct {
	Selected     *board.Square
	Destinations []board.Square
	LastMove     *LastMove

	HUDHeader string
	HUDTurn   string
	HUDStatus string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, snap board.Snapshot, opts Options) ([]byte, error)
}

type PNGRenderer struct {
	layout Layout
	face   font.Face
}

// NewPNGRenderer uses DefaultFace when face is nil.
func NewPNGRenderer(layout Layout, face font.Face) *PNGRenderer {
	if face == nil {
		face = DefaultFace()
	}
	return &PNGRenderer{layout: layout, face: face}
}

func (r *PNGRenderer) Layout() Layout { return r.layout }

// CanDraw reports whether the HUD font covers every rune of s.
func (r *PNGRenderer) CanDraw(s string) bool { return canDraw(r.face, s) }

func (r *PNGRenderer) RenderPNG(ctx context.Context, snap board.Snapshot, opts Options) ([]byte, error) {
	img, err := r.Render(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

// Render draws the board without encoding it.
func (r *PNGRenderer) Render(ctx context.Context, snap board.Snapshot, opts Options) (*image.RGBA, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	l := r.layout
	img := image.NewRGBA(l.Bounds())
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	r.drawHUD(img, opts)
	drawBoardShadow(img, l.BoardRect())
	drawSquares(img, l)
	drawLastMove(img, l, opts.LastMove)
	if opts.Selected != nil {
		drawSquareOverlay(img, l, *opts.Selected, selectionColor)
	}
	if err := drawPieces(img, l, snap); err != nil {
		return nil, err
	}
	drawDestinations(img, l, snap, opts.Destinations)
	r.drawCoordinates(img)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return img, nil
}

var (
	backgroundColor         = color.RGBA{R: 20, G: 22, B: 33, A: 255}
	lightSquare             = color.RGBA{233, 207, 163, 255}
	darkSquare              = color.RGBA{187, 136, 96, 255}
	selectionColor          = color.NRGBA{R: 90, G: 200, B: 255, A: 120}
	destinationColor        = color.NRGBA{R: 40, G: 160, B: 80, A: 170}
	whiteMoveHighlightFill  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveHighlightArrow = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor           = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor       = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudStatusPanelColor     = color.NRGBA{R: 120, G: 36, B: 48, A: 245}
	hudShadowColor          = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary          = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor        = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor        = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor     = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func squareColor(sq board.Square) color.Color {
	if (sq.Row()+sq.Col())%2 == 1 {
		return darkSquare
	}
	return lightSquare
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+8,
		boardRect.Max.X+10,
		boardRect.Max.Y+12,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, l Layout) {
	for _, sq := range board.AllSquares() {
		imagedraw.Draw(dst, l.SquareRect(sq), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(dst imagedraw.Image, l Layout, snap board.Snapshot) error {
	var firstErr error
	snap.Each(func(sq board.Square, p board.PlacedPiece) {
		if firstErr != nil {
			return
		}
		img, err := pieceImage(p, l.SquarePx)
		if err != nil {
			firstErr = err
			return
		}
		imagedraw.Draw(dst, l.SquareRect(sq), img, image.Point{}, imagedraw.Over)
	})
	return firstErr
}

// drawLastMove fills both squares for a white move and draws an arrow for
// a black one.
func drawLastMove(img *image.RGBA, l Layout, m *LastMove) {
	if m == nil {
		return
	}
	if m.Side == board.Black {
		drawArrow(img, l.SquareCenter(m.From), l.SquareCenter(m.To), l.SquarePx, blackMoveHighlightArrow)
		return
	}
	drawSquareOverlay(img, l, m.From, whiteMoveHighlightFill)
	drawSquareOverlay(img, l, m.To, whiteMoveHighlightFill)
}

// drawDestinations marks empty targets with a dot and captures with a ring.
func drawDestinations(img *image.RGBA, l Layout, snap board.Snapshot, dests []board.Square) {
	dot := l.SquarePx / 6
	for _, sq := range dests {
		c := l.SquareCenter(sq)
		if _, occupied := snap.At(sq); occupied {
			drawRing(img, c, l.SquarePx/2-2, l.SquarePx/12+1, destinationColor)
			continue
		}
		drawDisc(img, c, dot, destinationColor)
	}
}

func drawSquareOverlay(img *image.RGBA, l Layout, sq board.Square, clr color.Color) {
	imagedraw.Draw(img, l.SquareRect(sq), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func (r *PNGRenderer) drawHUD(img *image.RGBA, opts Options) {
	const (
		titleHeight   = 40
		panelHeight   = 32
		gapPanels     = 14
		gapToBoard    = 22
		panelRadius   = 12
		paddingX      = 24
		titleMinWidth = 240
		turnMinWidth  = 140
		shadowOffsetY = 6
	)
	boardRect := r.layout.BoardRect()
	drawer := &font.Drawer{Dst: img, Face: r.face}

	title := strings.TrimSpace(opts.HUDHeader)
	turnText := strings.TrimSpace(opts.HUDTurn)
	status := strings.TrimSpace(opts.HUDStatus)

	turnBottom := boardRect.Min.Y - gapToBoard
	turnTop := turnBottom - panelHeight
	titleBottom := turnTop - gapPanels
	titleTop := titleBottom - titleHeight

	width := func(s string, minW int) int {
		w := drawer.MeasureString(s).Round() + paddingX*2
		if w < minW {
			w = minW
		}
		if w > boardRect.Dx() {
			w = boardRect.Dx()
		}
		return w
	}

	type panel struct {
		rect  image.Rectangle
		text  string
		fill  color.Color
		color color.Color
	}
	var panels []panel
	if title != "" {
		w := width(title, titleMinWidth)
		panels = append(panels, panel{image.Rect(boardRect.Min.X, titleTop, boardRect.Min.X+w, titleBottom), title, hudPanelColor, hudTextPrimary})
	}
	if turnText != "" {
		w := width(turnText, turnMinWidth)
		panels = append(panels, panel{image.Rect(boardRect.Min.X, turnTop, boardRect.Min.X+w, turnBottom), turnText, hudTurnPanelColor, hudTurnTextColor})
	}
	if status != "" {
		w := width(status, turnMinWidth)
		panels = append(panels, panel{image.Rect(boardRect.Max.X-w, turnTop, boardRect.Max.X, turnBottom), status, hudStatusPanelColor, hudTextPrimary})
	}

	for _, p := range panels {
		drawRoundedPanel(img, p.rect.Add(image.Pt(0, shadowOffsetY)), panelRadius, hudShadowColor)
	}
	for _, p := range panels {
		drawRoundedPanel(img, p.rect, panelRadius, p.fill)
		text := truncateWithEllipsis(r.face, p.text, p.rect.Dx()-paddingX*2)
		drawCenteredString(drawer, p.rect, text, p.color)
	}
}

func (r *PNGRenderer) drawCoordinates(dst imagedraw.Image) {
	l := r.layout
	drawer := &font.Drawer{Dst: dst, Face: r.face, Src: image.NewUniform(coordinateTextColor)}
	ascent := r.face.Metrics().Ascent.Ceil()
	boardRect := l.BoardRect()

	for i := 0; i < board.Size; i++ {
		rowSq := board.MustSquare(i, 0)
		c := l.SquareCenter(rowSq)
		rank := rowSq.Notation()[1:]
		drawCenteredText(drawer, rank, boardRect.Min.X-l.SideMargin/2, c.Y+ascent/2)

		colSq := board.MustSquare(board.Size-1, i)
		file := colSq.Notation()[:1]
		drawCenteredText(drawer, file, l.SquareCenter(colSq).X, boardRect.Max.Y+ascent)
	}
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	const ellipsis = "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

var _ BoardRenderer = (*PNGRenderer)(nil)
