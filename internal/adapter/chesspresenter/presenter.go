package chesspresenter

import (
	"context"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/interaction"
	"github.com/park285/chess3d/internal/render"
)

// ImageRenderer is the subset of render.PNGRenderer the presenter needs.
type ImageRenderer interface {
	RenderPNG(ctx context.Context, snap board.Snapshot, opts render.Options) ([]byte, error)
	CanDraw(s string) bool
}

// fallbackLanguage is used for image text the renderer's font cannot draw.
const fallbackLanguage = "en"

// Presenter produces board images for a controller view.
type Presenter struct {
	renderer  ImageRenderer
	formatter *Formatter
}

func NewPresenter(renderer ImageRenderer, formatter *Formatter) *Presenter {
	return &Presenter{renderer: renderer, formatter: formatter}
}

func (p *Presenter) Formatter() *Formatter { return p.formatter }

// BoardPNG renders v with HUD text in lang, or in English when the font
// lacks glyphs for lang.
func (p *Presenter) BoardPNG(ctx context.Context, v interaction.View, lang string) ([]byte, error) {
	return p.renderer.RenderPNG(ctx, v.Snapshot, p.RenderOptions(v, lang))
}

func (p *Presenter) RenderOptions(v interaction.View, lang string) render.Options {
	opts := p.hud(v, lang)
	if !p.renderer.CanDraw(opts.HUDHeader + opts.HUDTurn + opts.HUDStatus) {
		opts = p.hud(v, fallbackLanguage)
	}
	if origin, ok := v.Selection.Origin(); ok {
		o := origin
		opts.Selected = &o
		opts.Destinations = v.Selection.Destinations()
	}
	if last, ok := v.LastMove(); ok {
		// the mover is the side that is no longer to move
		opts.LastMove = &render.LastMove{From: last.Origin, To: last.Dest, Side: v.Side.Opponent()}
	}
	return opts
}

func (p *Presenter) hud(v interaction.View, lang string) render.Options {
	f := p.formatter
	return render.Options{
		HUDHeader: f.Text(lang, "app_title"),
		HUDTurn:   f.TurnLine(lang, v.Side),
		HUDStatus: f.StatusText(lang, v),
	}
}
