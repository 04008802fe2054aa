package chesspresenter

import (
	"strings"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/interaction"
	"github.com/park285/chess3d/internal/msgcat"
)

// Formatter turns controller state into localized text.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

func (f *Formatter) Text(lang, key string) string {
	if f == nil || f.cat == nil {
		return key
	}
	return f.cat.Text(lang, key)
}

func (f *Formatter) SideName(lang string, side board.Side) string {
	return f.Text(lang, side.String())
}

// TurnLine renders "Current Turn: White".
func (f *Formatter) TurnLine(lang string, side board.Side) string {
	label := f.Text(lang, "current_turn")
	name := f.SideName(lang, side)
	if f != nil && f.cat != nil {
		if s, err := f.cat.Render(lang, "hud.turn", map[string]string{"Label": label, "Side": name}); err == nil {
			return s
		}
	}
	return label + ": " + name
}

// StatusText is empty while the game runs without check.
func (f *Formatter) StatusText(lang string, v interaction.View) string {
	switch v.Status {
	case board.Check:
		return f.Text(lang, "check")
	case board.Checkmate:
		winner, _ := v.Winner()
		return f.Text(lang, "checkmate") + " " + f.winnerLine(lang, winner)
	case board.Stalemate:
		return f.Text(lang, "stalemate") + " " + f.Text(lang, "draw")
	case board.Draw:
		return f.Text(lang, "draw")
	default:
		return ""
	}
}

func (f *Formatter) winnerLine(lang string, side board.Side) string {
	name := f.SideName(lang, side)
	word := f.Text(lang, "winner")
	if f != nil && f.cat != nil {
		if s, err := f.cat.Render(lang, "hud.winner", map[string]string{"Side": name, "Word": word}); err == nil {
			return s
		}
	}
	return name + " " + word
}

// History is the numbered move list, one full move per line.
func (f *Formatter) History(v interaction.View) string {
	return strings.Join(interaction.Numbered(v.Moves), "\n")
}

func (f *Formatter) Help(lang string) (title, body string) {
	return f.Text(lang, "help_title"), strings.TrimSpace(f.Text(lang, "help_text"))
}

// Render renders a templated message, falling back to the bare key.
func (f *Formatter) Render(lang, key string, data any) string {
	if f == nil || f.cat == nil {
		return key
	}
	s, err := f.cat.Render(lang, key, data)
	if err != nil {
		return key
	}
	return s
}

func (f *Formatter) HasLanguage(lang string) bool {
	return f != nil && f.cat != nil && f.cat.HasLanguage(lang)
}
