package chesspresenter

import (
	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/interaction"
	"github.com/park285/chess3d/pkg/chessdto"
)

// ToViewState converts a controller view into the /state DTO.
func (f *Formatter) ToViewState(v interaction.View, lang string) chessdto.ViewState {
	out := chessdto.ViewState{
		GameID:       v.GameID,
		Language:     lang,
		SideToMove:   v.Side.String(),
		Status:       v.Status.String(),
		StatusText:   f.StatusText(lang, v),
		Destinations: []string{},
		Moves:        make([]string, 0, len(v.Moves)),
		History:      interaction.Numbered(v.Moves),
		Pieces:       []chessdto.Piece{},
		Labels: chessdto.Labels{
			Title:       f.Text(lang, "app_title"),
			CurrentTurn: f.Text(lang, "current_turn"),
			SideToMove:  f.SideName(lang, v.Side),
			NewGame:     f.Text(lang, "new_game"),
			MoveHistory: f.Text(lang, "move_history"),
			Language:    f.Text(lang, "language"),
			HelpTitle:   f.Text(lang, "help_title"),
		},
	}
	if w, ok := v.Winner(); ok {
		out.Winner = w.String()
	}
	if origin, ok := v.Selection.Origin(); ok {
		out.Selected = origin.Notation()
		for _, d := range v.Selection.Destinations() {
			out.Destinations = append(out.Destinations, d.Notation())
		}
	}
	for _, m := range v.Moves {
		out.Moves = append(out.Moves, m.Notation())
	}
	v.Snapshot.Each(func(sq board.Square, p board.PlacedPiece) {
		out.Pieces = append(out.Pieces, chessdto.Piece{Square: sq.Notation(), Kind: p.Kind.String(), Side: p.Side.String()})
	})
	return out
}

// Languages lists the catalog languages with their display names.
func (f *Formatter) Languages() []chessdto.Language {
	if f == nil || f.cat == nil {
		return nil
	}
	codes := f.cat.Languages()
	out := make([]chessdto.Language, 0, len(codes))
	for _, c := range codes {
		out = append(out, chessdto.Language{Code: c, Name: f.Text(c, "language_name")})
	}
	return out
}
