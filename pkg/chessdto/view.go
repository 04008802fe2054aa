package chessdto

// ViewState is the JSON shape of GET /state.
type ViewState struct {
	GameID       string   `json:"game_id"`
	Language     string   `json:"language"`
	SideToMove   string   `json:"side_to_move"`
	Status       string   `json:"status"`
	StatusText   string   `json:"status_text,omitempty"`
	Winner       string   `json:"winner,omitempty"`
	Selected     string   `json:"selected,omitempty"`
	Destinations []string `json:"destinations"`
	Moves        []string `json:"moves"`
	History      []string `json:"history"`
	Pieces       []Piece  `json:"pieces"`
	Opening      *Opening `json:"opening,omitempty"`
	Labels       Labels   `json:"labels"`
}

// Opening is the ECO classification of the moves played so far.
type Opening struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Piece struct {
	Square string `json:"square"`
	Kind   string `json:"kind"`
	Side   string `json:"side"`
}

// Labels are the localized strings the page needs.
type Labels struct {
	Title       string `json:"title"`
	CurrentTurn string `json:"current_turn"`
	SideToMove  string `json:"side_to_move"`
	NewGame     string `json:"new_game"`
	MoveHistory string `json:"move_history"`
	Language    string `json:"language"`
	HelpTitle   string `json:"help_title"`
}

// Language is one selectable entry of the language menu.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
