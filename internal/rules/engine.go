package rules

import (
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/chess3d/internal/board"
)

// Engine implements Authority on top of corentings/chess.
type Engine struct {
	mu    sync.Mutex
	start string
	game  *nchess.Game
}

func NewEngine() *Engine {
	return &Engine{game: nchess.NewGame()}
}

// NewEngineFromFEN starts from an arbitrary position; Reset returns to it.
func NewEngineFromFEN(fen string) (*Engine, error) {
	fen = strings.TrimSpace(fen)
	game, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Engine{start: fen, game: game}, nil
}

func gameFromFEN(fen string) (*nchess.Game, error) {
	if fen == "" {
		return nchess.NewGame(), nil
	}
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return nchess.NewGame(opt), nil
}

func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	game, err := gameFromFEN(e.start)
	if err != nil {
		game = nchess.NewGame()
	}
	e.game = game
}

func (e *Engine) PieceAt(x, y int) (board.PlacedPiece, bool) {
	sq, ok := engineSquare(board.Point{X: x, Y: y})
	if !ok {
		return board.PlacedPiece{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return placedFrom(e.game.Position().Board().Piece(sq))
}

func (e *Engine) LegalDestinations(x, y int) []board.Point {
	from, ok := engineSquare(board.Point{X: x, Y: y})
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	seen := make(map[nchess.Square]struct{})
	var out []board.Point
	for _, mv := range e.game.ValidMoves() {
		if mv.S1() != from {
			continue
		}
		// promotions list one move per piece type; keep one destination
		if _, dup := seen[mv.S2()]; dup {
			continue
		}
		seen[mv.S2()] = struct{}{}
		out = append(out, pointFrom(mv.S2()))
	}
	return out
}

func (e *Engine) CommitMove(from, to board.Point, promotion *board.PieceKind) error {
	s1, ok1 := engineSquare(from)
	s2, ok2 := engineSquare(to)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: off-board coordinates", ErrRejected)
	}
	promo := nchess.NoPieceType
	if promotion != nil {
		pt, ok := pieceTypeFrom(*promotion)
		if !ok {
			return fmt.Errorf("%w: invalid promotion %s", ErrRejected, promotion.String())
		}
		promo = pt
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isValid(s1, s2, promo) {
		return fmt.Errorf("%w: %s%s", ErrRejected, s1.String(), s2.String())
	}

	uci := strings.ToLower(s1.String() + s2.String() + promoSuffix(promo))
	pos := e.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrRejected, uci, err)
	}
	if err := e.game.Move(mv, nil); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRejected, uci, err)
	}
	return nil
}

func (e *Engine) isValid(s1, s2 nchess.Square, promo nchess.PieceType) bool {
	for _, mv := range e.game.ValidMoves() {
		if mv.S1() == s1 && mv.S2() == s2 && mv.Promo() == promo {
			return true
		}
	}
	return false
}

func (e *Engine) Status() board.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.game.Outcome() {
	case nchess.WhiteWon, nchess.BlackWon:
		if e.game.Method() == nchess.Checkmate {
			return board.Checkmate
		}
		return board.InProgress
	case nchess.Draw:
		if e.game.Method() == nchess.Stalemate {
			return board.Stalemate
		}
		return board.Draw
	}
	if last := lastMove(e.game); last != nil && last.HasTag(nchess.Check) {
		return board.Check
	}
	return board.InProgress
}

func (e *Engine) SideToMove() board.Side {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sideFrom(e.game.Position().Turn())
}

// FEN returns the current position.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.FEN()
}

// SAN returns the algebraic notation of every move played so far.
func (e *Engine) SAN() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	positions := e.game.Positions()
	moves := e.game.Moves()
	out := make([]string, len(moves))
	notation := nchess.AlgebraicNotation{}
	for i, mv := range moves {
		if i < len(positions) {
			out[i] = notation.Encode(positions[i], mv)
		}
	}
	return out
}

func lastMove(game *nchess.Game) *nchess.Move {
	moves := game.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

var _ Authority = (*Engine)(nil)
