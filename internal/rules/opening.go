package rules

import (
	"sync"

	"github.com/corentings/chess/v2/opening"
)

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

func openingBook() *opening.BookECO {
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	return ecoBook
}

// Opening names the ECO opening the moves played so far belong to. Both
// values are empty before the first book move or once the game leaves
// book territory without ever matching.
func (e *Engine) Opening() (code, title string) {
	book := openingBook()
	if book == nil {
		return "", ""
	}
	e.mu.Lock()
	moves := e.game.Moves()
	e.mu.Unlock()
	if len(moves) == 0 {
		return "", ""
	}
	if eco := book.Find(moves); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}
