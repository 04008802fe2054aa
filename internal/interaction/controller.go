// Package interaction drives a chess board view: it turns resolved click
// targets into selections and move submissions against a rules authority.
package interaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/picking"
	"github.com/park285/chess3d/internal/rules"
	"github.com/park285/chess3d/internal/scene"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNoPiece     = errors.New("no piece on origin square")
)

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithPromotionPolicy(p PromotionPolicy) Option {
	return func(c *Controller) {
		if p != nil {
			c.promote = p
		}
	}
}

// WithBoardChanged registers fn to run after every accepted move and reset.
// It is called without the controller lock held.
func WithBoardChanged(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithScene keeps sc in sync with the board and routes Click through it.
func WithScene(sc *scene.Scene) Option {
	return func(c *Controller) { c.scene = sc }
}

// Controller owns the view state of one game. All fields below mu are
// guarded by it; a move is applied to all of them before the lock is
// released, so readers never see a half-applied move.
type Controller struct {
	authority rules.Authority
	logger    *zap.Logger
	promote   PromotionPolicy
	onChange  func()

	mu        sync.RWMutex
	scene     *scene.Scene
	gameID    string
	snapshot  board.Snapshot
	selection Selection
	side      board.Side
	status    board.Status
	log       MoveLog
}

func NewController(authority rules.Authority, opts ...Option) *Controller {
	c := &Controller{
		authority: authority,
		logger:    zap.NewNop(),
		promote:   QueenPromotion,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gameID = uuid.NewString()
	c.reloadLocked()
	return c
}

// View is a consistent copy of the controller state.
type View struct {
	GameID    string
	Snapshot  board.Snapshot
	Selection Selection
	Side      board.Side
	Status    board.Status
	Moves     []MoveRecord
}

// LastMove returns the most recent accepted move.
func (v View) LastMove() (MoveRecord, bool) {
	if len(v.Moves) == 0 {
		return MoveRecord{}, false
	}
	return v.Moves[len(v.Moves)-1], true
}

// Winner is the side that delivered mate; ok is false otherwise.
func (v View) Winner() (board.Side, bool) {
	if v.Status != board.Checkmate {
		return 0, false
	}
	return v.Side.Opponent(), true
}

func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{
		GameID:    c.gameID,
		Snapshot:  c.snapshot,
		Selection: c.selection,
		Side:      c.side,
		Status:    c.status,
		Moves:     c.log.Entries(),
	}
}

func (c *Controller) GameID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

func (c *Controller) Status() board.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller) SideToMove() board.Side {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.side
}

func (c *Controller) Moves() []MoveRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.Entries()
}

func (c *Controller) Snapshot() board.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Controller) Selection() Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

func (c *Controller) Winner() (board.Side, bool) { return c.View().Winner() }

// Click resolves a board-plane point against the scene and handles the
// resulting target. Without a scene every click is a miss.
func (c *Controller) Click(p scene.Vec3) (picking.Target, error) {
	c.mu.Lock()
	var t picking.Target
	if c.scene != nil {
		t = picking.Resolve(c.scene.PickAt(p))
	}
	moved, err := c.handleLocked(t)
	c.mu.Unlock()
	if moved {
		c.fireChanged()
	}
	return t, err
}

// HandleTarget advances the selection state machine for an already
// resolved target. The only error is a move rejected by the authority,
// wrapped in ErrIllegalMove.
func (c *Controller) HandleTarget(t picking.Target) error {
	c.mu.Lock()
	moved, err := c.handleLocked(t)
	c.mu.Unlock()
	if moved {
		c.fireChanged()
	}
	return err
}

func (c *Controller) handleLocked(t picking.Target) (bool, error) {
	if t.Kind == picking.None || c.status.Finished() {
		c.clearSelectionLocked()
		return false, nil
	}
	sq := t.Square
	if origin, ok := c.selection.Origin(); ok {
		if sq == origin {
			c.clearSelectionLocked()
			return false, nil
		}
		if c.selection.Allows(sq) {
			err := c.attemptMoveLocked(origin, sq)
			return err == nil, err
		}
	}
	if c.snapshot.Owns(sq, c.side) {
		c.selectLocked(sq)
		return false, nil
	}
	c.clearSelectionLocked()
	return false, nil
}

func (c *Controller) selectLocked(sq board.Square) {
	from := board.ToEngine(sq)
	var dests []board.Square
	for _, p := range c.authority.LegalDestinations(from.X, from.Y) {
		d, err := board.ToUI(p)
		if err != nil {
			continue
		}
		dests = append(dests, d)
	}
	c.selection = selected(sq, dests)
	if c.scene != nil {
		c.scene.SetHighlights(c.selection.Destinations())
	}
	c.logger.Debug("selection_set",
		zap.String("game_id", c.gameID),
		zap.String("origin", sq.Notation()),
		zap.Int("destinations", len(dests)),
	)
}

func (c *Controller) clearSelectionLocked() {
	c.selection = Idle()
	if c.scene != nil {
		c.scene.ClearHighlights()
	}
}

// AttemptMove submits origin→dest to the authority. On rejection the move
// log and side to move are left as they were and the error wraps
// ErrIllegalMove. The selection is cleared either way.
func (c *Controller) AttemptMove(origin, dest board.Square) error {
	c.mu.Lock()
	err := c.attemptMoveLocked(origin, dest)
	c.mu.Unlock()
	if err == nil {
		c.fireChanged()
	}
	return err
}

func (c *Controller) attemptMoveLocked(origin, dest board.Square) error {
	defer c.clearSelectionLocked()

	piece, ok := c.snapshot.At(origin)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPiece, origin.Notation())
	}

	rec := MoveRecord{Origin: origin, Dest: dest}
	var promo *board.PieceKind
	if promotionEligible(piece, dest) {
		kind := c.promote(origin, dest)
		if !validPromotion(kind) {
			kind = board.Queen
		}
		rec.Promotion = kind
		promo = &kind
	}

	staged := c.log.Stage(rec)
	if err := c.authority.CommitMove(board.ToEngine(origin), board.ToEngine(dest), promo); err != nil {
		staged.Discard()
		c.logger.Info("move_rejected",
			zap.String("game_id", c.gameID),
			zap.String("move", rec.Notation()),
			zap.String("side", c.side.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s: %w", ErrIllegalMove, rec.Notation(), err)
	}
	staged.Commit()

	mover := c.side
	c.reloadLocked()
	c.logger.Info("move_commit",
		zap.String("game_id", c.gameID),
		zap.String("move", rec.Notation()),
		zap.String("side", mover.String()),
		zap.String("status", c.status.String()),
		zap.Int("ply", c.log.Len()),
	)
	return nil
}

// ResetGame starts a new game under a fresh game ID.
func (c *Controller) ResetGame() {
	c.mu.Lock()
	prev := c.gameID
	c.authority.Reset()
	c.log.Reset()
	c.selection = Idle()
	c.gameID = uuid.NewString()
	c.reloadLocked()
	c.logger.Info("game_reset",
		zap.String("previous_game_id", prev),
		zap.String("game_id", c.gameID),
	)
	c.mu.Unlock()
	c.fireChanged()
}

// reloadLocked re-reads everything the authority owns.
func (c *Controller) reloadLocked() {
	c.side = c.authority.SideToMove()
	c.status = c.authority.Status()
	c.snapshot = board.Refresh(c.authority)
	if c.scene != nil {
		c.scene.Sync(c.snapshot)
		c.scene.SetHighlights(c.selection.Destinations())
	}
}

func (c *Controller) fireChanged() {
	if c.onChange != nil {
		c.onChange()
	}
}
