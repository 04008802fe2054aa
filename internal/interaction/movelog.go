package interaction

import (
	"strconv"
	"strings"
	"sync"

	"github.com/park285/chess3d/internal/board"
)

// MoveRecord is one accepted move in UI coordinates.
type MoveRecord struct {
	Origin    board.Square
	Dest      board.Square
	Promotion board.PieceKind
}

// Notation renders <file><rank><file><rank>, with the promotion letter
// appended when present (e7e8q).
func (r MoveRecord) Notation() string {
	s := r.Origin.Notation() + r.Dest.Notation()
	if r.Promotion != 0 {
		s += strings.ToLower(r.Promotion.Letter())
	}
	return s
}

func (r MoveRecord) String() string { return r.Notation() }

// MoveLog is an append-only list of accepted moves. Writes go through Stage
// so that a move is only visible once the rules engine has accepted it.
type MoveLog struct {
	mu      sync.RWMutex
	entries []MoveRecord
	staged  bool
}

// StagedMove is a pending log entry. Exactly one of Commit or Discard
// should be called; later calls are no-ops.
type StagedMove struct {
	log    *MoveLog
	record MoveRecord
	done   bool
}

func (l *MoveLog) Stage(rec MoveRecord) *StagedMove {
	l.mu.Lock()
	l.staged = true
	l.mu.Unlock()
	return &StagedMove{log: l, record: rec}
}

func (s *StagedMove) Record() MoveRecord { return s.record }

func (s *StagedMove) Commit() {
	if s.done {
		return
	}
	s.done = true
	s.log.mu.Lock()
	s.log.entries = append(s.log.entries, s.record)
	s.log.staged = false
	s.log.mu.Unlock()
}

func (s *StagedMove) Discard() {
	if s.done {
		return
	}
	s.done = true
	s.log.mu.Lock()
	s.log.staged = false
	s.log.mu.Unlock()
}

func (l *MoveLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Pending reports whether a staged entry is awaiting Commit or Discard.
func (l *MoveLog) Pending() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.staged
}

func (l *MoveLog) Entries() []MoveRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]MoveRecord, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *MoveLog) Last() (MoveRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return MoveRecord{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l *MoveLog) Reset() {
	l.mu.Lock()
	l.entries = nil
	l.staged = false
	l.mu.Unlock()
}

// Numbered pairs the log into full moves: "1. e2e4 e7e5", "2. g1f3".
func (l *MoveLog) Numbered() []string { return Numbered(l.Entries()) }

func Numbered(entries []MoveRecord) []string {
	out := make([]string, 0, (len(entries)+1)/2)
	for i := 0; i < len(entries); i += 2 {
		line := strconv.Itoa(i/2+1) + ". " + entries[i].Notation()
		if i+1 < len(entries) {
			line += " " + entries[i+1].Notation()
		}
		out = append(out, line)
	}
	return out
}
