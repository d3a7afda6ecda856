package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kavia-common/tic-tac-toe-classic/internal/bot"
	"github.com/kavia-common/tic-tac-toe-classic/internal/game"
)

var tracer = otel.Tracer("session")
var meter = otel.Meter("session")

var (
	movesApplied  metric.Int64Counter
	gamesFinished metric.Int64Counter
)

func init() {
	movesApplied, _ = meter.Int64Counter("game.moves.applied",
		metric.WithDescription("Moves accepted by a game session"))
	gamesFinished, _ = meter.Int64Counter("game.finished",
		metric.WithDescription("Games reaching a terminal state, by outcome"))
}

// Mode is how the session is played.
type Mode string

const (
	ModeTwoPlayer  Mode = "two_player"
	ModeVsComputer Mode = "vs_computer"
)

// IsValidMode reports whether s names a playable mode.
func IsValidMode(s string) bool {
	return Mode(s) == ModeTwoPlayer || Mode(s) == ModeVsComputer
}

// Scoreboard accumulates results across rounds. It survives board resets and
// is zeroed only by an explicit score reset.
type Scoreboard struct {
	XWins int `json:"xWins"`
	OWins int `json:"oWins"`
	Draws int `json:"draws"`
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	Board      game.Board  `json:"board"`
	Turn       game.Mark   `json:"turn"`
	Status     game.Status `json:"status"`
	Winner     game.Mark   `json:"winner,omitempty"`
	Highlight  []int       `json:"highlight,omitempty"`
	Scoreboard Scoreboard  `json:"scoreboard"`
	Mode       Mode        `json:"mode"`
}

type subscriber struct {
	ch   chan Snapshot
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Session owns the state of one game: board, turn, outcome, scoreboard and
// mode. Every transition runs to completion under the session mutex; the only
// asynchronous element is the delayed computer move, which stamps the board
// version it was scheduled against and discards itself if the board moved.
type Session struct {
	ID string

	mu         sync.Mutex
	board      game.Board
	turn       game.Mark
	outcome    game.Outcome
	scores     Scoreboard
	mode       Mode
	version    uint64
	strategy   bot.Strategy
	delay      time.Duration
	timer      *time.Timer
	subs       map[*subscriber]struct{}
	lastActive time.Time
	closed     bool
}

// New creates a session in the given mode with an empty board and X to move.
// delay is the presentation-mandated pause before the computer answers.
func New(id string, mode Mode, strategy bot.Strategy, delay time.Duration) *Session {
	return &Session{
		ID:         id,
		turn:       game.PlayerX,
		outcome:    game.Outcome{Status: game.StatusOngoing},
		mode:       mode,
		strategy:   strategy,
		delay:      delay,
		subs:       make(map[*subscriber]struct{}),
		lastActive: time.Now(),
	}
}

// SubmitMove applies a human move. Invalid calls (occupied cell, out-of-range
// index, terminal state, or O's seat in vs-computer mode) are silent no-ops:
// the presentation layer disables those controls, this is only the safety net.
func (s *Session) SubmitMove(ctx context.Context, cell int) {
	ctx, span := tracer.Start(ctx, "session.SubmitMove", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.cell", cell),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.playable(cell) {
		slog.DebugContext(ctx, "ignoring invalid move", "session.id", s.ID, "move.cell", cell)
		span.SetAttributes(attribute.Bool("move.valid", false))
		return
	}
	if s.mode == ModeVsComputer && s.turn != game.PlayerX {
		// The computer holds O; its moves arrive via the trigger only.
		span.SetAttributes(attribute.Bool("move.valid", false))
		return
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	s.place(ctx, cell)
}

// playable reports whether a move at cell is currently legal. Callers hold mu.
func (s *Session) playable(cell int) bool {
	return s.outcome.Status == game.StatusOngoing && s.board.IsEmpty(cell)
}

// place applies the current turn's mark at cell, re-evaluates the board and
// settles the resulting transition: score + highlight on a terminal outcome,
// turn flip (and, in vs-computer mode, a scheduled computer answer) otherwise.
// Callers hold mu and have validated the move.
func (s *Session) place(ctx context.Context, cell int) {
	mark := s.turn
	s.board = s.board.Place(cell, mark)
	s.version++
	s.lastActive = time.Now()

	s.outcome = game.Evaluate(s.board)
	movesApplied.Add(ctx, 1, metric.WithAttributes(attribute.String("player.mark", string(mark))))

	switch s.outcome.Status {
	case game.StatusWon:
		// Scoreboard moves exactly once per terminal transition: place only
		// runs while the previous outcome was ongoing.
		if s.outcome.Winner == game.PlayerX {
			s.scores.XWins++
		} else {
			s.scores.OWins++
		}
		gamesFinished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("game.outcome", "won"),
			attribute.String("game.winner", string(s.outcome.Winner)),
		))
		slog.InfoContext(ctx, "game won", "session.id", s.ID, "winner", s.outcome.Winner)

	case game.StatusDraw:
		s.scores.Draws++
		gamesFinished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("game.outcome", "draw"),
		))
		slog.InfoContext(ctx, "game drawn", "session.id", s.ID)

	default:
		s.turn = game.Other(mark)
		if s.mode == ModeVsComputer && s.turn == game.PlayerO {
			s.scheduleOpponent()
		}
	}

	s.broadcastLocked()
}

// scheduleOpponent arms the delayed computer move, stamped with the current
// board version. Callers hold mu.
func (s *Session) scheduleOpponent() {
	if s.timer != nil {
		s.timer.Stop()
	}
	want := s.version
	s.timer = time.AfterFunc(s.delay, func() { s.opponentTrigger(want) })
}

// opponentTrigger fires after the presentation delay. The move applies only
// if the board version still matches the one captured at schedule time; a
// reset or mode change in between bumps the version and the trigger discards
// itself instead of playing against a board it no longer matches.
func (s *Session) opponentTrigger(want uint64) {
	ctx, span := tracer.Start(context.Background(), "session.opponentTrigger", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.version != want {
		span.SetAttributes(attribute.Bool("trigger.stale", true))
		return
	}
	if s.mode != ModeVsComputer || s.outcome.Status != game.StatusOngoing || s.turn != game.PlayerO {
		return
	}

	cell, ok := s.strategy.SelectMove(s.board, game.PlayerO, game.PlayerX)
	if !ok {
		// Full board without a terminal outcome cannot happen through legal
		// play; treated as a no-op rather than a failure.
		slog.WarnContext(ctx, "opponent found no move", "session.id", s.ID)
		return
	}
	if !s.playable(cell) {
		slog.WarnContext(ctx, "opponent proposed an illegal move", "session.id", s.ID, "move.cell", cell)
		return
	}

	span.SetAttributes(attribute.Int("move.cell", cell))
	s.place(ctx, cell)
}

// ResetBoard returns to an empty board with X to move from any state. The
// scoreboard is untouched. A pending computer move is discarded.
func (s *Session) ResetBoard(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.ResetBoard", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.resetBoardLocked(ctx)
}

func (s *Session) resetBoardLocked(ctx context.Context) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.board = game.Board{}
	s.turn = game.PlayerX
	s.outcome = game.Outcome{Status: game.StatusOngoing}
	s.version++
	s.lastActive = time.Now()
	slog.DebugContext(ctx, "board reset", "session.id", s.ID)
	s.broadcastLocked()
}

// ResetScores zeroes the scoreboard. Board, turn and outcome are untouched,
// and a pending computer move keeps its schedule.
func (s *Session) ResetScores(ctx context.Context) {
	_, span := tracer.Start(ctx, "session.ResetScores", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.scores = Scoreboard{}
	s.lastActive = time.Now()
	s.broadcastLocked()
}

// SetMode switches the play mode and resets the board; scores persist.
func (s *Session) SetMode(ctx context.Context, mode Mode) {
	ctx, span := tracer.Start(ctx, "session.SetMode", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.mode", string(mode)),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.mode = mode
	s.resetBoardLocked(ctx)
}

// Snapshot returns a read-only copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Board:      s.board,
		Turn:       s.turn,
		Status:     s.outcome.Status,
		Winner:     s.outcome.Winner,
		Scoreboard: s.scores,
		Mode:       s.mode,
	}
	if s.outcome.Status == game.StatusWon {
		line := s.outcome.WinningLine
		snap.Highlight = []int{line[0], line[1], line[2]}
	}
	return snap
}

// Subscribe registers for a snapshot after every state transition. The
// returned func unsubscribes and closes the channel. Slow consumers lose
// intermediate snapshots rather than blocking the session.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 8)}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

// broadcastLocked pushes the current snapshot to every subscriber. Callers
// hold mu.
func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for sub := range s.subs {
		select {
		case sub.ch <- snap:
		default:
		}
	}
}

// LastActive reports when the session last saw a transition.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close discards any pending computer move and closes all subscriber
// channels. Further transitions are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	for sub := range s.subs {
		delete(s.subs, sub)
		sub.close()
	}
}
