package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kavia-common/tic-tac-toe-classic/internal/bot"
	"github.com/kavia-common/tic-tac-toe-classic/internal/bot/mocks"
	"github.com/kavia-common/tic-tac-toe-classic/internal/game"
)

func newTwoPlayer(t *testing.T) *Session {
	t.Helper()
	s := New("test-session", ModeTwoPlayer, bot.NewHeuristic(nil), time.Millisecond)
	t.Cleanup(s.Close)
	return s
}

func playAll(ctx context.Context, s *Session, cells ...int) {
	for _, c := range cells {
		s.SubmitMove(ctx, c)
	}
}

func TestSubmitMove_XWinsTopRow(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	// X: 0, O: 4, X: 1, O: 7, X: 2
	playAll(ctx, s, 0, 4, 1, 7, 2)

	snap := s.Snapshot()
	assert.Equal(t, game.StatusWon, snap.Status)
	assert.Equal(t, game.PlayerX, snap.Winner)
	assert.Equal(t, []int{0, 1, 2}, snap.Highlight)
	assert.Equal(t, Scoreboard{XWins: 1}, snap.Scoreboard)
}

func TestSubmitMove_Draw(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	// X:0 O:1 X:2 O:4 X:6 O:8 X:5 O:3 X:7 fills the board with no line.
	playAll(ctx, s, 0, 1, 2, 4, 6, 8, 5, 3, 7)

	snap := s.Snapshot()
	assert.Equal(t, game.StatusDraw, snap.Status)
	assert.Empty(t, snap.Highlight)
	assert.Equal(t, Scoreboard{Draws: 1}, snap.Scoreboard)
}

func TestSubmitMove_InvalidMovesAreNoOps(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	s.SubmitMove(ctx, 0)
	before := s.Snapshot()

	s.SubmitMove(ctx, 0)  // occupied
	s.SubmitMove(ctx, -1) // out of range
	s.SubmitMove(ctx, 9)  // out of range

	assert.Equal(t, before, s.Snapshot())
}

func TestSubmitMove_NoMovesAfterTerminal(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	playAll(ctx, s, 0, 4, 1, 7, 2)
	won := s.Snapshot()
	require.Equal(t, game.StatusWon, won.Status)

	s.SubmitMove(ctx, 3)
	assert.Equal(t, won, s.Snapshot(), "terminal board accepted a move")
	assert.Equal(t, Scoreboard{XWins: 1}, s.Snapshot().Scoreboard, "score counted twice")
}

func TestResetBoard(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	playAll(ctx, s, 0, 4, 1, 7, 2)
	s.ResetBoard(ctx)

	snap := s.Snapshot()
	assert.Equal(t, game.Board{}, snap.Board)
	assert.Equal(t, game.PlayerX, snap.Turn)
	assert.Equal(t, game.StatusOngoing, snap.Status)
	assert.Empty(t, snap.Highlight)
	assert.Equal(t, Scoreboard{XWins: 1}, snap.Scoreboard, "board reset touched the scoreboard")

	// Idempotent: a second reset changes nothing observable.
	s.ResetBoard(ctx)
	assert.Equal(t, snap, s.Snapshot())
}

func TestResetScores(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	playAll(ctx, s, 0, 4, 1, 7, 2)
	s.SubmitMove(ctx, 3) // ignored, game over
	s.ResetScores(ctx)

	snap := s.Snapshot()
	assert.Equal(t, Scoreboard{}, snap.Scoreboard)
	assert.Equal(t, game.StatusWon, snap.Status, "score reset touched the board")
}

func TestSetMode_ResetsBoardKeepsScores(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	playAll(ctx, s, 0, 4, 1, 7, 2)
	s.SetMode(ctx, ModeVsComputer)

	snap := s.Snapshot()
	assert.Equal(t, ModeVsComputer, snap.Mode)
	assert.Equal(t, game.Board{}, snap.Board)
	assert.Equal(t, game.PlayerX, snap.Turn)
	assert.Equal(t, Scoreboard{XWins: 1}, snap.Scoreboard)
}

func TestVsComputer_OpponentAnswersAfterDelay(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	strategy := mocks.NewMockStrategy(ctrl)
	strategy.EXPECT().
		SelectMove(gomock.Any(), game.PlayerO, game.PlayerX).
		Return(game.Center, true)

	s := New("test-session", ModeVsComputer, strategy, time.Millisecond)
	t.Cleanup(s.Close)

	s.SubmitMove(ctx, 0)

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Board[game.Center] == game.PlayerO && snap.Turn == game.PlayerX
	}, time.Second, time.Millisecond, "computer never answered")
}

func TestVsComputer_HumanCannotPlayO(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	strategy := mocks.NewMockStrategy(ctrl)

	// Long delay keeps the trigger pending while it is O's turn.
	s := New("test-session", ModeVsComputer, strategy, time.Hour)
	t.Cleanup(s.Close)

	s.SubmitMove(ctx, 0)
	require.Equal(t, game.PlayerO, s.Snapshot().Turn)

	s.SubmitMove(ctx, 1)
	snap := s.Snapshot()
	assert.Equal(t, game.None, snap.Board[1], "human moved on the computer's turn")
	assert.Equal(t, game.PlayerO, snap.Turn)
}

func TestVsComputer_StaleTriggerDiscarded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	strategy := mocks.NewMockStrategy(ctrl)
	// No EXPECT: any strategy call fails the test.

	s := New("test-session", ModeVsComputer, strategy, time.Hour)
	t.Cleanup(s.Close)

	s.SubmitMove(ctx, 0)
	s.mu.Lock()
	scheduled := s.version
	s.mu.Unlock()

	s.ResetBoard(ctx)
	s.opponentTrigger(scheduled)

	snap := s.Snapshot()
	assert.Equal(t, game.Board{}, snap.Board, "stale trigger applied a move after reset")
	assert.Equal(t, game.PlayerX, snap.Turn)
}

func TestVsComputer_FullBoardNoMoveIsNoOp(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	strategy := mocks.NewMockStrategy(ctrl)
	strategy.EXPECT().
		SelectMove(gomock.Any(), game.PlayerO, game.PlayerX).
		Return(-1, false)

	s := New("test-session", ModeVsComputer, strategy, time.Hour)
	t.Cleanup(s.Close)

	s.SubmitMove(ctx, 0)
	before := s.Snapshot()

	s.mu.Lock()
	scheduled := s.version
	s.mu.Unlock()
	s.opponentTrigger(scheduled)

	assert.Equal(t, before, s.Snapshot())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := newTwoPlayer(t)

	ch, cancel := s.Subscribe()

	s.SubmitMove(ctx, 0)

	select {
	case snap := <-ch:
		assert.Equal(t, game.PlayerX, snap.Board[0])
		assert.Equal(t, game.PlayerO, snap.Turn)
	case <-time.After(time.Second):
		t.Fatal("no snapshot pushed after a transition")
	}

	cancel()
	if _, ok := <-ch; ok {
		// Drain anything buffered before the close; the channel must end up closed.
		for range ch {
		}
	}
}

func TestManager(t *testing.T) {
	m := NewManager(bot.NewHeuristic(nil), time.Millisecond, time.Hour)
	t.Cleanup(m.Close)

	s := m.Create(ModeTwoPlayer)
	require.NotEmpty(t, s.ID)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.Same(t, s, m.GetOrCreate(s.ID, ModeVsComputer), "existing id must not be replaced")

	fresh := m.GetOrCreate("", ModeVsComputer)
	assert.NotEmpty(t, fresh.ID)
	assert.Equal(t, ModeVsComputer, fresh.Snapshot().Mode)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestManager_EvictsIdleSessions(t *testing.T) {
	m := NewManager(bot.NewHeuristic(nil), time.Millisecond, 10*time.Millisecond)
	t.Cleanup(m.Close)

	s := m.Create(ModeTwoPlayer)

	require.Eventually(t, func() bool {
		m.evictIdle(context.Background())
		_, ok := m.Get(s.ID)
		return !ok
	}, time.Second, 5*time.Millisecond, "idle session never evicted")
}
