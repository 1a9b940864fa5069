package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negachess/internal/chess"
	"negachess/internal/engine"
)

func humanVsHuman() Players { return Players{White: PlayerHuman, Black: PlayerHuman} }

func newTestManager(strategy string) *Manager {
	cfg := engine.DefaultConfig()
	cfg.Seed = 1
	return NewManager(WithStrategy(strategy, cfg), WithTick(time.Millisecond))
}

func waitPly(t *testing.T, m *Manager, id string, ply int) Snapshot {
	t.Helper()
	var snap Snapshot
	require.Eventually(t, func() bool {
		m.Tick()
		s, err := m.Get(id)
		require.NoError(t, err)
		snap = s
		return s.Ply == ply && !s.Thinking
	}, 10*time.Second, 2*time.Millisecond)
	return snap
}

func TestPlayHumanMoves(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(humanVsHuman(), "")
	require.NoError(t, err)
	assert.Len(t, snap.Legal, 20)
	assert.Equal(t, chess.White, snap.SideToMove)

	snap, err = m.Play(snap.ID, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, chess.Black, snap.SideToMove)
	assert.Equal(t, "e2e4", snap.LastMove)
	assert.Equal(t, []string{"e4"}, snap.History)

	_, err = m.Play(snap.ID, "e2e4")
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = m.Play(snap.ID, "zz")
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = m.Play("nope", "e7e5")
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, 1, m.Len())
}

func TestPlayPromotionRequired(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(humanVsHuman(), "8/P7/8/8/8/8/8/k1K5 w - - 0 1")
	require.NoError(t, err)

	_, err = m.Play(snap.ID, "a7a8")
	assert.ErrorIs(t, err, ErrPromotionRequired)

	snap, err = m.Play(snap.ID, "a7a8n")
	require.NoError(t, err)
	assert.Equal(t, "a7a8n", snap.LastMove)
	assert.Equal(t, "N7/8/8/8/8/8/8/k1K5 b - - 0 1", snap.FEN)
}

func TestPlayAfterGameOver(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(humanVsHuman(), "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	assert.Equal(t, chess.Checkmate, snap.Status)
	assert.True(t, snap.InCheck)
	assert.Empty(t, snap.Legal)

	_, err = m.Play(snap.ID, "a2a3")
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestEngineRepliesToHuman(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(Players{White: PlayerHuman, Black: PlayerEngine}, "")
	require.NoError(t, err)

	snap, err = m.Play(snap.ID, "e2e4")
	require.NoError(t, err)

	_, err = m.Play(snap.ID, "e7e5")
	assert.ErrorIs(t, err, ErrNotHumanTurn)

	snap = waitPly(t, m, snap.ID, 2)
	assert.Equal(t, chess.White, snap.SideToMove)
}

func TestUndoPausesEngine(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(Players{White: PlayerEngine, Black: PlayerHuman}, "")
	require.NoError(t, err)
	assert.True(t, snap.Thinking, "engine moves first")
	waitPly(t, m, snap.ID, 1)

	snap, err = m.Undo(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Ply)
	assert.True(t, snap.Paused)
	assert.False(t, snap.Thinking)

	for i := 0; i < 20; i++ {
		m.Tick()
	}
	snap, err = m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Ply, "paused engine must not move")

	_, err = m.Undo(snap.ID)
	assert.ErrorIs(t, err, chess.ErrNoMoveToUndo)

	snap, err = m.Resume(snap.ID)
	require.NoError(t, err)
	assert.True(t, snap.Thinking)
	waitPly(t, m, snap.ID, 1)
}

func TestUndoTerminatesThinkingEngine(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.MaxDepth = 10
	m := NewManager(WithStrategy(engine.StrategyNegamax, cfg))
	snap, err := m.NewGame(Players{White: PlayerHuman, Black: PlayerEngine}, "")
	require.NoError(t, err)

	snap, err = m.Play(snap.ID, "d2d4")
	require.NoError(t, err)
	require.True(t, snap.Thinking)

	snap, err = m.Undo(snap.ID)
	require.NoError(t, err)
	assert.False(t, snap.Thinking)
	assert.Equal(t, 0, snap.Ply)
	assert.Equal(t, chess.White, snap.SideToMove)

	m.Tick()
	snap, err = m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Ply)
	m.Close()
}

func TestResetRestoresStartPosition(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	fen := "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	snap, err := m.NewGame(humanVsHuman(), fen)
	require.NoError(t, err)
	_, err = m.Play(snap.ID, "e1g1")
	require.NoError(t, err)

	snap, err = m.Reset(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, fen, snap.FEN)
	assert.Empty(t, snap.History)
}

func TestFallbackWhenStrategyFindsNothing(t *testing.T) {
	// 黑方唯一着法 Kb8 之后必被 Rh8 杀，贪心策略选不出着法
	m := newTestManager(engine.StrategyGreedy)
	snap, err := m.NewGame(Players{White: PlayerHuman, Black: PlayerEngine}, "k7/8/1K6/8/8/8/8/7R b - - 0 1")
	require.NoError(t, err)

	snap = waitPly(t, m, snap.ID, 1)
	assert.Equal(t, "a8b8", snap.LastMove)

	snap, err = m.Play(snap.ID, "h1h8")
	require.NoError(t, err)
	assert.Equal(t, chess.Checkmate, snap.Status)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(humanVsHuman(), "")
	require.NoError(t, err)

	ch, cancel, err := m.Subscribe(snap.ID)
	require.NoError(t, err)
	defer cancel()

	_, err = m.Play(snap.ID, "g1f3")
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, "g1f3", got.LastMove)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	_, _, err = m.Subscribe("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestPGNExport(t *testing.T) {
	m := newTestManager(engine.StrategyRandom)
	snap, err := m.NewGame(humanVsHuman(), "")
	require.NoError(t, err)
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		_, err = m.Play(snap.ID, uci)
		require.NoError(t, err)
	}

	pgn, err := m.PGN(snap.ID)
	require.NoError(t, err)
	assert.Contains(t, pgn, "1. e4 e5")
	assert.Contains(t, pgn, "2. Nf3 Nc6")

	_, err = m.PGN("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestParsePlayerKind(t *testing.T) {
	k, err := ParsePlayerKind(" Engine ")
	require.NoError(t, err)
	assert.Equal(t, PlayerEngine, k)

	k, err = ParsePlayerKind("")
	require.NoError(t, err)
	assert.Equal(t, PlayerHuman, k)

	_, err = ParsePlayerKind("robot")
	assert.Error(t, err)
}
