package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negachess/internal/chess"
)

// 白车可以白吃黑后
const hangingQueenFEN = "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"

func TestNewStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	for _, name := range StrategyNames() {
		s, err := NewStrategy(name, cfg)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}

	s, err := NewStrategy("  Negamax ", cfg)
	require.NoError(t, err)
	assert.IsType(t, &Engine{}, s)

	_, err = NewStrategy("alphazero", cfg)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestBaselineStrategiesTakeHangingQueen(t *testing.T) {
	for _, name := range []string{StrategyGreedy, StrategyMinimax, StrategyNegamax} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Seed = 1
			if name == StrategyMinimax {
				cfg.MaxDepth = 2
			}
			s, err := NewStrategy(name, cfg)
			require.NoError(t, err)

			pos := mustDecode(t, hangingQueenFEN)
			moves := pos.GenerateLegalMoves()
			mv, err := s.SelectMove(context.Background(), pos, moves)
			require.NoError(t, err)
			assert.Equal(t, "d1d5", mv.UCI())
			assert.Equal(t, hangingQueenFEN, pos.Encode())
		})
	}
}

func TestRandomStrategyPicksLegalMove(t *testing.T) {
	s := NewRandomStrategy(rand.New(rand.NewSource(3)))
	pos := chess.NewInitialPosition()
	moves := pos.GenerateLegalMoves()
	for i := 0; i < 50; i++ {
		mv, err := s.SelectMove(context.Background(), pos, moves)
		require.NoError(t, err)
		_, ok := chess.FindMove(moves, mv.From, mv.To)
		assert.True(t, ok)
	}
	_, err := s.SelectMove(context.Background(), pos, nil)
	assert.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestStrategiesObserveCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, name := range []string{StrategyGreedy, StrategyMinimax, StrategyNegamax} {
		s, err := NewStrategy(name, DefaultConfig())
		require.NoError(t, err)
		pos := chess.NewInitialPosition()
		_, err = s.SelectMove(ctx, pos, pos.GenerateLegalMoves())
		assert.ErrorIs(t, err, context.Canceled, name)
		assert.Empty(t, pos.History, name)
	}
}

func TestFallbackChoosesPromotion(t *testing.T) {
	pos := mustDecode(t, "8/P7/8/8/8/8/8/k1K5 w - - 0 1")
	var promos []chess.Move
	for _, mv := range pos.GenerateLegalMoves() {
		if mv.Promotion {
			promos = append(promos, mv)
		}
	}
	require.Len(t, promos, 1)

	rng := rand.New(rand.NewSource(11))
	seen := map[chess.PieceType]bool{}
	for i := 0; i < 200; i++ {
		mv, ok := Fallback(rng, promos)
		require.True(t, ok)
		require.True(t, mv.PromoteTo.IsPromotion())
		seen[mv.PromoteTo] = true
	}
	assert.Len(t, seen, len(chess.PromotionKinds))
	assert.Equal(t, chess.PieceNone, promos[0].PromoteTo, "caller's slice untouched")

	_, ok := Fallback(rng, nil)
	assert.False(t, ok)
}
