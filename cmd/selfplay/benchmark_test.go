package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negachess/internal/engine"
)

func TestRunMatch(t *testing.T) {
	cfg := matchConfig{
		A:        engine.StrategyRandom,
		B:        engine.StrategyGreedy,
		Depth:    1,
		Games:    4,
		Parallel: 2,
		MaxPlies: 40,
		Seed:     11,
	}
	res, err := runMatch(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, res.games, 4)
	assert.Equal(t, 4, res.winsA+res.winsB+res.draws)

	for i, g := range res.games {
		assert.Equal(t, i, g.Index)
		assert.LessOrEqual(t, g.Plies, 40)
		if i%2 == 0 {
			assert.Equal(t, engine.StrategyRandom, g.White)
		} else {
			assert.Equal(t, engine.StrategyRandom, g.Black)
		}
	}

	var out bytes.Buffer
	res.print(&out)
	assert.Contains(t, out.String(), "per move: mean")
}

func TestRunMatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runMatch(ctx, matchConfig{A: "random", B: "random", Games: 2, MaxPlies: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
