package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var knightShuffle = []string{"g1f3", "g8f6", "f3g1", "f6g8"}

func TestFiftyMoveRule(t *testing.T) {
	pos := NewInitialPosition()
	for i := 0; i < 99; i++ {
		play(t, pos, knightShuffle[i%4])
	}
	assert.Equal(t, 99, pos.HalfmoveClock)
	assert.False(t, pos.IsFiftyMoveRule())

	play(t, pos, knightShuffle[99%4])
	assert.Equal(t, 100, pos.HalfmoveClock)
	assert.True(t, pos.IsFiftyMoveRule())

	// 兵走动清零
	play(t, pos, "e2e4")
	assert.Equal(t, 0, pos.HalfmoveClock)
	assert.False(t, pos.IsFiftyMoveRule())
}

func TestThreefoldRepetitionShortcut(t *testing.T) {
	pos := NewInitialPosition()
	for i := 0; i < 7; i++ {
		play(t, pos, knightShuffle[i%4])
		assert.False(t, pos.IsThreefoldRepetition(), "after %d plies", i+1)
	}
	play(t, pos, knightShuffle[7%4])
	assert.True(t, pos.IsThreefoldRepetition())
	assert.Equal(t, Repetition, pos.Outcome())
	assert.Equal(t, 3, pos.RepetitionCount())
}

func TestRepetitionCountLeavesPositionUnchanged(t *testing.T) {
	pos := NewInitialPosition()
	play(t, pos, "e2e4", "e7e5", "g1f3", "b8c6", "f3g1", "c6b8")
	before := viewOf(pos)
	assert.Equal(t, 2, pos.RepetitionCount())
	assert.Equal(t, before, viewOf(pos))
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/3NK3 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/3BK3 w - - 0 1", true},
		{"8/8/8/3nk3/8/8/8/4K3 w - - 0 1", true},
		{"8/8/8/3bk3/8/8/8/4K3 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/2NNK3 w - - 0 1", true},
		{"8/8/8/2nnk3/8/8/8/4K3 w - - 0 1", true},
		// c1 和 f8 都是暗格
		{"5b2/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},
		// c1 暗格，c8 亮格
		{"2b5/8/8/4k3/8/8/8/2B1K3 w - - 0 1", false},
		{"8/8/8/4k3/8/8/8/2BNK3 w - - 0 1", false},
		{"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
		{"8/8/8/4k3/8/8/8/3RK3 w - - 0 1", false},
		{"8/8/8/4k3/8/8/8/3QK3 w - - 0 1", false},
		{"8/8/8/3nk3/8/8/8/3NK3 w - - 0 1", false},
	}
	for _, tc := range cases {
		t.Run(tc.fen, func(t *testing.T) {
			pos := mustDecode(t, tc.fen)
			assert.Equal(t, tc.want, pos.HasInsufficientMaterial())
		})
	}
}
