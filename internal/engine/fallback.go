package engine

import (
	"math/rand"

	"negachess/internal/chess"
)

// Fallback 随机选一步合法走法；升变时随机定升变子
func Fallback(rng *rand.Rand, moves []chess.Move) (chess.Move, bool) {
	if len(moves) == 0 {
		return chess.Move{}, false
	}
	mv := moves[rng.Intn(len(moves))]
	if mv.Promotion && mv.PromoteTo == chess.PieceNone {
		_ = mv.SetPromotion(chess.PromotionKinds[rng.Intn(len(chess.PromotionKinds))])
	}
	return mv, true
}
