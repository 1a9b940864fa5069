package engine

import (
	"sort"

	"negachess/internal/chess"
)

const (
	orderCheckBonus     = 1000
	orderCastleBonus    = 1500
	orderPromotionBonus = 2000
	orderQuietPawn      = -300
)

func orderScore(mv chess.Move) int {
	score := 0
	if mv.GivesCheck {
		score += orderCheckBonus
	}
	if mv.IsCapture() {
		score += valueOf(mv.Captured)*5 - valueOf(mv.Moved)
	}
	if mv.Castle {
		score += orderCastleBonus
	}
	if mv.Promotion {
		score += orderPromotionBonus
	}
	if mv.Moved.Type() == chess.Pawn && !mv.IsCapture() {
		score += orderQuietPawn
	}
	return score
}

// orderMoves 按启发分从高到低排，同分保持原顺序
func orderMoves(moves []chess.Move) {
	scores := make(map[uint32]int, len(moves))
	for _, mv := range moves {
		scores[mv.Key()] = orderScore(mv)
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return scores[moves[i].Key()] > scores[moves[j].Key()]
	})
}

// 吃的子不比自己便宜
func goodCapture(mv chess.Move) bool {
	return mv.IsCapture() && valueOf(mv.Captured) >= valueOf(mv.Moved)
}
