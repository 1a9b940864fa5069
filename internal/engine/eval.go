package engine

import (
	"negachess/internal/chess"
)

const (
	// MateValue 将死分，和棋也用同样的量级来“劝退”
	MateValue = 100_000

	// 位置分按 35% 计入
	positionalPercent = 35
)

// ======= 子力估值（厘兵） =======

var pieceValue = [...]int{
	chess.PieceNone: 0,
	chess.Pawn:      100,
	chess.Knight:    290,
	chess.Bishop:    310,
	chess.Rook:      500,
	chess.Queen:     900,
	chess.King:      MateValue, // 只用于排序和吃子判断，不计入局面分
}

func valueOf(pc chess.Piece) int { return pieceValue[pc.Type()] }

// 位置表：白方视角，下标 0 = a1，63 = h8；黑方上下镜像
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var pstByType = [...]*[64]int{
	chess.Pawn:   &pawnPST,
	chess.Knight: &knightPST,
	chess.Bishop: &bishopPST,
	chess.Rook:   &rookPST,
	chess.Queen:  &queenPST,
	chess.King:   nil,
}

// 棋盘 row 0 是第 8 横排；白方查表要上下翻转
func pstIndex(side chess.Color, sq chess.Square) int {
	if side == chess.White {
		return (7-sq.Row())*8 + sq.Col()
	}
	return sq.Row()*8 + sq.Col()
}

// Evaluate 白方视角：正数白方好，负数黑方好。
// 将死时被将死的一方（当前走子方）为 -MateValue；
// 逼和、子力不足、五十步、重复局面都按同一符号打分，尽量避开和棋。
func Evaluate(pos *chess.Position) int {
	if pos.Checkmate || pos.Stalemate || pos.HasInsufficientMaterial() ||
		pos.IsThreefoldRepetition() || pos.IsFiftyMoveRule() {
		if pos.SideToMove == chess.White {
			return -MateValue
		}
		return MateValue
	}

	positional := 0
	for sq := chess.Square(0); sq < chess.NumSquares; sq++ {
		pc := pos.Board.Squares[sq]
		if pc == chess.Empty || pc.Type() == chess.King {
			continue
		}
		bonus := pstByType[pc.Type()][pstIndex(pc.Color(), sq)]
		if pc.Color() == chess.White {
			positional += bonus
		} else {
			positional -= bonus
		}
	}
	return MaterialBalance(pos) + positional*positionalPercent/100
}

// MaterialBalance 只算子力（白 - 黑），王不计。简单策略和 Evaluate 共用这一张表
func MaterialBalance(pos *chess.Position) int {
	score := 0
	for _, pc := range pos.Board.Squares {
		if pc == chess.Empty || pc.Type() == chess.King {
			continue
		}
		if pc.Color() == chess.White {
			score += pieceValue[pc.Type()]
		} else {
			score -= pieceValue[pc.Type()]
		}
	}
	return score
}
