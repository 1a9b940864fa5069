package chess

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrNoMoveToUndo = errors.New("no move to undo")

func (p *Position) KingSquare(c Color) Square {
	if c == White {
		return p.WhiteKing
	}
	return p.BlackKing
}

func (p *Position) setKingSquare(c Color, sq Square) {
	if c == White {
		p.WhiteKing = sq
	} else {
		p.BlackKing = sq
	}
}

// Clone 深拷贝，交给后台搜索用；升变回调不复制（搜索里不会弹窗）
func (p *Position) Clone() *Position {
	np := *p
	np.History = append([]Move(nil), p.History...)
	np.shadow = append([]stateSnapshot(nil), p.shadow...)
	np.pins = nil
	np.checks = nil
	np.PromotionChooser = nil
	return &np
}

// Ply 从起始局面起已走的半回合数
func (p *Position) Ply() int { return len(p.History) }

// ApplyMove 走一步。调用方保证 m 来自 GenerateLegalMoves。
// promo 为 PieceNone 时依次取 m.PromoteTo、PromotionChooser、默认升后。
func (p *Position) ApplyMove(m Move, promo PieceType) {
	p.assertInvariants()

	side := m.Moved.Color()
	p.shadow = append(p.shadow, stateSnapshot{
		castling:  p.Castling,
		enPassant: p.EnPassant,
		halfmove:  p.HalfmoveClock,
	})

	placed := m.Moved
	if m.Promotion {
		m.PromoteTo = p.resolvePromotion(m, promo)
		placed = MakePiece(side, m.PromoteTo)
	}

	p.Board.Squares[m.From] = Empty
	p.Board.Squares[m.To] = placed

	if m.Moved.Type() == King {
		p.setKingSquare(side, m.To)
	}

	// 吃过路兵：被吃的兵在起点同一横排、终点同一竖线
	if m.EnPassant {
		p.Board.Squares[SquareAt(m.From.Row(), m.To.Col())] = Empty
	}

	if m.Castle {
		row := m.To.Row()
		if m.To.Col()-m.From.Col() == 2 {
			p.Board.Squares[SquareAt(row, m.To.Col()-1)] = p.Board.Squares[SquareAt(row, m.To.Col()+1)]
			p.Board.Squares[SquareAt(row, m.To.Col()+1)] = Empty
		} else {
			p.Board.Squares[SquareAt(row, m.To.Col()+1)] = p.Board.Squares[SquareAt(row, m.To.Col()-2)]
			p.Board.Squares[SquareAt(row, m.To.Col()-2)] = Empty
		}
	}

	if m.Moved.Type() == Pawn && abs(m.From.Row()-m.To.Row()) == 2 {
		p.EnPassant = SquareAt((m.From.Row()+m.To.Row())/2, m.From.Col())
	} else {
		p.EnPassant = NoSquare
	}

	p.updateCastlingRights(m)

	if m.Moved.Type() == Pawn || m.IsCapture() {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	p.History = append(p.History, m)
	p.SideToMove = side.Opponent()
}

func (p *Position) resolvePromotion(m Move, promo PieceType) PieceType {
	if promo.IsPromotion() {
		return promo
	}
	if m.PromoteTo.IsPromotion() {
		return m.PromoteTo
	}
	if p.PromotionChooser != nil {
		if pt := p.PromotionChooser(m.Moved.Color()); pt.IsPromotion() {
			return pt
		}
	}
	return Queen
}

func (p *Position) updateCastlingRights(m Move) {
	switch m.Moved {
	case MakePiece(White, King):
		p.Castling.WhiteKingside = false
		p.Castling.WhiteQueenside = false
	case MakePiece(Black, King):
		p.Castling.BlackKingside = false
		p.Castling.BlackQueenside = false
	case MakePiece(White, Rook), MakePiece(Black, Rook):
		p.clearRookRight(m.Moved.Color(), m.From)
	}
	// 车在原位被吃
	if m.Captured.Type() == Rook {
		p.clearRookRight(m.Captured.Color(), m.To)
	}
}

func (p *Position) clearRookRight(c Color, sq Square) {
	if sq.Row() != backRank(c) {
		return
	}
	switch {
	case c == White && sq.Col() == 0:
		p.Castling.WhiteQueenside = false
	case c == White && sq.Col() == 7:
		p.Castling.WhiteKingside = false
	case c == Black && sq.Col() == 0:
		p.Castling.BlackQueenside = false
	case c == Black && sq.Col() == 7:
		p.Castling.BlackKingside = false
	}
}

// UndoMove 撤销最后一步，恢复到走这一步之前的完整状态
func (p *Position) UndoMove() error {
	if len(p.History) == 0 {
		return ErrNoMoveToUndo
	}
	last := p.History[len(p.History)-1]
	p.History = p.History[:len(p.History)-1]

	p.Board.Squares[last.From] = last.Moved
	p.Board.Squares[last.To] = last.Captured

	if last.Moved.Type() == King {
		p.setKingSquare(last.Moved.Color(), last.From)
	}

	if last.EnPassant {
		p.Board.Squares[last.To] = Empty
		p.Board.Squares[SquareAt(last.From.Row(), last.To.Col())] = last.Captured
	}

	if last.Castle {
		row := last.To.Row()
		if last.To.Col()-last.From.Col() == 2 {
			p.Board.Squares[SquareAt(row, last.To.Col()+1)] = p.Board.Squares[SquareAt(row, last.To.Col()-1)]
			p.Board.Squares[SquareAt(row, last.To.Col()-1)] = Empty
		} else {
			p.Board.Squares[SquareAt(row, last.To.Col()-2)] = p.Board.Squares[SquareAt(row, last.To.Col()+1)]
			p.Board.Squares[SquareAt(row, last.To.Col()+1)] = Empty
		}
	}

	snap := p.shadow[len(p.shadow)-1]
	p.shadow = p.shadow[:len(p.shadow)-1]
	p.Castling = snap.castling
	p.EnPassant = snap.enPassant
	p.HalfmoveClock = snap.halfmove

	p.SideToMove = p.SideToMove.Opponent()
	p.Checkmate = false
	p.Stalemate = false
	return nil
}

// WithMove 走一步、执行 fn、无论如何都撤销（含 panic 和提前返回）
func (p *Position) WithMove(m Move, promo PieceType, fn func() error) (err error) {
	p.ApplyMove(m, promo)
	defer func() {
		if uerr := p.UndoMove(); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn()
}

// LastMove 最近一步；没有时 ok=false
func (p *Position) LastMove() (Move, bool) {
	if len(p.History) == 0 {
		return Move{}, false
	}
	return p.History[len(p.History)-1], true
}

// assertInvariants 违反即为调用方 bug，直接 panic
func (p *Position) assertInvariants() {
	if p.Board.Squares[p.WhiteKing] != MakePiece(White, King) {
		panic(fmt.Sprintf("white king cache %s out of sync", p.WhiteKing))
	}
	if p.Board.Squares[p.BlackKing] != MakePiece(Black, King) {
		panic(fmt.Sprintf("black king cache %s out of sync", p.BlackKing))
	}
	want := p.startSide
	if len(p.History)%2 == 1 {
		want = want.Opponent()
	}
	if p.SideToMove != want {
		panic(fmt.Sprintf("side to move %s does not match history length %d", p.SideToMove, len(p.History)))
	}
	if len(p.shadow) != len(p.History) {
		panic("shadow history out of sync")
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
