package chess

func genPawnMoves(p *Position, from Square, moves *[]Move) {
	row, col := from.Row(), from.Col()
	pc := p.Board.Squares[from]
	side := pc.Color()
	dir := pawnDir(side)
	pin, pinned := p.pinDirection(from)

	// 前进一格 / 两格
	r1 := row + dir
	if onBoard(r1, col) && p.Board.Squares[SquareAt(r1, col)] == Empty && alongPin(pinned, pin, Direction{dir, 0}) {
		*moves = append(*moves, newMove(&p.Board, from, SquareAt(r1, col)))
		r2 := row + 2*dir
		if row == pawnStartRow(side) && p.Board.Squares[SquareAt(r2, col)] == Empty {
			*moves = append(*moves, newMove(&p.Board, from, SquareAt(r2, col)))
		}
	}

	// 斜吃 + 吃过路兵
	for _, dc := range []int{-1, +1} {
		c := col + dc
		if !onBoard(r1, c) || !alongPin(pinned, pin, Direction{dir, dc}) {
			continue
		}
		to := SquareAt(r1, c)
		dst := p.Board.Squares[to]
		if dst != Empty && dst.Color() != side {
			*moves = append(*moves, newMove(&p.Board, from, to))
			continue
		}
		if to == p.EnPassant && dst == Empty && p.Board.Squares[SquareAt(row, c)] == MakePiece(side.Opponent(), Pawn) &&
			!p.enPassantExposesKing(from, SquareAt(row, c)) &&
			!p.enPassantLeavesKingAttacked(from, to, SquareAt(row, c)) {
			*moves = append(*moves, newEnPassantMove(&p.Board, from, to))
		}
	}
}

// enPassantLeavesKingAttacked 在棋盘上临时摆出吃过路兵之后的样子再检查王，
// 被吃的兵挡着斜线的情况只能这样发现
func (p *Position) enPassantLeavesKingAttacked(from, to, captured Square) bool {
	pawn, victim := p.Board.Squares[from], p.Board.Squares[captured]
	p.Board.Squares[from] = Empty
	p.Board.Squares[captured] = Empty
	p.Board.Squares[to] = pawn
	attacked := p.IsAttacked(p.KingSquare(pawn.Color()))
	p.Board.Squares[to] = Empty
	p.Board.Squares[captured] = victim
	p.Board.Squares[from] = pawn
	return attacked
}

// enPassantExposesKing 王和两个兵在同一横排时，吃过路兵会同时拿走两个子，
// 可能让同排的车/后直接照到王。
func (p *Position) enPassantExposesKing(from, captured Square) bool {
	side := p.Board.Squares[from].Color()
	kingSq := p.KingSquare(side)
	if kingSq.Row() != from.Row() {
		return false
	}
	row := from.Row()
	kc := kingSq.Col()

	near, far := from.Col(), captured.Col()
	if abs(far-kc) < abs(near-kc) {
		near, far = far, near
	}
	step := 1
	if near < kc {
		step = -1
	}

	// 王和较近的兵之间必须是空的
	for c := kc + step; c != near; c += step {
		if p.Board.Squares[SquareAt(row, c)] != Empty {
			return false
		}
	}
	// 越过较远的兵后，第一个子是敌方车/后就不合法
	for c := far + step; c >= 0 && c < Cols; c += step {
		pc := p.Board.Squares[SquareAt(row, c)]
		if pc == Empty {
			continue
		}
		return pc.Color() != side && (pc.Type() == Rook || pc.Type() == Queen)
	}
	return false
}
