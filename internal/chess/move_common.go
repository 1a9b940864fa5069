package chess

// 车、象、后：沿射线走到第一个子为止
func genSliderMoves(p *Position, from Square, dirs []Direction, moves *[]Move) {
	row, col := from.Row(), from.Col()
	side := p.Board.Squares[from].Color()
	pin, pinned := p.pinDirection(from)
	for _, d := range dirs {
		if !alongPin(pinned, pin, d) {
			continue
		}
		r, c := row+d.DR, col+d.DC
		for onBoard(r, c) {
			to := SquareAt(r, c)
			pc := p.Board.Squares[to]
			if pc == Empty {
				*moves = append(*moves, newMove(&p.Board, from, to))
			} else {
				if pc.Color() != side {
					*moves = append(*moves, newMove(&p.Board, from, to))
				}
				break
			}
			r += d.DR
			c += d.DC
		}
	}
}

func genRookMoves(p *Position, from Square, moves *[]Move) {
	genSliderMoves(p, from, rookDirs, moves)
}

func genBishopMoves(p *Position, from Square, moves *[]Move) {
	genSliderMoves(p, from, bishopDirs, moves)
}

func genQueenMoves(p *Position, from Square, moves *[]Move) {
	genSliderMoves(p, from, kingRays[:], moves)
}

// 马：被牵制的马一步都不能走
func genKnightMoves(p *Position, from Square, moves *[]Move) {
	if _, pinned := p.pinDirection(from); pinned {
		return
	}
	row, col := from.Row(), from.Col()
	side := p.Board.Squares[from].Color()
	for _, j := range knightJumps {
		r, c := row+j.DR, col+j.DC
		if !onBoard(r, c) {
			continue
		}
		dst := p.Board.Squares[SquareAt(r, c)]
		if dst == Empty || dst.Color() != side {
			*moves = append(*moves, newMove(&p.Board, from, SquareAt(r, c)))
		}
	}
}

// 王：先把王的缓存挪到目标格再扫描，扫描完放回去
func genKingMoves(p *Position, from Square, moves *[]Move) {
	row, col := from.Row(), from.Col()
	side := p.Board.Squares[from].Color()
	for _, d := range kingRays {
		r, c := row+d.DR, col+d.DC
		if !onBoard(r, c) {
			continue
		}
		to := SquareAt(r, c)
		dst := p.Board.Squares[to]
		if dst != Empty && dst.Color() == side {
			continue
		}
		p.setKingSquare(side, to)
		attacked, _, _ := p.PinsAndChecksFrom(to)
		p.setKingSquare(side, from)
		if !attacked {
			*moves = append(*moves, newMove(&p.Board, from, to))
		}
	}
	genCastleMoves(p, from, moves)
}

// 王车易位：不在将军中；经过和到达的格子为空且不被攻击
func genCastleMoves(p *Position, from Square, moves *[]Move) {
	if p.InCheck {
		return
	}
	side := p.Board.Squares[from].Color()
	row := backRank(side)
	if from != SquareAt(row, 4) {
		return
	}
	kingside, queenside := p.Castling.WhiteKingside, p.Castling.WhiteQueenside
	if side == Black {
		kingside, queenside = p.Castling.BlackKingside, p.Castling.BlackQueenside
	}
	rook := MakePiece(side, Rook)

	if kingside && p.Board.Squares[SquareAt(row, 7)] == rook &&
		p.emptySquares(row, 5, 6) && !p.IsAttacked(SquareAt(row, 5)) && !p.IsAttacked(SquareAt(row, 6)) {
		*moves = append(*moves, newCastleMove(&p.Board, from, SquareAt(row, 6)))
	}
	if queenside && p.Board.Squares[SquareAt(row, 0)] == rook &&
		p.emptySquares(row, 1, 2, 3) && !p.IsAttacked(SquareAt(row, 3)) && !p.IsAttacked(SquareAt(row, 2)) {
		*moves = append(*moves, newCastleMove(&p.Board, from, SquareAt(row, 2)))
	}
}

func (p *Position) emptySquares(row int, cols ...int) bool {
	for _, c := range cols {
		if p.Board.Squares[SquareAt(row, c)] != Empty {
			return false
		}
	}
	return true
}
