package chess

// generatePinAwareMoves 当前走子方所有考虑了牵制的走法（不处理被将军）
func (p *Position) generatePinAwareMoves() []Move {
	moves := make([]Move, 0, 48)
	side := p.SideToMove
	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc == Empty || pc.Color() != side {
			continue
		}
		switch pc.Type() {
		case Pawn:
			genPawnMoves(p, sq, &moves)
		case Knight:
			genKnightMoves(p, sq, &moves)
		case Bishop:
			genBishopMoves(p, sq, &moves)
		case Rook:
			genRookMoves(p, sq, &moves)
		case Queen:
			genQueenMoves(p, sq, &moves)
		case King:
			genKingMoves(p, sq, &moves)
		}
	}
	return moves
}

// GeneratePseudoLegalMoves 重新计算牵制/将军后生成走法；被将军时不做过滤
func (p *Position) GeneratePseudoLegalMoves() []Move {
	p.refreshPinsAndChecks()
	return p.generatePinAwareMoves()
}

// GenerateLegalMoves 生成合法走法，同时更新 InCheck / Checkmate / Stalemate，
// 并给每步标上是否将军。返回时局面与调用前相同。
func (p *Position) GenerateLegalMoves() []Move {
	p.refreshPinsAndChecks()
	kingSq := p.KingSquare(p.SideToMove)

	var moves []Move
	switch {
	case !p.InCheck:
		moves = p.generatePinAwareMoves()
	case len(p.checks) == 1:
		moves = p.filterSingleCheck(p.generatePinAwareMoves(), kingSq, p.checks[0])
	default:
		// 双将只能动王
		genKingMoves(p, kingSq, &moves)
	}

	p.Checkmate = len(moves) == 0 && p.InCheck
	p.Stalemate = len(moves) == 0 && !p.InCheck

	p.stampGivesCheck(moves)
	return moves
}

// filterSingleCheck 单将：王自己走，或者落在王与将军子之间/吃掉将军子
func (p *Position) filterSingleCheck(moves []Move, kingSq Square, chk Check) []Move {
	valid := make(map[Square]bool, Rows)
	if p.Board.Squares[chk.Square].Type() == Knight {
		valid[chk.Square] = true
	} else {
		for i := 1; i < Rows; i++ {
			r, c := kingSq.Row()+chk.Dir.DR*i, kingSq.Col()+chk.Dir.DC*i
			if !onBoard(r, c) {
				break
			}
			sq := SquareAt(r, c)
			valid[sq] = true
			if sq == chk.Square {
				break
			}
		}
	}

	out := moves[:0]
	for _, mv := range moves {
		switch {
		case mv.Moved.Type() == King:
			out = append(out, mv)
		case valid[mv.To]:
			out = append(out, mv)
		case mv.EnPassant && SquareAt(mv.From.Row(), mv.To.Col()) == chk.Square:
			// 吃过路兵吃掉的正是将军的兵
			out = append(out, mv)
		}
	}
	return out
}

// stampGivesCheck 每步试走一次，看对方王是否被将
func (p *Position) stampGivesCheck(moves []Move) {
	for i := range moves {
		mv := &moves[i]
		promo := PieceNone
		if mv.Promotion {
			promo = Queen
		}
		p.ApplyMove(*mv, promo)
		mv.GivesCheck = p.IsAttacked(p.KingSquare(p.SideToMove))
		if err := p.UndoMove(); err != nil {
			panic(err)
		}
	}
}

// CountMoves perft：深度 depth 的叶子节点数，升变按四种棋子分别计数
func (p *Position) CountMoves(depth int) int {
	if depth <= 0 {
		return 1
	}
	total := 0
	for _, mv := range p.GenerateLegalMoves() {
		kinds := []PieceType{PieceNone}
		if mv.Promotion {
			kinds = PromotionKinds[:]
		}
		for _, pt := range kinds {
			if depth == 1 {
				total++
				continue
			}
			_ = p.WithMove(mv, pt, func() error {
				total += p.CountMoves(depth - 1)
				return nil
			})
		}
	}
	return total
}
