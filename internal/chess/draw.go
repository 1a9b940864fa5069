package chess

// HasInsufficientMaterial 只认以下几种：王对王、单马/单象对王、双马对王、同色格单象对单象
func (p *Position) HasInsufficientMaterial() bool {
	var count, knights, bishops [2]int
	var bishopSq [2]Square
	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc == Empty {
			continue
		}
		side := pc.Color()
		count[side]++
		switch pc.Type() {
		case Queen, Rook, Pawn:
			return false
		case Knight:
			knights[side]++
		case Bishop:
			bishops[side]++
			bishopSq[side] = sq
		}
	}

	w, b := White, Black
	switch {
	case count[w] == 1 && count[b] == 1:
		return true
	case count[w] == 2 && count[b] == 1 && (knights[w] == 1 || bishops[w] == 1):
		return true
	case count[b] == 2 && count[w] == 1 && (knights[b] == 1 || bishops[b] == 1):
		return true
	case count[w] == 3 && knights[w] == 2 && count[b] == 1:
		return true
	case count[b] == 3 && knights[b] == 2 && count[w] == 1:
		return true
	case count[w] == 2 && count[b] == 2 && bishops[w] == 1 && bishops[b] == 1:
		return squareShade(bishopSq[w]) == squareShade(bishopSq[b])
	}
	return false
}

func squareShade(sq Square) int { return (sq.Row() + sq.Col()) % 2 }

// IsFiftyMoveRule 100 个半回合内没有兵走动也没有吃子
func (p *Position) IsFiftyMoveRule() bool {
	return p.HalfmoveClock >= 100
}

// IsThreefoldRepetition 简化判定：最近 8 步是 4 步一循环（来回走两遍）。
// 不是真正的局面重复计数，见 RepetitionCount。
func (p *Position) IsThreefoldRepetition() bool {
	n := len(p.History)
	if n < 8 {
		return false
	}
	last := p.History[n-8:]
	return last[0].Equal(last[4]) &&
		last[1].Equal(last[5]) &&
		last[2].Equal(last[6]) &&
		last[3].Equal(last[7])
}

// RepetitionCount 当前局面（按指纹）在历史中出现的次数，含当前局面。
// 通过逐步悔棋回放得到，结束后局面不变。
func (p *Position) RepetitionCount() int {
	target := p.Fingerprint()
	count := 1
	checkmate, stalemate := p.Checkmate, p.Stalemate
	defer func() { p.Checkmate, p.Stalemate = checkmate, stalemate }()

	var undone []Move
	// 吃子或兵走动之前的局面不可能再出现
	limit := p.HalfmoveClock
	for i := 0; i < limit && len(p.History) > 0; i++ {
		last, _ := p.LastMove()
		if err := p.UndoMove(); err != nil {
			break
		}
		undone = append(undone, last)
		if p.Fingerprint() == target {
			count++
		}
	}
	for i := len(undone) - 1; i >= 0; i-- {
		p.ApplyMove(undone[i], undone[i].PromoteTo)
	}
	return count
}

type Outcome int8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	Repetition
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	case FiftyMoveRule:
		return "fifty_move_rule"
	case Repetition:
		return "repetition"
	}
	return "unknown"
}

func (o Outcome) IsOver() bool { return o != Ongoing }

// Outcome 依据最近一次 GenerateLegalMoves 的终局标记和三条和棋规则判定
func (p *Position) Outcome() Outcome {
	switch {
	case p.Checkmate:
		return Checkmate
	case p.Stalemate:
		return Stalemate
	case p.HasInsufficientMaterial():
		return InsufficientMaterial
	case p.IsFiftyMoveRule():
		return FiftyMoveRule
	case p.IsThreefoldRepetition():
		return Repetition
	}
	return Ongoing
}
