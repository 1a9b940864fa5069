package chess

type Direction struct {
	DR, DC int
}

func (d Direction) reverse() Direction { return Direction{-d.DR, -d.DC} }

// Pin 被牵制的己方棋子及其方向（从王指向该子）
type Pin struct {
	Square Square
	Dir    Direction
}

// Check 将军的敌方棋子及其方向（从王指向该子）；马将军时方向为马的跳跃偏移
type Check struct {
	Square Square
	Dir    Direction
}

// 前 4 个直线，后 4 个斜线
var kingRays = [8]Direction{
	{-1, 0}, {0, -1}, {1, 0}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

var rookDirs = kingRays[:4]
var bishopDirs = kingRays[4:]

var knightJumps = [8]Direction{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// PinsAndChecksFrom 从 sq 出发沿 8 条射线和 8 个马步扫描，视角是当前走子方。
// 己方王在扫描中视为透明，这样模拟王移动时能看穿王原来的位置。
func (p *Position) PinsAndChecksFrom(sq Square) (inCheck bool, pins []Pin, checks []Check) {
	ally := p.SideToMove
	enemy := ally.Opponent()
	row, col := sq.Row(), sq.Col()

	for i, d := range kingRays {
		var possiblePin *Pin
		for dist := 1; dist < Rows; dist++ {
			r, c := row+d.DR*dist, col+d.DC*dist
			if !onBoard(r, c) {
				break
			}
			pc := p.Board.Squares[SquareAt(r, c)]
			if pc == Empty {
				continue
			}
			if pc.Color() == ally {
				if pc.Type() == King {
					continue
				}
				if possiblePin != nil {
					// 第二个己方子，这条线上不会有牵制
					break
				}
				possiblePin = &Pin{Square: SquareAt(r, c), Dir: d}
				continue
			}
			if pc.Color() == enemy {
				if attacksAlongRay(pc.Type(), enemy, i, dist) {
					if possiblePin == nil {
						inCheck = true
						checks = append(checks, Check{Square: SquareAt(r, c), Dir: d})
					} else {
						pins = append(pins, *possiblePin)
					}
				}
				break
			}
		}
	}

	for _, j := range knightJumps {
		r, c := row+j.DR, col+j.DC
		if !onBoard(r, c) {
			continue
		}
		pc := p.Board.Squares[SquareAt(r, c)]
		if pc.Color() == enemy && pc.Type() == Knight {
			inCheck = true
			checks = append(checks, Check{Square: SquareAt(r, c), Dir: j})
		}
	}
	return inCheck, pins, checks
}

// attacksAlongRay 敌方 pt 在第 ray 条射线、距离 dist 处能否攻击到起点
func attacksAlongRay(pt PieceType, enemy Color, ray, dist int) bool {
	switch pt {
	case Rook:
		return ray < 4
	case Bishop:
		return ray >= 4
	case Queen:
		return true
	case King:
		return dist == 1
	case Pawn:
		if dist != 1 {
			return false
		}
		// 白兵从下方斜着攻击（射线 6、7），黑兵从上方（射线 4、5）
		if enemy == White {
			return ray == 6 || ray == 7
		}
		return ray == 4 || ray == 5
	}
	return false
}

// IsAttacked 判断当前走子方的 sq 是否被对方攻击
func (p *Position) IsAttacked(sq Square) bool {
	in, _, _ := p.PinsAndChecksFrom(sq)
	return in
}

// pinDirection sq 上的棋子是否被牵制及牵制方向
func (p *Position) pinDirection(sq Square) (Direction, bool) {
	for _, pin := range p.pins {
		if pin.Square == sq {
			return pin.Dir, true
		}
	}
	return Direction{}, false
}

// alongPin 被牵制的子只能沿牵制线（两个方向）移动
func alongPin(pinned bool, pin, move Direction) bool {
	return !pinned || move == pin || move == pin.reverse()
}

// refreshPinsAndChecks 为当前走子方重算牵制和将军
func (p *Position) refreshPinsAndChecks() {
	p.InCheck, p.pins, p.checks = p.PinsAndChecksFrom(p.KingSquare(p.SideToMove))
}
