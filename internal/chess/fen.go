package chess

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var ErrInvalidFEN = errors.New("invalid FEN")

// Encode 标准 FEN：棋盘 走子方 易位 过路兵 半回合 回合数
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			pc := p.Board.Squares[SquareAt(r, c)]
			if pc == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(pieceToChar(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castling := ""
	if p.Castling.WhiteKingside {
		castling += "K"
	}
	if p.Castling.WhiteQueenside {
		castling += "Q"
	}
	if p.Castling.BlackKingside {
		castling += "k"
	}
	if p.Castling.BlackQueenside {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullmoveNumber()))
	return sb.String()
}

// FullmoveNumber 从 1 开始，黑方走完后加一
func (p *Position) FullmoveNumber() int {
	plies := len(p.History)
	if p.startSide == Black {
		plies++
	}
	return p.startMove + plies/2
}

// DecodePosition 解析 FEN；后四段可省略，缺省为 "- - 0 1"
func DecodePosition(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, errors.Wrap(ErrInvalidFEN, "need at least board and side")
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != Rows {
		return nil, errors.Wrapf(ErrInvalidFEN, "expected %d ranks, got %d", Rows, len(rows))
	}

	pos := &Position{
		EnPassant: NoSquare,
		WhiteKing: NoSquare,
		BlackKing: NoSquare,
		startMove: 1,
	}
	for r := 0; r < Rows; r++ {
		c := 0
		for _, ch := range rows[r] {
			if c >= Cols {
				return nil, errors.Wrapf(ErrInvalidFEN, "rank %d too long", 8-r)
			}
			if ch >= '1' && ch <= '8' {
				c += int(ch - '0')
				continue
			}
			pt, ok := letterToPieceType[unicode.ToLower(ch)]
			if !ok {
				return nil, errors.Wrapf(ErrInvalidFEN, "unknown piece %q", ch)
			}
			side := Black
			if unicode.IsUpper(ch) {
				side = White
			}
			sq := SquareAt(r, c)
			pos.Board.Squares[sq] = MakePiece(side, pt)
			if pt == King {
				if pos.KingSquare(side) != NoSquare {
					return nil, errors.Wrapf(ErrInvalidFEN, "two %s kings", side)
				}
				pos.setKingSquare(side, sq)
			}
			c++
		}
		if c != Cols {
			return nil, errors.Wrapf(ErrInvalidFEN, "rank %d has %d files", 8-r, c)
		}
	}
	if pos.WhiteKing == NoSquare || pos.BlackKing == NoSquare {
		return nil, errors.Wrap(ErrInvalidFEN, "missing king")
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, errors.Wrapf(ErrInvalidFEN, "side %q", parts[1])
	}
	pos.startSide = pos.SideToMove

	if len(parts) > 2 && parts[2] != "-" {
		for _, ch := range parts[2] {
			switch ch {
			case 'K':
				pos.Castling.WhiteKingside = true
			case 'Q':
				pos.Castling.WhiteQueenside = true
			case 'k':
				pos.Castling.BlackKingside = true
			case 'q':
				pos.Castling.BlackQueenside = true
			default:
				return nil, errors.Wrapf(ErrInvalidFEN, "castling %q", parts[2])
			}
		}
	}
	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, errors.Wrap(ErrInvalidFEN, err.Error())
		}
		if !validEnPassant(pos, sq) {
			return nil, errors.Wrapf(ErrInvalidFEN, "en passant %q", parts[3])
		}
		pos.EnPassant = sq
	}
	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return nil, errors.Wrapf(ErrInvalidFEN, "halfmove clock %q", parts[4])
		}
		pos.HalfmoveClock = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return nil, errors.Wrapf(ErrInvalidFEN, "fullmove number %q", parts[5])
		}
		pos.startMove = n
	}
	return pos, nil
}

// validEnPassant 目标格必须在对方刚走两步的兵身后：白走时在第 6 横排，黑走时在第 3 横排，
// 目标格为空且后面站着对方的兵
func validEnPassant(pos *Position, sq Square) bool {
	mover := pos.SideToMove
	pawnRow := sq.Row() + pawnDir(mover.Opponent())
	if sq.Row() != pawnStartRow(mover.Opponent())+pawnDir(mover.Opponent()) || !onBoard(pawnRow, sq.Col()) {
		return false
	}
	return pos.Board.Squares[sq] == Empty &&
		pos.Board.Squares[SquareAt(pawnRow, sq.Col())] == MakePiece(mover.Opponent(), Pawn)
}
