package chess

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	Rows       = 8
	Cols       = 8
	NumSquares = Rows * Cols
)

// Square 0..63，row 0 是黑方底线（第 8 横排），col 0 是 a 线
type Square int8

const NoSquare Square = -1

var ErrInvalidSquare = errors.New("invalid square")

func SquareAt(row, col int) Square { return Square(row*Cols + col) }
func (s Square) Row() int          { return int(s) / Cols }
func (s Square) Col() int          { return int(s) % Cols }
func (s Square) Valid() bool       { return s >= 0 && s < NumSquares }

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// String 返回 "e4" 这样的坐标
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.Col()), byte('8' - s.Row())})
}

func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	col := int(s[0] - 'a')
	row := int('8' - s[1])
	if !onBoard(row, col) {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	return SquareAt(row, col), nil
}

// 兵的前进方向：白向上(-1)，黑向下(+1)
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return +1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

func backRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

var letterToPieceType = map[rune]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

var pieceTypeLetters = [...]byte{PieceNone: '.', Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

func pieceToChar(p Piece) rune {
	if p == Empty {
		return '.'
	}
	base := rune(pieceTypeLetters[p.Type()])
	if p.Color() == White {
		return unicode.ToUpper(base)
	}
	return base
}

func (pt PieceType) Letter() string {
	if pt <= PieceNone || pt > King {
		return ""
	}
	return string(unicode.ToUpper(rune(pieceTypeLetters[pt])))
}

func (p Piece) String() string { return string(pieceToChar(p)) }

const initialBoardString = `rnbqkbnr
pppppppp
........
........
........
........
PPPPPPPP
RNBQKBNR`

func parseBoard(s string) Board {
	var b Board
	lines := make([]string, 0, Rows)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != Rows {
		panic("board string must have 8 rows")
	}
	for r := 0; r < Rows; r++ {
		if len(lines[r]) != Cols {
			panic("board row must have 8 columns")
		}
		for c, ch := range lines[r] {
			if ch == '.' {
				continue
			}
			pt, ok := letterToPieceType[unicode.ToLower(ch)]
			if !ok {
				panic("unknown piece letter: " + string(ch))
			}
			side := Black
			if unicode.IsUpper(ch) {
				side = White
			}
			b.Squares[SquareAt(r, c)] = MakePiece(side, pt)
		}
	}
	return b
}

func NewInitialPosition() *Position {
	pos := &Position{
		Board:      parseBoard(initialBoardString),
		SideToMove: White,
		WhiteKing:  SquareAt(7, 4),
		BlackKing:  SquareAt(0, 4),
		Castling:   CastlingRights{true, true, true, true},
		EnPassant:  NoSquare,
		startSide:  White,
		startMove:  1,
	}
	return pos
}

// Render 文本棋盘，调试/终端用
func (b *Board) Render() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		sb.WriteByte(byte('8' - r))
		sb.WriteByte(' ')
		for c := 0; c < Cols; c++ {
			sb.WriteRune(pieceToChar(b.Squares[SquareAt(r, c)]))
			if c < Cols-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
