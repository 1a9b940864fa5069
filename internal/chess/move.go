package chess

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrPromotionSet = errors.New("promotion already chosen")

type Move struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Moved    Piece  `json:"moved"`
	Captured Piece  `json:"captured"`

	EnPassant bool      `json:"en_passant,omitempty"`
	Castle    bool      `json:"castle,omitempty"`
	Promotion bool      `json:"promotion,omitempty"`
	PromoteTo PieceType `json:"promote_to,omitempty"` // 走子时才确定，只能设置一次

	GivesCheck bool `json:"gives_check,omitempty"` // 生成走法时试走得出
}

func newMove(b *Board, from, to Square) Move {
	moved := b.Squares[from]
	mv := Move{
		From:     from,
		To:       to,
		Moved:    moved,
		Captured: b.Squares[to],
	}
	if moved.Type() == Pawn && to.Row() == promotionRow(moved.Color()) {
		mv.Promotion = true
	}
	return mv
}

func newEnPassantMove(b *Board, from, to Square) Move {
	mv := newMove(b, from, to)
	mv.EnPassant = true
	mv.Captured = MakePiece(mv.Moved.Color().Opponent(), Pawn)
	return mv
}

func newCastleMove(b *Board, from, to Square) Move {
	mv := newMove(b, from, to)
	mv.Castle = true
	return mv
}

func (m Move) IsCapture() bool { return m.Captured != Empty }

// Key 起点、终点、走子、被吃子压成一个整数，用于判等
func (m Move) Key() uint32 {
	return uint32(uint8(m.From)) |
		uint32(uint8(m.To))<<8 |
		uint32(uint8(m.Moved+8))<<16 |
		uint32(uint8(m.Captured+8))<<24
}

func (m Move) Equal(o Move) bool { return m.Key() == o.Key() }

func (m *Move) SetPromotion(pt PieceType) error {
	if !m.Promotion {
		return errors.Errorf("move %s is not a promotion", m.UCI())
	}
	if m.PromoteTo != PieceNone {
		return ErrPromotionSet
	}
	if !pt.IsPromotion() {
		return errors.Errorf("cannot promote to %d", pt)
	}
	m.PromoteTo = pt
	return nil
}

// UCI 坐标记法，升变时带小写棋子字母
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion && m.PromoteTo != PieceNone {
		s += strings.ToLower(m.PromoteTo.Letter())
	}
	return s
}

// String 简化的代数记法（不做同类子消歧）
func (m Move) String() string {
	if m.Castle {
		if m.To.Col() == 6 {
			return "O-O"
		}
		return "O-O-O"
	}

	check := ""
	if m.GivesCheck {
		check = "+"
	}
	end := m.To.String()

	if m.Moved.Type() == Pawn {
		promo := ""
		if m.Promotion && m.PromoteTo != PieceNone {
			promo = "=" + m.PromoteTo.Letter()
		}
		if m.IsCapture() {
			return string(rune('a'+m.From.Col())) + "x" + end + promo + check
		}
		return end + promo + check
	}

	s := m.Moved.Type().Letter()
	if m.IsCapture() {
		s += "x"
	}
	return s + end + check
}

// ParseUCI 拆出 "e7e8q" 的起点、终点和升变棋子
func ParseUCI(s string) (from, to Square, promo PieceType, err error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) != 4 && len(s) != 5 {
		return NoSquare, NoSquare, PieceNone, errors.Errorf("bad move %q", s)
	}
	if from, err = ParseSquare(s[:2]); err != nil {
		return NoSquare, NoSquare, PieceNone, err
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return NoSquare, NoSquare, PieceNone, err
	}
	if len(s) == 5 {
		promo = letterToPieceType[rune(s[4])]
		if !promo.IsPromotion() {
			return NoSquare, NoSquare, PieceNone, errors.Errorf("bad promotion %q", s[4:])
		}
	}
	return from, to, promo, nil
}

// FindMove 在 moves 中找起止点相同的那一步
func FindMove(moves []Move, from, to Square) (Move, bool) {
	for _, mv := range moves {
		if mv.From == from && mv.To == to {
			return mv, true
		}
	}
	return Move{}, false
}
