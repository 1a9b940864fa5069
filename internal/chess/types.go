package chess

type Color int8

const (
	NoColor Color = -1
	White   Color = 0
	Black   Color = 1
)

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

type PieceType int8

const (
	PieceNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionKinds 可选的升变棋子，顺序即兜底/随机选择时的候选顺序
var PromotionKinds = [...]PieceType{Queen, Rook, Bishop, Knight}

func (pt PieceType) IsPromotion() bool {
	return pt == Queen || pt == Rook || pt == Bishop || pt == Knight
}

type Piece int8 // 0=空；>0 白；<0 黑；abs=PieceType

const Empty Piece = 0

func MakePiece(c Color, pt PieceType) Piece {
	if pt == PieceNone || c == NoColor {
		return Empty
	}
	if c == White {
		return Piece(pt)
	}
	return -Piece(pt)
}

func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

func (p Piece) Color() Color {
	if p == 0 {
		return NoColor
	}
	if p > 0 {
		return White
	}
	return Black
}

func (p Piece) IsEmpty() bool { return p == Empty }

type Board struct {
	Squares [NumSquares]Piece
}

func (b *Board) At(sq Square) Piece { return b.Squares[sq] }

// CastlingRights 四个易位权限，只会从 true 变为 false（悔棋时整体恢复）
type CastlingRights struct {
	WhiteKingside  bool
	WhiteQueenside bool
	BlackKingside  bool
	BlackQueenside bool
}

// PromotionChooser 人类升变时由外部（界面）给出升变棋子，阻塞直到选择完成
type PromotionChooser func(c Color) PieceType

// Position = 棋盘 + 轮到谁走 + 易位/吃过路兵/五十步计数 + 历史
type Position struct {
	Board      Board
	SideToMove Color

	WhiteKing Square
	BlackKing Square

	Castling      CastlingRights
	EnPassant     Square // 吃过路兵目标格，没有时为 NoSquare
	HalfmoveClock int

	History []Move

	InCheck   bool
	Checkmate bool
	Stalemate bool

	// 外部提供的升变选择；nil 时默认升后
	PromotionChooser PromotionChooser

	startSide Color
	startMove int
	shadow    []stateSnapshot
	pins      []Pin
	checks    []Check
}

// stateSnapshot 每次走子前压栈，悔棋时弹出恢复
type stateSnapshot struct {
	castling  CastlingRights
	enPassant Square
	halfmove  int
}
