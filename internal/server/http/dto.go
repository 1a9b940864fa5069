package httpserver

import (
	"negachess/internal/server/game"
)

// NewGameRequest white / black 取 "human" 或 "engine"，fen 为空用标准开局
type NewGameRequest struct {
	White string `json:"white"`
	Black string `json:"black"`
	FEN   string `json:"fen,omitempty"`
}

// MoveRequest UCI 坐标，升变带棋子字母：e7e8q
type MoveRequest struct {
	Move string `json:"move"`
}

// GameResponse 前端用的局面快照
type GameResponse struct {
	GameID     string   `json:"game_id"`
	Position   string   `json:"position"` // FEN
	ToMove     string   `json:"to_move"`  // "white" / "black"
	White      string   `json:"white"`
	Black      string   `json:"black"`
	LegalMoves []string `json:"legal_moves"`
	History    []string `json:"history"`
	LastMove   string   `json:"last_move,omitempty"`
	Status     string   `json:"status"` // "ongoing" / "checkmate" / "stalemate" / 各种和棋
	InCheck    bool     `json:"in_check"`
	Thinking   bool     `json:"thinking"` // 引擎正在算
	Paused     bool     `json:"paused"`
	Ply        int      `json:"ply"`
}

func snapshotToResponse(s game.Snapshot) GameResponse {
	return GameResponse{
		GameID:     s.ID,
		Position:   s.FEN,
		ToMove:     s.SideToMove.String(),
		White:      string(s.Players.White),
		Black:      string(s.Players.Black),
		LegalMoves: s.Legal,
		History:    s.History,
		LastMove:   s.LastMove,
		Status:     s.Status.String(),
		InCheck:    s.InCheck,
		Thinking:   s.Thinking,
		Paused:     s.Paused,
		Ply:        s.Ply,
	}
}

// AnalyzeRequest 只思考不落子
type AnalyzeRequest struct {
	Position string `json:"position"` // FEN
	Strategy string `json:"strategy,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

type AnalyzeResponse struct {
	BestMove string `json:"best_move,omitempty"`
	Score    int    `json:"score"` // 正：白方好
	Depth    int    `json:"depth"`
	Nodes    int64  `json:"nodes"`
	TimeMs   int64  `json:"time_ms"`
	Status   string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
