package game

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"negachess/internal/chess"
	"negachess/internal/engine"
)

type PlayerKind string

const (
	PlayerHuman  PlayerKind = "human"
	PlayerEngine PlayerKind = "engine"
)

func ParsePlayerKind(s string) (PlayerKind, error) {
	switch PlayerKind(strings.ToLower(strings.TrimSpace(s))) {
	case PlayerHuman, "":
		return PlayerHuman, nil
	case PlayerEngine:
		return PlayerEngine, nil
	}
	return "", errors.Errorf("unknown player kind %q", s)
}

type Players struct {
	White PlayerKind
	Black PlayerKind
}

func (p Players) Of(c chess.Color) PlayerKind {
	if c == chess.Black {
		return p.Black
	}
	return p.White
}

func (p Players) hasHuman() bool {
	return p.White == PlayerHuman || p.Black == PlayerHuman
}

type GameState struct {
	ID       string
	Pos      *chess.Position
	Players  Players
	StartFEN string
	Legal    []chess.Move  // 当前走子方的合法走法
	Status   chess.Outcome
	Paused   bool // 悔棋 / 重开后引擎暂停，直到人走下一步

	CreatedAt time.Time
	UpdatedAt time.Time

	strategy engine.Strategy
	worker   *engine.Worker
}

// refresh 局面变化后重新生成走法和终局状态
func (g *GameState) refresh() {
	g.Legal = g.Pos.GenerateLegalMoves()
	g.Status = g.Pos.Outcome()
	g.UpdatedAt = time.Now()
}

func (g *GameState) engineToMove() bool {
	return g.Players.Of(g.Pos.SideToMove) == PlayerEngine
}

// stopWorker 取消正在进行的搜索。搜索还没退出时策略对象不能复用，丢掉重建。
func (g *GameState) stopWorker() {
	if g.worker == nil {
		return
	}
	g.worker.Terminate()
	if g.worker.Alive() {
		g.strategy = nil
	}
	g.worker = nil
}

// Snapshot 对外只读视图
type Snapshot struct {
	ID         string
	FEN        string
	SideToMove chess.Color
	Players    Players
	Status     chess.Outcome
	InCheck    bool
	Legal      []string // UCI
	History    []string // 代数记法
	LastMove   string   // UCI
	Ply        int
	Thinking   bool
	Paused     bool
	UpdatedAt  time.Time
}

func (g *GameState) snapshot() Snapshot {
	s := Snapshot{
		ID:         g.ID,
		FEN:        g.Pos.Encode(),
		SideToMove: g.Pos.SideToMove,
		Players:    g.Players,
		Status:     g.Status,
		InCheck:    g.Pos.InCheck,
		Legal:      make([]string, 0, len(g.Legal)),
		History:    make([]string, 0, len(g.Pos.History)),
		Ply:        g.Pos.Ply(),
		Thinking:   g.worker != nil,
		Paused:     g.Paused,
		UpdatedAt:  g.UpdatedAt,
	}
	for _, mv := range g.Legal {
		s.Legal = append(s.Legal, mv.UCI())
	}
	for _, mv := range g.Pos.History {
		s.History = append(s.History, mv.String())
	}
	if last, ok := g.Pos.LastMove(); ok {
		s.LastMove = last.UCI()
	}
	return s
}
