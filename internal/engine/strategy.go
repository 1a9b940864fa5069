package engine

import (
	"context"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"negachess/internal/chess"
)

const (
	StrategyRandom  = "random"
	StrategyGreedy  = "greedy"
	StrategyMinimax = "minimax"
	StrategyNegamax = "negamax"

	// 简单策略的将死分
	baselineMate = MateValue

	defaultMinimaxDepth = 2
)

// Strategy 给定局面和合法走法选一步。实现可以在 pos 上试走，但返回前必须撤回。
type Strategy interface {
	Name() string
	SelectMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error)
}

// StrategyNames 所有可用策略
func StrategyNames() []string {
	return []string{StrategyRandom, StrategyGreedy, StrategyMinimax, StrategyNegamax}
}

func NewStrategy(name string, cfg Config, opts ...Option) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyRandom:
		return &RandomStrategy{rng: newRand(cfg.Seed)}, nil
	case StrategyGreedy:
		return &GreedyStrategy{rng: newRand(cfg.Seed)}, nil
	case StrategyMinimax:
		depth := cfg.MaxDepth
		if depth <= 0 {
			depth = defaultMinimaxDepth
		}
		return &MinimaxStrategy{Depth: depth, rng: newRand(cfg.Seed)}, nil
	case StrategyNegamax, "":
		return NewEngine(cfg, opts...), nil
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}

// ======= 随机 =======

type RandomStrategy struct {
	rng *rand.Rand
}

func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	if rng == nil {
		rng = newRand(0)
	}
	return &RandomStrategy{rng: rng}
}

func (r *RandomStrategy) Name() string { return StrategyRandom }

func (r *RandomStrategy) SelectMove(_ context.Context, _ *chess.Position, moves []chess.Move) (chess.Move, error) {
	mv, ok := Fallback(r.rng, moves)
	if !ok {
		return chess.Move{}, ErrNoLegalMoves
	}
	return mv, nil
}

// ======= 贪心：走一步，假设对手回一步吃得最多 =======

type GreedyStrategy struct {
	rng *rand.Rand
}

func (g *GreedyStrategy) Name() string { return StrategyGreedy }

func (g *GreedyStrategy) SelectMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	if len(moves) == 0 {
		return chess.Move{}, ErrNoLegalMoves
	}
	candidates := shuffled(g.rng, moves)
	turn := colorSign(pos.SideToMove)

	minMax := baselineMate
	var best chess.Move
	found := false

	for _, mv := range candidates {
		if err := ctx.Err(); err != nil {
			return chess.Move{}, errors.WithStack(err)
		}
		var oppMax int
		err := pos.WithMove(mv, promotionOrQueen(mv), func() error {
			replies := pos.GenerateLegalMoves()
			switch {
			case pos.Stalemate:
				oppMax = 0
				return nil
			case pos.Checkmate:
				oppMax = -baselineMate
				return nil
			}
			oppMax = -baselineMate
			for _, reply := range replies {
				var score int
				err := pos.WithMove(reply, promotionOrQueen(reply), func() error {
					pos.GenerateLegalMoves()
					switch {
					case pos.Checkmate:
						score = baselineMate
					case pos.Stalemate:
						score = 0
					default:
						score = -turn * MaterialBalance(pos)
					}
					return nil
				})
				if err != nil {
					return err
				}
				if score > oppMax {
					oppMax = score
				}
			}
			return nil
		})
		if err != nil {
			return chess.Move{}, err
		}
		if oppMax < minMax {
			minMax = oppMax
			best = mv
			found = true
		}
	}
	if !found {
		return chess.Move{}, ErrNoResult
	}
	return best, nil
}

// ======= 固定深度极小极大，不剪枝 =======

type MinimaxStrategy struct {
	Depth int
	rng   *rand.Rand
}

func (m *MinimaxStrategy) Name() string { return StrategyMinimax }

func (m *MinimaxStrategy) SelectMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	if len(moves) == 0 {
		return chess.Move{}, ErrNoLegalMoves
	}
	depth := m.Depth
	if depth <= 0 {
		depth = defaultMinimaxDepth
	}
	_, best, ok, err := m.minimax(ctx, pos, moves, depth, pos.SideToMove == chess.White)
	if err != nil {
		return chess.Move{}, err
	}
	if !ok {
		return chess.Move{}, ErrNoResult
	}
	return best, nil
}

func (m *MinimaxStrategy) minimax(ctx context.Context, pos *chess.Position, moves []chess.Move, depth int, maximizing bool) (int, chess.Move, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, chess.Move{}, false, errors.WithStack(err)
	}
	if depth == 0 {
		return baselineScore(pos), chess.Move{}, false, nil
	}

	best := baselineMate
	if maximizing {
		best = -baselineMate
	}
	var bestMove chess.Move
	found := false

	for _, mv := range shuffled(m.rng, moves) {
		var score int
		err := pos.WithMove(mv, promotionOrQueen(mv), func() error {
			next := pos.GenerateLegalMoves()
			v, _, _, err := m.minimax(ctx, pos, next, depth-1, !maximizing)
			score = v
			return err
		})
		if err != nil {
			return 0, chess.Move{}, false, err
		}
		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
			bestMove = mv
			found = true
		}
	}
	return best, bestMove, found, nil
}

// 白方视角：将死 / 逼和 / 子力
func baselineScore(pos *chess.Position) int {
	switch {
	case pos.Checkmate:
		if pos.SideToMove == chess.White {
			return -baselineMate
		}
		return baselineMate
	case pos.Stalemate:
		return 0
	}
	return MaterialBalance(pos)
}

func promotionOrQueen(mv chess.Move) chess.PieceType {
	if !mv.Promotion {
		return chess.PieceNone
	}
	if mv.PromoteTo != chess.PieceNone {
		return mv.PromoteTo
	}
	return chess.Queen
}

func shuffled(rng *rand.Rand, moves []chess.Move) []chess.Move {
	out := append([]chess.Move(nil), moves...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
