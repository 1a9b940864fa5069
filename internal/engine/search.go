package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"negachess/internal/chess"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000

	// 减深要求历史长度超过这个值（开局不减）
	lmrMinPlies = 12
	lmrMinIndex = 4
	lmrMinDepth = 3
)

// 搜索结果
type SearchResult struct {
	BestMove chess.Move    // 最佳着法（升变子已确定）
	Score    int           // 评估分（正：白方好，负：黑方好）
	Depth    int           // 搜索深度
	Nodes    int64         // 节点数
	TimeUsed time.Duration // 花费时间
}

// 单次搜索的状态，只在一个 goroutine 里用
type searcher struct {
	ctx        context.Context
	pos        *chess.Position
	cache      *Cache
	reductions bool
	nodes      int64
}

// Search 在 pos 上原地搜索（走完都会撤回），moves 是 pos 的合法走法。
// 并发调用方应传入 Clone。
func (e *Engine) Search(ctx context.Context, pos *chess.Position, moves []chess.Move) (SearchResult, error) {
	if len(moves) == 0 {
		return SearchResult{}, ErrNoLegalMoves
	}
	start := time.Now()

	if !e.cfg.PersistCache {
		e.cache.Reset()
	}
	s := &searcher{
		ctx:        ctx,
		pos:        pos,
		reductions: e.cfg.Reductions,
	}
	if e.cfg.UseCache {
		s.cache = e.cache
	}

	// 搜索中子节点会覆盖这些标志
	inCheck, mate, stale := pos.InCheck, pos.Checkmate, pos.Stalemate
	defer func() {
		pos.InCheck, pos.Checkmate, pos.Stalemate = inCheck, mate, stale
	}()

	root := append([]chess.Move(nil), moves...)
	if e.cfg.Shuffle {
		e.rng.Shuffle(len(root), func(i, j int) { root[i], root[j] = root[j], root[i] })
	}

	sign := colorSign(pos.SideToMove)
	value, best, ok, err := s.negamax(root, e.cfg.MaxDepth, -MateValue, MateValue, sign)
	if err != nil {
		return SearchResult{}, err
	}
	if !ok {
		return SearchResult{}, ErrNoResult
	}

	res := SearchResult{
		BestMove: best,
		Score:    value * sign,
		Depth:    e.cfg.MaxDepth,
		Nodes:    s.nodes,
		TimeUsed: time.Since(start),
	}
	e.log.Debugw("search done",
		"move", best.UCI(),
		"score", res.Score,
		"depth", res.Depth,
		"nodes", res.Nodes,
		"elapsed", res.TimeUsed,
		"cache", e.cache.Len(),
	)
	return res, nil
}

// FindBestMove 只要着法
func (e *Engine) FindBestMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	res, err := e.Search(ctx, pos, moves)
	if err != nil {
		return chess.Move{}, err
	}
	return res.BestMove, nil
}

func (e *Engine) Name() string { return StrategyNegamax }

func (e *Engine) SelectMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	return e.FindBestMove(ctx, pos, moves)
}

func colorSign(c chess.Color) int {
	if c == chess.Black {
		return -1
	}
	return 1
}

// negamax 返回走子方视角的分数。ok 为 false 表示没有选出着法
// （置换表命中、叶子或无棋可走）。
func (s *searcher) negamax(moves []chess.Move, depth, alpha, beta, sign int) (int, chess.Move, bool, error) {
	s.nodes++
	if err := s.ctx.Err(); err != nil {
		return 0, chess.Move{}, false, errors.WithStack(err)
	}

	pos := s.pos
	key := pos.Fingerprint()
	if s.cache != nil {
		if v, ok := s.cache.Lookup(key, depth, alpha, beta); ok {
			return v, chess.Move{}, false, nil
		}
	}

	if depth <= 0 {
		v := sign * Evaluate(pos)
		if s.cache != nil {
			s.cache.Store(key, depth, v, Exact)
		}
		return v, chess.Move{}, false, nil
	}
	if len(moves) == 0 {
		return sign * Evaluate(pos), chess.Move{}, false, nil
	}

	orderMoves(moves)
	// 走子前的历史长度，循环里 pos 已经多走了一步
	ply := pos.Ply()

	best := -scoreInf
	var bestMove chess.Move
	found := false

	for i, mv := range moves {
		promo := chess.PieceNone
		if mv.Promotion && mv.PromoteTo == chess.PieceNone {
			p, err := s.promotionFor(mv)
			if err != nil {
				return 0, chess.Move{}, false, err
			}
			promo = p
		}

		var score int
		err := pos.WithMove(mv, promo, func() error {
			next := pos.GenerateLegalMoves()
			if s.reducible(mv, i, depth, ply) {
				v, _, _, err := s.negamax(next, depth-2, -alpha-1, -alpha, -sign)
				if err != nil {
					return err
				}
				score = -v
				if score <= alpha {
					return nil
				}
			}
			v, _, _, err := s.negamax(next, depth-1, -beta, -alpha, -sign)
			if err != nil {
				return err
			}
			score = -v
			return nil
		})
		if err != nil {
			return 0, chess.Move{}, false, err
		}

		if score > best {
			best = score
			bestMove = mv
			if promo != chess.PieceNone {
				_ = bestMove.SetPromotion(promo)
			}
			found = true
		}
		if score > alpha {
			alpha = score
		}
		// 好的吃子即使截断也继续看
		if alpha >= beta && !goodCapture(mv) {
			break
		}
	}

	if s.cache != nil {
		s.cache.Store(key, depth, best, classifyBound(best, alpha, beta))
	}
	return best, bestMove, found, nil
}

// reducible ply 是当前节点（走这步之前）的历史长度
func (s *searcher) reducible(mv chess.Move, index, depth, ply int) bool {
	return s.reductions &&
		depth >= lmrMinDepth &&
		index >= lmrMinIndex &&
		!mv.IsCapture() &&
		!mv.GivesCheck &&
		!mv.Promotion &&
		ply > lmrMinPlies
}

// promotionFor 默认升后；后不能直接将死时，车/象/马中能将死的优先
func (s *searcher) promotionFor(mv chess.Move) (chess.PieceType, error) {
	for _, pt := range chess.PromotionKinds {
		mates := false
		err := s.pos.WithMove(mv, pt, func() error {
			s.pos.GenerateLegalMoves()
			mates = s.pos.Checkmate
			return nil
		})
		if err != nil {
			return chess.PieceNone, err
		}
		if mates {
			return pt, nil
		}
	}
	return chess.Queen, nil
}
