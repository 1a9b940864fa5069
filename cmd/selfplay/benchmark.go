package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"negachess/internal/chess"
	"negachess/internal/engine"
)

type matchConfig struct {
	A, B     string // 两个策略，A 在偶数局执白
	Depth    int
	Games    int
	Parallel int
	MaxPlies int
	Seed     int64
	Verbose  bool
}

type gameResult struct {
	Index    int
	White    string
	Black    string
	Outcome  chess.Outcome
	Winner   chess.Color // 和棋为 NoColor
	Plies    int
	Fallback int // 策略没给出着法、改走随机的次数
	// 每步耗时（毫秒），按执子方
	Times [2][]float64
}

type matchResult struct {
	cfg      matchConfig
	games    []gameResult
	winsA    int
	winsB    int
	draws    int
	fallback int
	timesA   []float64
	timesB   []float64
}

func runMatch(ctx context.Context, cfg matchConfig) (*matchResult, error) {
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	results := make([]gameResult, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)

	var mu sync.Mutex // 只保护打印
	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			white, black := cfg.A, cfg.B
			if i%2 == 1 {
				white, black = black, white
			}
			res, err := playGame(gctx, i, white, black, cfg, baseSeed+int64(i))
			if err != nil {
				return err
			}
			results[i] = res

			mu.Lock()
			fmt.Printf("game %2d: %s (white) vs %s (black): %s after %d plies\n",
				i+1, white, black, describe(res), res.Plies)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &matchResult{cfg: cfg, games: results}
	for _, r := range results {
		m.fallback += r.Fallback
		aColor := chess.White
		if r.Index%2 == 1 {
			aColor = chess.Black
		}
		switch r.Winner {
		case chess.NoColor:
			m.draws++
		case aColor:
			m.winsA++
		default:
			m.winsB++
		}
		m.timesA = append(m.timesA, r.Times[aColor]...)
		m.timesB = append(m.timesB, r.Times[aColor.Opponent()]...)
	}
	return m, nil
}

func playGame(ctx context.Context, index int, white, black string, cfg matchConfig, seed int64) (gameResult, error) {
	rng := rand.New(rand.NewSource(seed))
	var players [2]engine.Strategy
	for c, name := range [2]string{white, black} {
		ecfg := engine.DefaultConfig()
		ecfg.MaxDepth = cfg.Depth
		ecfg.Seed = seed*2 + int64(c) + 1
		s, err := engine.NewStrategy(name, ecfg)
		if err != nil {
			return gameResult{}, err
		}
		players[c] = s
	}

	res := gameResult{Index: index, White: white, Black: black, Winner: chess.NoColor}
	pos := chess.NewInitialPosition()
	for res.Plies < cfg.MaxPlies {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		moves := pos.GenerateLegalMoves()
		if out := pos.Outcome(); out.IsOver() {
			res.Outcome = out
			if out == chess.Checkmate {
				res.Winner = pos.SideToMove.Opponent()
			}
			return res, nil
		}

		side := pos.SideToMove
		start := time.Now()
		mv, err := players[side].SelectMove(ctx, pos, moves)
		elapsed := time.Since(start)
		if err != nil {
			if ctx.Err() != nil {
				return gameResult{}, ctx.Err()
			}
			res.Fallback++
			mv, _ = engine.Fallback(rng, moves)
		}
		res.Times[side] = append(res.Times[side], float64(elapsed.Microseconds())/1000)

		if cfg.Verbose {
			fmt.Printf("  [%d] %3d. %-7s %s\n", index+1, res.Plies+1, mv.String(), elapsed.Round(time.Microsecond))
		}
		pos.ApplyMove(mv, mv.PromoteTo)
		res.Plies++
	}
	res.Outcome = chess.Ongoing
	return res, nil
}

func describe(r gameResult) string {
	switch {
	case r.Outcome == chess.Ongoing:
		return "draw (ply limit)"
	case r.Winner == chess.NoColor:
		return "draw (" + r.Outcome.String() + ")"
	}
	return r.Winner.String() + " wins"
}

func (m *matchResult) print(w io.Writer) {
	fmt.Fprintf(w, "\n=== %d games, depth %d ===\n", len(m.games), m.cfg.Depth)
	fmt.Fprintf(w, "%-8s wins: %d\n", m.cfg.A, m.winsA)
	fmt.Fprintf(w, "%-8s wins: %d\n", m.cfg.B, m.winsB)
	fmt.Fprintf(w, "draws:         %d\n", m.draws)
	fmt.Fprintf(w, "random fallbacks: %d\n", m.fallback)
	printTimes(w, m.cfg.A, m.timesA)
	printTimes(w, m.cfg.B, m.timesB)
}

func printTimes(w io.Writer, name string, times []float64) {
	if len(times) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(times, nil)
	fmt.Fprintf(w, "%-8s per move: mean %.2fms, stddev %.2fms over %d moves\n", name, mean, std, len(times))
}
