package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	nchess "github.com/notnil/chess"

	"negachess/internal/chess"
)

type TestCase struct {
	FEN     string   `json:"fen"`
	Legal   []string `json:"legal"` // UCI，升变四种分开列
	InCheck bool     `json:"in_check"`
	Outcome string   `json:"outcome"`
	Played  string   `json:"played,omitempty"` // 随机选中的一步
}

// 随机对局生成走法生成的测试数据，每一步都和 notnil/chess 对一遍
func main() {
	numGames := flag.Int("games", 10, "random games to play")
	maxPlies := flag.Int("maxplies", 300, "plies per game at most")
	seed := flag.Int64("seed", 0, "seed, 0 for time based")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	var testCases []TestCase
	mismatches := 0
	for g := 0; g < *numGames; g++ {
		pos := chess.NewInitialPosition()
		for ply := 0; ply < *maxPlies; ply++ {
			moves := pos.GenerateLegalMoves()
			tc := TestCase{
				FEN:     pos.Encode(),
				Legal:   expand(moves),
				InCheck: pos.InCheck,
				Outcome: pos.Outcome().String(),
			}

			if n, err := oracleCount(tc.FEN); err != nil {
				log.Fatalf("oracle rejected %s: %v", tc.FEN, err)
			} else if n != len(tc.Legal) {
				mismatches++
				log.Printf("mismatch at %s: ours %d, oracle %d", tc.FEN, len(tc.Legal), n)
			}

			if len(moves) == 0 || pos.Outcome().IsOver() {
				testCases = append(testCases, tc)
				break
			}
			mv := moves[rng.Intn(len(moves))]
			promo := chess.PieceNone
			if mv.Promotion {
				promo = chess.PromotionKinds[rng.Intn(len(chess.PromotionKinds))]
			}
			pos.ApplyMove(mv, promo)
			if last, ok := pos.LastMove(); ok {
				tc.Played = last.UCI()
			}
			testCases = append(testCases, tc)
		}
	}

	file, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*out, file, 0644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s (seed %d, %d mismatches)\n",
		len(testCases), *numGames, *out, *seed, mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
}

func expand(moves []chess.Move) []string {
	out := make([]string, 0, len(moves))
	for _, mv := range moves {
		if !mv.Promotion {
			out = append(out, mv.UCI())
			continue
		}
		for _, pt := range chess.PromotionKinds {
			c := mv
			_ = c.SetPromotion(pt)
			out = append(out, c.UCI())
		}
	}
	sort.Strings(out)
	return out
}

func oracleCount(fen string) (int, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return 0, err
	}
	return len(nchess.NewGame(opt).ValidMoves()), nil
}
