package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"negachess/internal/chess"
)

// 打印局面和 perft 计数，对照公开的 perft 表排查走法生成
func main() {
	fen := flag.String("fen", "", "position, empty for the standard one")
	depth := flag.Int("depth", 3, "perft depth")
	divide := flag.Bool("divide", false, "print the count below every root move")
	flag.Parse()

	pos := chess.NewInitialPosition()
	if *fen != "" {
		var err error
		if pos, err = chess.DecodePosition(*fen); err != nil {
			log.Fatalf("fen: %v", err)
		}
	}

	fmt.Println("FEN:", pos.Encode())
	fmt.Print(pos.Board.Render())
	fmt.Println("Pseudo legal moves:", len(pos.GeneratePseudoLegalMoves()))
	moves := pos.GenerateLegalMoves()
	fmt.Println("Legal moves:", len(moves), "outcome:", pos.Outcome())

	if *divide && *depth > 0 {
		total := 0
		for _, mv := range moves {
			kinds := []chess.PieceType{chess.PieceNone}
			if mv.Promotion {
				kinds = chess.PromotionKinds[:]
			}
			for _, pt := range kinds {
				n := 0
				_ = pos.WithMove(mv, pt, func() error {
					n = pos.CountMoves(*depth - 1)
					return nil
				})
				uci := mv.UCI()
				if pt != chess.PieceNone {
					uci += strings.ToLower(pt.Letter())
				}
				fmt.Printf("%s: %d\n", uci, n)
				total += n
			}
		}
		fmt.Println("Total:", total)
		return
	}

	for d := 1; d <= *depth; d++ {
		start := time.Now()
		n := pos.CountMoves(d)
		fmt.Printf("perft(%d) = %d  (%v)\n", d, n, time.Since(start).Round(time.Millisecond))
	}
}
