package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"negachess/internal/engine"
)

func main() {
	white := flag.String("white", engine.StrategyNegamax, "white strategy: "+fmt.Sprint(engine.StrategyNames()))
	black := flag.String("black", engine.StrategyGreedy, "black strategy")
	depth := flag.Int("depth", 3, "search depth for minimax / negamax")
	games := flag.Int("games", 10, "number of games, colors alternate")
	parallel := flag.Int("parallel", 4, "games played at once")
	maxPlies := flag.Int("maxplies", 300, "adjudicate a draw after this many plies")
	seed := flag.Int64("seed", 0, "base seed, 0 for time based")
	verbose := flag.Bool("v", false, "print every move")
	flag.Parse()

	for _, name := range []string{*white, *black} {
		if _, err := engine.NewStrategy(name, engine.DefaultConfig()); err != nil {
			log.Fatalf("strategy: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := matchConfig{
		A:        *white,
		B:        *black,
		Depth:    *depth,
		Games:    *games,
		Parallel: *parallel,
		MaxPlies: *maxPlies,
		Seed:     *seed,
		Verbose:  *verbose,
	}
	res, err := runMatch(ctx, cfg)
	if err != nil {
		log.Fatalf("match: %v", err)
	}
	res.print(os.Stdout)
}
