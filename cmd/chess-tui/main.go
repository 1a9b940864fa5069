package main

import (
	"flag"
	"fmt"
	"os"

	"negachess/internal/bootstrap"
	"negachess/internal/server/game"
	"negachess/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "", "optional config file (.env / yaml)")
	white := flag.String("white", "human", "white player: human / engine")
	black := flag.String("black", "engine", "black player: human / engine")
	fen := flag.String("fen", "", "start position, empty for the standard one")
	strategy := flag.String("strategy", "", "engine strategy, overrides CHESS_STRATEGY")
	depth := flag.Int("depth", 0, "search depth, overrides CHESS_DEPTH")
	flag.Parse()

	if err := run(*cfgPath, *white, *black, *fen, *strategy, *depth); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath, white, black, fen, strategy string, depth int) error {
	cfg, err := bootstrap.Setup(cfgPath)
	if err != nil {
		return err
	}
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if depth > 0 {
		cfg.Depth = depth
	}

	var players game.Players
	if players.White, err = game.ParsePlayerKind(white); err != nil {
		return err
	}
	if players.Black, err = game.ParsePlayerKind(black); err != nil {
		return err
	}

	// 终端被界面占用，不接日志
	games := game.NewManager(game.WithStrategy(cfg.Strategy, cfg.Engine()))
	defer games.Close()
	return tui.Run(games, players, fen)
}
