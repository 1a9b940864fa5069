package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"negachess/internal/adapters"
	"negachess/internal/bootstrap"
	"negachess/internal/engine"
	"negachess/internal/server/game"
	httpserver "negachess/internal/server/http"
)

const shutdownTimeout = 5 * time.Second

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 没有图形界面时会失败，不管
}

func main() {
	cfgPath := flag.String("config", "", "optional config file (.env / yaml)")
	addr := flag.String("addr", "", "listen address, overrides CHESS_ADDR")
	webDir := flag.String("web", "", "static web directory, overrides CHESS_WEB_DIR")
	browser := flag.Bool("open", false, "open the default browser after start")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *webDir != "" {
		cfg.WebDir = *webDir
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *browser); err != nil {
		logger.Fatalw("server stopped", "err", err)
	}
}

func run(cfg *bootstrap.Config, logger *zap.SugaredLogger, browser bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := engine.NewStrategy(cfg.Strategy, cfg.Engine()); err != nil {
		return err
	}

	var redisAdapter *adapters.AdapterRedis
	var book game.MoveBook = game.NewMemoryBook(cfg.BookTTL)
	if cfg.RedisUrl != "" {
		redisAdapter = adapters.NewAdapterRedis(cfg, logger)
		if err := redisAdapter.Init(ctx); err != nil {
			return err
		}
		book = game.NewRedisBook(redisAdapter.GetClient(), cfg.BookTTL)
		logger.Infow("move book backed by redis")
	}

	games := game.NewManager(
		game.WithLogger(logger),
		game.WithStrategy(cfg.Strategy, cfg.Engine()),
		game.WithBook(book),
		game.WithTick(cfg.TickInterval),
	)
	h := httpserver.NewHandler(games, logger, cfg.Strategy, cfg.Engine())
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpserver.NewRouter(h, cfg.WebDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return games.Run(gctx)
	})
	g.Go(func() error {
		logger.Infow("listening", "addr", cfg.Addr, "strategy", cfg.Strategy, "depth", cfg.Depth)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs error
		if err := srv.Shutdown(sctx); err != nil {
			errs = multierror.Append(errs, err)
		}
		if redisAdapter != nil {
			if err := redisAdapter.Close(sctx); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		return errs
	})

	if browser {
		// 等监听起来再开
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://" + browserHost(cfg.Addr))
		}()
	}

	return g.Wait()
}

func browserHost(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}
