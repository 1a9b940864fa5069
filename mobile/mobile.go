package mobile

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"negachess/internal/bootstrap"
	"negachess/internal/engine"
	"negachess/internal/server/game"
	httpserver "negachess/internal/server/http"
)

var (
	mu      sync.Mutex
	srv     *http.Server
	cancel  context.CancelFunc
	running sync.WaitGroup
)

// StartServer 在本机起服务给内嵌 WebView 用，不阻塞调用方（安卓 UI 线程）。
// webDir: 解压出来的前端目录
// port: 例如 "2888"，"0" 表示随机端口
// 返回实际监听地址
func StartServer(webDir string, port string, depth int) (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if srv != nil {
		return "", errors.New("server already running")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:"+port)
	if err != nil {
		return "", errors.Wrap(err, "listen")
	}

	cfg := engine.DefaultConfig()
	if depth > 0 {
		cfg.MaxDepth = depth
	}
	logger, err := bootstrap.NewLogger("warn")
	if err != nil {
		_ = ln.Close()
		return "", err
	}

	games := game.NewManager(
		game.WithLogger(logger),
		game.WithStrategy(engine.StrategyNegamax, cfg),
		game.WithBook(game.NewMemoryBook(time.Hour)),
	)
	h := httpserver.NewHandler(games, logger, engine.StrategyNegamax, cfg)
	srv = &http.Server{Handler: httpserver.NewRouter(h, webDir)}

	var ctx context.Context
	ctx, cancel = context.WithCancel(context.Background())
	running.Add(2)
	go func() {
		defer running.Done()
		_ = games.Run(ctx)
	}()
	go func(s *http.Server) {
		defer running.Done()
		if err := s.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Errorw("server error", "err", err)
		}
	}(srv)

	return ln.Addr().String(), nil
}

// StopServer 关掉 StartServer 起的服务
func StopServer() error {
	mu.Lock()
	defer mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, done := context.WithTimeout(context.Background(), 3*time.Second)
	defer done()
	err := srv.Shutdown(ctx)
	cancel()
	running.Wait()
	srv, cancel = nil, nil
	return err
}
