package engine

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"negachess/internal/chess"
)

type WorkerResult struct {
	Move chess.Move
	Err  error
}

// Worker 在独立 goroutine 里跑一次选着。
// 拿到的是局面的拷贝，所以放弃的搜索对外不可见。
type Worker struct {
	cancel context.CancelFunc
	result chan WorkerResult // 只放一个结果
	done   chan struct{}

	mu         sync.Mutex
	terminated bool
}

// StartWorker 克隆 pos 和 moves 后立即返回
func StartWorker(parent context.Context, s Strategy, pos *chess.Position, moves []chess.Move) *Worker {
	ctx, cancel := context.WithCancel(parent)
	w := &Worker{
		cancel: cancel,
		result: make(chan WorkerResult, 1),
		done:   make(chan struct{}),
	}

	local := pos.Clone()
	list := append([]chess.Move(nil), moves...)

	go func() {
		defer close(w.done)
		defer cancel()
		mv, err := s.SelectMove(ctx, local, list)
		if ctx.Err() != nil {
			// 被取消了，结果丢弃
			return
		}
		w.result <- WorkerResult{Move: mv, Err: err}
	}()
	return w
}

// Alive 每帧轮询用
func (w *Worker) Alive() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Result 非阻塞取结果，每个结果只能取一次
func (w *Worker) Result() (WorkerResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.terminated {
		return WorkerResult{}, false
	}
	select {
	case r := <-w.result:
		return r, true
	default:
		return WorkerResult{}, false
	}
}

// Wait 阻塞到出结果、worker 结束或 ctx 取消
func (w *Worker) Wait(ctx context.Context) (WorkerResult, error) {
	select {
	case <-w.done:
	case <-ctx.Done():
		return WorkerResult{}, errors.WithStack(ctx.Err())
	}
	if r, ok := w.Result(); ok {
		return r, nil
	}
	return WorkerResult{}, ErrNoResult
}

// Terminate 取消搜索并丢弃未取走的结果
func (w *Worker) Terminate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terminated = true
	w.cancel()
	select {
	case <-w.result:
	default:
	}
}

func (w *Worker) Terminated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terminated
}

// Done 搜索 goroutine 退出时关闭
func (w *Worker) Done() <-chan struct{} { return w.done }
