package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negachess/internal/chess"
)

// 等 release 关闭或 ctx 取消后才返回
type blockingStrategy struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingStrategy) Name() string { return "blocking" }

func (b *blockingStrategy) SelectMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	close(b.started)
	select {
	case <-b.release:
		return moves[0], nil
	case <-ctx.Done():
		return chess.Move{}, ctx.Err()
	}
}

// 故意不撤回，验证 worker 拿的是拷贝
type mutatingStrategy struct{}

func (mutatingStrategy) Name() string { return "mutating" }

func (mutatingStrategy) SelectMove(_ context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	pos.ApplyMove(moves[0], chess.PieceNone)
	moves[0] = chess.Move{}
	return pos.History[0], nil
}

func TestWorkerDeliversResultOnce(t *testing.T) {
	pos := chess.NewInitialPosition()
	moves := pos.GenerateLegalMoves()
	w := StartWorker(context.Background(), NewRandomStrategy(rand.New(rand.NewSource(5))), pos, moves)

	res, err := w.Wait(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)
	_, ok := chess.FindMove(moves, res.Move.From, res.Move.To)
	assert.True(t, ok)

	assert.False(t, w.Alive())
	_, ok = w.Result()
	assert.False(t, ok, "result is drained once")
}

func TestWorkerPollingBeforeCompletion(t *testing.T) {
	pos := chess.NewInitialPosition()
	moves := pos.GenerateLegalMoves()
	s := &blockingStrategy{release: make(chan struct{}), started: make(chan struct{})}
	w := StartWorker(context.Background(), s, pos, moves)
	<-s.started

	assert.True(t, w.Alive())
	_, ok := w.Result()
	assert.False(t, ok)

	close(s.release)
	<-w.Done()
	res, ok := w.Result()
	require.True(t, ok)
	assert.True(t, res.Move.Equal(moves[0]))
}

func TestWorkerTerminateDiscardsResult(t *testing.T) {
	pos := chess.NewInitialPosition()
	moves := pos.GenerateLegalMoves()
	s := &blockingStrategy{release: make(chan struct{}), started: make(chan struct{})}
	w := StartWorker(context.Background(), s, pos, moves)
	<-s.started

	w.Terminate()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after terminate")
	}
	assert.False(t, w.Alive())
	assert.True(t, w.Terminated())
	_, ok := w.Result()
	assert.False(t, ok)

	_, err := w.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestWorkerTerminateStopsSearch(t *testing.T) {
	pos := chess.NewInitialPosition()
	cfg := DefaultConfig()
	cfg.MaxDepth = 12
	w := StartWorker(context.Background(), NewEngine(cfg), pos, pos.GenerateLegalMoves())

	w.Terminate()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("search ignored cancellation")
	}
	_, ok := w.Result()
	assert.False(t, ok)
}

func TestWorkerWorksOnCopies(t *testing.T) {
	pos := chess.NewInitialPosition()
	moves := pos.GenerateLegalMoves()
	first := moves[0]
	fen := pos.Encode()

	w := StartWorker(context.Background(), mutatingStrategy{}, pos, moves)
	res, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Move.Equal(first))

	assert.Equal(t, fen, pos.Encode())
	assert.Empty(t, pos.History)
	assert.True(t, moves[0].Equal(first))
}

func TestWorkerWaitHonoursContext(t *testing.T) {
	pos := chess.NewInitialPosition()
	s := &blockingStrategy{release: make(chan struct{}), started: make(chan struct{})}
	w := StartWorker(context.Background(), s, pos, pos.GenerateLegalMoves())
	defer w.Terminate()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := w.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
