package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"negachess/internal/chess"
	"negachess/internal/engine"
)

// MoveBook 记住引擎在某个局面选过的着法（UCI），多个进程可以共用
type MoveBook interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Store(ctx context.Context, key, uci string) error
}

// ======= 内存 =======

type memoryEntry struct {
	uci     string
	expires time.Time
}

type MemoryBook struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry
	now func() time.Time
}

func NewMemoryBook(ttl time.Duration) *MemoryBook {
	return &MemoryBook{
		ttl: ttl,
		m:   make(map[string]memoryEntry),
		now: time.Now,
	}
}

func (b *MemoryBook) Lookup(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.m[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && b.now().After(e.expires) {
		delete(b.m, key)
		return "", false, nil
	}
	return e.uci, true, nil
}

func (b *MemoryBook) Store(_ context.Context, key, uci string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := memoryEntry{uci: uci}
	if b.ttl > 0 {
		e.expires = b.now().Add(b.ttl)
	}
	b.m[key] = e
	return nil
}

func (b *MemoryBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}

// ======= Redis =======

const redisBookPrefix = "negachess:book:"

type RedisBook struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBook(client *redis.Client, ttl time.Duration) *RedisBook {
	return &RedisBook{client: client, ttl: ttl}
}

func (b *RedisBook) Lookup(ctx context.Context, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, redisBookPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "book lookup")
	}
	return v, true, nil
}

func (b *RedisBook) Store(ctx context.Context, key, uci string) error {
	return errors.Wrap(b.client.Set(ctx, redisBookPrefix+key, uci, b.ttl).Err(), "book store")
}

// ======= 带开局库的策略 =======

// bookKey 策略名 + 深度 + FEN 的前五段。半回合计数影响五十步判和，要算进去；
// 回合数不影响搜索，丢掉。重复局面不在 key 里，由 SelectMove 绕开
func bookKey(name string, depth int, pos *chess.Position) string {
	fields := strings.Fields(pos.Encode())
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return fmt.Sprintf("%s:%d:%s", name, depth, strings.Join(fields, " "))
}

// bookedStrategy 先查库，命中且仍合法就直接用；否则搜索并写回
type bookedStrategy struct {
	inner engine.Strategy
	depth int
	book  MoveBook
	log   *zap.SugaredLogger
}

func (b *bookedStrategy) Name() string { return b.inner.Name() }

func (b *bookedStrategy) SelectMove(ctx context.Context, pos *chess.Position, moves []chess.Move) (chess.Move, error) {
	// 局面出现过的话搜索结果依赖历史，不查也不写
	if pos.RepetitionCount() > 1 {
		return b.inner.SelectMove(ctx, pos, moves)
	}
	key := bookKey(b.inner.Name(), b.depth, pos)

	uci, ok, err := b.book.Lookup(ctx, key)
	if err != nil {
		b.log.Warnw("book lookup failed", "err", err)
	}
	if ok {
		if mv, found := bookMove(moves, uci); found {
			b.log.Debugw("book hit", "move", uci)
			return mv, nil
		}
	}

	mv, err := b.inner.SelectMove(ctx, pos, moves)
	if err != nil {
		return mv, err
	}
	if err := b.book.Store(ctx, key, mv.UCI()); err != nil {
		b.log.Warnw("book store failed", "err", err)
	}
	return mv, nil
}

func bookMove(moves []chess.Move, uci string) (chess.Move, bool) {
	from, to, promo, err := chess.ParseUCI(uci)
	if err != nil {
		return chess.Move{}, false
	}
	mv, ok := chess.FindMove(moves, from, to)
	if !ok {
		return chess.Move{}, false
	}
	if mv.Promotion && promo != chess.PieceNone {
		if err := mv.SetPromotion(promo); err != nil {
			return chess.Move{}, false
		}
	}
	return mv, true
}
