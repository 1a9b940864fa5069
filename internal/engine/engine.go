package engine

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Config 搜索参数
type Config struct {
	MaxDepth     int   // 搜索深度（ply）
	UseCache     bool  // 是否使用置换表
	PersistCache bool  // 置换表跨搜索保留
	Reductions   bool  // 后续着法减深（LMR）
	Shuffle      bool  // 排序前先打乱，同分着法随机
	Seed         int64 // 0 表示按时间取种子
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:   3,
		UseCache:   true,
		Reductions: true,
	}
}

type Engine struct {
	cfg   Config
	cache *Cache
	rng   *rand.Rand
	log   *zap.SugaredLogger
}

type Option func(*Engine)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	e := &Engine{
		cfg:   cfg,
		cache: NewCache(),
		rng:   newRand(cfg.Seed),
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Cache 当前置换表；PersistCache 关闭时每次搜索都会清空
func (e *Engine) Cache() *Cache { return e.cache }

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
