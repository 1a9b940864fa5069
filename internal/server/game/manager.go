package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"negachess/internal/chess"
	"negachess/internal/engine"
)

const (
	defaultTick   = time.Second / 60
	subscriberBuf = 8
)

// Manager 管理所有对局：人走子、引擎 worker 轮询、悔棋 / 重开
type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameState
	rng   *rand.Rand // 受 mu 保护

	strategy  string
	engineCfg engine.Config
	tick      time.Duration
	book      MoveBook
	log       *zap.SugaredLogger

	subMu sync.Mutex
	subs  map[string]map[chan Snapshot]struct{}
}

type Option func(*Manager)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithStrategy(name string, cfg engine.Config) Option {
	return func(m *Manager) {
		m.strategy = name
		m.engineCfg = cfg
	}
}

func WithBook(b MoveBook) Option {
	return func(m *Manager) { m.book = b }
}

func WithTick(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.tick = d
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		games:     make(map[string]*GameState),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		strategy:  engine.StrategyNegamax,
		engineCfg: engine.DefaultConfig(),
		tick:      defaultTick,
		log:       zap.NewNop().Sugar(),
		subs:      make(map[string]map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewGame fen 为空时用标准开局
func (m *Manager) NewGame(players Players, fen string) (Snapshot, error) {
	var (
		pos *chess.Position
		err error
	)
	if fen == "" {
		pos = chess.NewInitialPosition()
	} else if pos, err = chess.DecodePosition(fen); err != nil {
		return Snapshot{}, err
	}
	if players.White == "" {
		players.White = PlayerHuman
	}
	if players.Black == "" {
		players.Black = PlayerHuman
	}

	now := time.Now()
	g := &GameState{
		ID:        uuid.NewString(),
		Pos:       pos,
		Players:   players,
		StartFEN:  pos.Encode(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if players.White == PlayerEngine || players.Black == PlayerEngine {
		if g.strategy, err = m.newStrategy(); err != nil {
			return Snapshot{}, err
		}
	}
	g.refresh()

	m.mu.Lock()
	m.games[g.ID] = g
	m.maybeStartEngine(g)
	snap := g.snapshot()
	m.mu.Unlock()

	m.log.Infow("game created", "game", g.ID, "white", players.White, "black", players.Black)
	return snap, nil
}

func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return Snapshot{}, ErrGameNotFound
	}
	return g.snapshot(), nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// update 加锁执行 fn，成功后广播新快照
func (m *Manager) update(id string, fn func(g *GameState) error) (Snapshot, error) {
	m.mu.Lock()
	g, ok := m.games[id]
	if !ok {
		m.mu.Unlock()
		return Snapshot{}, ErrGameNotFound
	}
	if err := fn(g); err != nil {
		m.mu.Unlock()
		return Snapshot{}, err
	}
	snap := g.snapshot()
	m.mu.Unlock()

	m.publish(snap)
	return snap, nil
}

// Play 人走一步，uci 形如 e2e4 / e7e8q
func (m *Manager) Play(id, uci string) (Snapshot, error) {
	from, to, promo, err := chess.ParseUCI(uci)
	if err != nil {
		return Snapshot{}, errors.Wrapf(ErrIllegalMove, "%s: %v", uci, err)
	}
	return m.update(id, func(g *GameState) error {
		if g.Status.IsOver() {
			return ErrGameOver
		}
		if g.Players.Of(g.Pos.SideToMove) != PlayerHuman {
			return ErrNotHumanTurn
		}
		mv, ok := chess.FindMove(g.Legal, from, to)
		if !ok {
			return errors.Wrap(ErrIllegalMove, uci)
		}
		if mv.Promotion && promo == chess.PieceNone {
			return ErrPromotionRequired
		}

		g.Pos.ApplyMove(mv, promo)
		g.Paused = false
		g.refresh()
		m.log.Debugw("human move", "game", g.ID, "move", mv.String())
		m.maybeStartEngine(g)
		return nil
	})
}

// Undo 撤一步，停掉正在思考的引擎
func (m *Manager) Undo(id string) (Snapshot, error) {
	return m.update(id, func(g *GameState) error {
		g.stopWorker()
		if err := g.Pos.UndoMove(); err != nil {
			return err
		}
		g.Paused = g.Players.hasHuman()
		g.refresh()
		m.maybeStartEngine(g)
		return nil
	})
}

// Reset 回到起始局面
func (m *Manager) Reset(id string) (Snapshot, error) {
	return m.update(id, func(g *GameState) error {
		g.stopWorker()
		pos, err := chess.DecodePosition(g.StartFEN)
		if err != nil {
			return err
		}
		g.Pos = pos
		g.Paused = g.Players.hasHuman()
		g.refresh()
		m.maybeStartEngine(g)
		return nil
	})
}

// Resume 解除暂停，让引擎接着走
func (m *Manager) Resume(id string) (Snapshot, error) {
	return m.update(id, func(g *GameState) error {
		g.Paused = false
		m.maybeStartEngine(g)
		return nil
	})
}

func (m *Manager) PGN(id string) (string, error) {
	m.mu.RLock()
	g, ok := m.games[id]
	if !ok {
		m.mu.RUnlock()
		return "", ErrGameNotFound
	}
	start := g.StartFEN
	history := append([]chess.Move(nil), g.Pos.History...)
	m.mu.RUnlock()

	return PGN(start, history)
}

func (m *Manager) newStrategy() (engine.Strategy, error) {
	s, err := engine.NewStrategy(m.strategy, m.engineCfg, engine.WithLogger(m.log))
	if err != nil {
		return nil, err
	}
	// 只有确定性的搜索结果值得记下来
	if m.book != nil && s.Name() == engine.StrategyNegamax && !m.engineCfg.Shuffle {
		s = &bookedStrategy{inner: s, depth: m.engineCfg.MaxDepth, book: m.book, log: m.log}
	}
	return s, nil
}

// maybeStartEngine 轮到引擎且没有暂停时启动 worker。调用方持有 mu。
func (m *Manager) maybeStartEngine(g *GameState) {
	if g.worker != nil || g.Paused || g.Status.IsOver() || !g.engineToMove() {
		return
	}
	if g.strategy == nil {
		s, err := m.newStrategy()
		if err != nil {
			m.log.Errorw("create strategy", "game", g.ID, "err", err)
			return
		}
		g.strategy = s
	}
	g.worker = engine.StartWorker(context.Background(), g.strategy, g.Pos, g.Legal)
	m.log.Debugw("engine thinking", "game", g.ID, "side", g.Pos.SideToMove.String())
}

// pollWorker worker 结束后落子；没有结果时随机走一步。调用方持有 mu。
func (m *Manager) pollWorker(g *GameState) bool {
	w := g.worker
	if w == nil || w.Alive() {
		return false
	}
	g.worker = nil

	res, ok := w.Result()
	mv := res.Move
	legal, found := chess.FindMove(g.Legal, mv.From, mv.To)
	if !ok || res.Err != nil || !found {
		m.log.Warnw("engine produced no move, playing random", "game", g.ID, "err", res.Err)
		if mv, ok = engine.Fallback(m.rng, g.Legal); !ok {
			return false
		}
		legal = mv
	}

	promo := mv.PromoteTo
	if legal.Promotion && promo == chess.PieceNone {
		promo = chess.Queen
	}
	g.Pos.ApplyMove(legal, promo)
	g.refresh()
	last, _ := g.Pos.LastMove()
	m.log.Debugw("engine move", "game", g.ID, "move", last.String(), "status", g.Status.String())
	return true
}

// Tick 轮询所有对局一次
func (m *Manager) Tick() {
	var changed []Snapshot
	m.mu.Lock()
	for _, g := range m.games {
		if m.pollWorker(g) {
			changed = append(changed, g.snapshot())
		}
		m.maybeStartEngine(g)
	}
	m.mu.Unlock()

	for _, s := range changed {
		m.publish(s)
	}
}

// Run 按帧轮询直到 ctx 结束
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	defer m.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Close 停掉所有 worker 并断开订阅
func (m *Manager) Close() {
	m.mu.Lock()
	for _, g := range m.games {
		g.stopWorker()
	}
	m.mu.Unlock()

	m.subMu.Lock()
	for id, set := range m.subs {
		for ch := range set {
			close(ch)
		}
		delete(m.subs, id)
	}
	m.subMu.Unlock()
}

// Subscribe 订阅某局的快照；返回的函数取消订阅
func (m *Manager) Subscribe(id string) (<-chan Snapshot, func(), error) {
	if _, err := m.Get(id); err != nil {
		return nil, nil, err
	}
	ch := make(chan Snapshot, subscriberBuf)

	m.subMu.Lock()
	if m.subs[id] == nil {
		m.subs[id] = make(map[chan Snapshot]struct{})
	}
	m.subs[id][ch] = struct{}{}
	m.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			if set, ok := m.subs[id]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(m.subs, id)
				}
			}
		})
	}
	return ch, cancel, nil
}

// publish 订阅者太慢时丢弃
func (m *Manager) publish(s Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subs[s.ID] {
		select {
		case ch <- s:
		default:
			m.log.Debugw("subscriber lagging, snapshot dropped", "game", s.ID)
		}
	}
}
