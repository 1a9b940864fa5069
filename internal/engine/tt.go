package engine

// Bound 置换表条目的分数类型
type Bound int8

const (
	Exact Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	}
	return "unknown"
}

const ttMaxEntries = 1_000_000

type ttEntry struct {
	Depth int
	Value int
	Bound Bound
}

// Cache 局面指纹 -> 搜索结果。只在一个搜索 goroutine 里用，不加锁。
type Cache struct {
	entries map[uint64]ttEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]ttEntry, 1<<14)}
}

func (c *Cache) Len() int { return len(c.entries) }

func (c *Cache) Reset() {
	c.entries = make(map[uint64]ttEntry, 1<<14)
}

// Store 直接覆盖旧条目，不合并
func (c *Cache) Store(key uint64, depth, value int, bound Bound) {
	if len(c.entries) > ttMaxEntries {
		c.Reset()
	}
	c.entries[key] = ttEntry{Depth: depth, Value: value, Bound: bound}
}

// Lookup 存的深度不小于 depth 才能用：Exact 直接返回；
// 下界抬 alpha、上界压 beta，窗口闭合时返回存的分数。
// 调整后的窗口不带回搜索。
func (c *Cache) Lookup(key uint64, depth, alpha, beta int) (int, bool) {
	e, ok := c.entries[key]
	if !ok || e.Depth < depth {
		return 0, false
	}
	switch e.Bound {
	case Exact:
		return e.Value, true
	case LowerBound:
		if e.Value > alpha {
			alpha = e.Value
		}
	case UpperBound:
		if e.Value < beta {
			beta = e.Value
		}
	}
	if alpha >= beta {
		return e.Value, true
	}
	return 0, false
}

// classifyBound 以更新后的 alpha 判定：截断记 Exact，否则 best > alpha 记下界，再否则上界
func classifyBound(best, alpha, beta int) Bound {
	switch {
	case alpha >= beta:
		return Exact
	case best > alpha:
		return LowerBound
	}
	return UpperBound
}
