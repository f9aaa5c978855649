// Package ratelimit 实现考勤写入接口前的固定窗口计数限流。
//
// 窗口边界两侧的突发请求在短时间内最多可放行 2×limit 次。
// 计数状态放在可替换的 Store 中，单实例用 MemoryStore，多实例部署用 RedisStore 共享计数。
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"
)

// Entry 单个 key 的窗口状态
type Entry struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// UpdateFunc 接收当前条目（ok=false 表示该 key 从未出现），返回新条目以及是否写回
type UpdateFunc func(cur Entry, ok bool) (next Entry, write bool)

// Store 对单个 key 做原子的读-改-写，返回最终保存的条目
type Store interface {
	Update(ctx context.Context, key string, fn UpdateFunc) (Entry, error)
}

// Decision 一次限流判断的结果
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

func (d Decision) Remaining() int {
	if d.Count >= d.Limit {
		return 0
	}
	return d.Limit - d.Count
}

type FixedWindow struct {
	store  Store
	limit  atomic.Int64
	window atomic.Int64
	now    func() time.Time
}

type Option func(*FixedWindow)

// WithClock 替换时间源，测试用
func WithClock(now func() time.Time) Option {
	return func(g *FixedWindow) {
		g.now = now
	}
}

func NewFixedWindow(store Store, limit int, window time.Duration, opts ...Option) *FixedWindow {
	g := &FixedWindow{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.SetLimits(limit, window)
	return g
}

// SetLimits 热更新配额，已有条目按新配额继续计算
func (g *FixedWindow) SetLimits(limit int, window time.Duration) {
	g.limit.Store(int64(limit))
	g.window.Store(int64(window))
	if r, ok := g.store.(interface{ SetRetention(time.Duration) }); ok {
		r.SetRetention(2 * window)
	}
}

func (g *FixedWindow) Limits() (int, time.Duration) {
	return int(g.limit.Load()), time.Duration(g.window.Load())
}

// Allow 记录一次 key 的请求并返回是否放行。拒绝时不修改状态。
func (g *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	limit, window := g.Limits()
	now := g.now()
	allowed := false

	entry, err := g.store.Update(ctx, key, func(cur Entry, ok bool) (Entry, bool) {
		switch {
		case !ok, now.Sub(cur.Timestamp) > window:
			allowed = true
			return Entry{Count: 1, Timestamp: now}, true
		case cur.Count >= limit:
			allowed = false
			return cur, false
		default:
			allowed = true
			return Entry{Count: cur.Count + 1, Timestamp: cur.Timestamp}, true
		}
	})
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Allowed: allowed,
		Count:   entry.Count,
		Limit:   limit,
		ResetAt: entry.Timestamp.Add(window),
	}, nil
}
