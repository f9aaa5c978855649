package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore 进程内计数。多实例部署时每个进程各自计数，不提供整体保护。
// 不再访问的地址由 Prune 按保留时长清理。
type MemoryStore struct {
	entries   *xsync.MapOf[string, Entry]
	retention atomic.Int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: xsync.NewMapOf[string, Entry]()}
}

func (s *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) (Entry, error) {
	actual, _ := s.entries.Compute(key, func(old Entry, loaded bool) (Entry, bool) {
		next, write := fn(old, loaded)
		if !write {
			return old, !loaded
		}
		return next, false
	})
	return actual, nil
}

func (s *MemoryStore) Get(key string) (Entry, bool) {
	return s.entries.Load(key)
}

func (s *MemoryStore) Len() int {
	return s.entries.Size()
}

// SetRetention 0 表示永不清理
func (s *MemoryStore) SetRetention(d time.Duration) {
	s.retention.Store(int64(d))
}

// Prune 删除窗口开始时间早于 now-retention 的条目，返回删除条数
func (s *MemoryStore) Prune(now time.Time) int {
	retention := time.Duration(s.retention.Load())
	if retention <= 0 {
		return 0
	}
	cutoff := now.Add(-retention)

	removed := 0
	s.entries.Range(func(key string, e Entry) bool {
		if !e.Timestamp.Before(cutoff) {
			return true
		}
		// 遍历期间可能已被重新计数，删除前再检查一次
		s.entries.Compute(key, func(cur Entry, loaded bool) (Entry, bool) {
			if loaded && cur.Timestamp.Before(cutoff) {
				removed++
				return cur, true
			}
			return cur, !loaded
		})
		return true
	})
	return removed
}

// RunJanitor 每隔 interval 执行一次 Prune，ctx 取消后返回
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Prune(now)
		}
	}
}
