package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix  = "ratelimit:ingest:"
	maxWatchRetries = 8
)

var ErrContention = errors.New("ratelimit: too much contention on key")

// RedisStore 多实例共享计数。读-改-写通过 WATCH/MULTI 乐观事务保证原子性。
// 过期时间只用于回收：过期的 key 必然早已超出窗口，视为未出现与重置等价。
type RedisStore struct {
	rdb       *redis.Client
	retention atomic.Int64
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	s := &RedisStore{rdb: rdb}
	s.retention.Store(int64(2 * time.Hour))
	return s
}

func (s *RedisStore) SetRetention(d time.Duration) {
	if d > 0 {
		s.retention.Store(int64(d))
	}
}

func (s *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) (Entry, error) {
	k := redisKeyPrefix + key
	var result Entry

	txf := func(tx *redis.Tx) error {
		var cur Entry
		ok := true
		raw, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			ok = false
		} else if err != nil {
			return err
		} else if err := json.Unmarshal(raw, &cur); err != nil {
			ok = false
		}

		next, write := fn(cur, ok)
		if !write {
			result = cur
			return nil
		}

		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, payload, time.Duration(s.retention.Load()))
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.rdb.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return Entry{}, err
	}
	return Entry{}, ErrContention
}
