package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ChallengeClock 记录用户开始作答某挑战的时间，记录不会过期
type ChallengeClock interface {
	// Start 首次调用时记录 now，之后返回最初的开始时间
	Start(ctx context.Context, userID uint, challengeID string, now time.Time) (time.Time, error)
	StartedAt(ctx context.Context, userID uint, challengeID string) (time.Time, bool, error)
}

type RedisChallengeClock struct {
	Redis *redis.Client
}

func NewRedisChallengeClock(rdb *redis.Client) *RedisChallengeClock {
	return &RedisChallengeClock{Redis: rdb}
}

func clockKey(userID uint, challengeID string) string {
	return fmt.Sprintf("challenge:start:%s:%d", challengeID, userID)
}

func (c *RedisChallengeClock) Start(ctx context.Context, userID uint, challengeID string, now time.Time) (time.Time, error) {
	key := clockKey(userID, challengeID)
	ok, err := c.Redis.SetNX(ctx, key, now.UnixMilli(), 0).Result()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return now, nil
	}

	startedAt, found, err := c.StartedAt(ctx, userID, challengeID)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		// SetNX 与 Get 之间被删除
		return c.Start(ctx, userID, challengeID, now)
	}
	return startedAt, nil
}

func (c *RedisChallengeClock) StartedAt(ctx context.Context, userID uint, challengeID string) (time.Time, bool, error) {
	val, err := c.Redis.Get(ctx, clockKey(userID, challengeID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}
