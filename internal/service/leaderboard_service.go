package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/pkg/logger"
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardKey = "leaderboard:scores"

// LeaderboardService 数据库为准，Redis 有序集合做排行缓存
type LeaderboardService struct {
	Repo  *repository.LeaderboardRepository
	Redis *redis.Client
}

func NewLeaderboardService(repo *repository.LeaderboardRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{Repo: repo, Redis: rdb}
}

// Record 累加用户总分，scoreDelta 与 solvedDelta 都为 0 时不做任何事
func (s *LeaderboardService) Record(ctx context.Context, userID uint, userName string, scoreDelta, solvedDelta int) error {
	if scoreDelta == 0 && solvedDelta == 0 {
		return nil
	}
	entry, err := s.Repo.ApplyDelta(userID, userName, scoreDelta, solvedDelta)
	if err != nil {
		return err
	}

	if s.Redis != nil {
		err := s.Redis.ZAdd(ctx, leaderboardKey, &redis.Z{
			Score:  float64(entry.TotalScore),
			Member: strconv.FormatUint(uint64(userID), 10),
		}).Err()
		if err != nil {
			logger.Log.Warn("Failed to update leaderboard cache", zap.Uint("userId", userID), zap.Error(err))
		}
	}
	return nil
}

// Top Redis 不可用或为空时回退到数据库
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if s.Redis != nil {
		entries, err := s.topFromCache(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			logger.Log.Warn("Leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, err := s.Repo.Top(limit)
	if err != nil {
		return nil, err
	}
	assignRanks(entries)
	return entries, nil
}

func (s *LeaderboardService) topFromCache(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	members, err := s.Redis.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil || len(members) == 0 {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	rows, err := s.Repo.FindByUserIDs(ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint]model.LeaderboardEntry, len(rows))
	for _, r := range rows {
		byUser[r.UserID] = r
	}

	entries := make([]model.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := byUser[id]; ok {
			entries = append(entries, e)
		}
	}
	assignRanks(entries)
	return entries, nil
}

// Rebuild 用数据库中的排行重建 Redis 缓存
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	entries, err := s.Repo.All()
	if err != nil {
		return err
	}

	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, leaderboardKey)
		for _, e := range entries {
			pipe.ZAdd(ctx, leaderboardKey, &redis.Z{
				Score:  float64(e.TotalScore),
				Member: strconv.FormatUint(uint64(e.UserID), 10),
			})
		}
		return nil
	})
	if err == nil {
		logger.Log.Info("Leaderboard cache rebuilt", zap.Int("entries", len(entries)))
	}
	return err
}

// assignRanks 同分同名次
func assignRanks(entries []model.LeaderboardEntry) {
	for i := range entries {
		if i > 0 && entries[i].TotalScore == entries[i-1].TotalScore {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
