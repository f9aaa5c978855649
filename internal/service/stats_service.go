package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type StatsService struct {
	StatsRepo *repository.StatsRepository
}

func NewStatsService(statsRepo *repository.StatsRepository) *StatsService {
	return &StatsService{StatsRepo: statsRepo}
}

// Overview 并发统计各表行数，任一查询失败则整体失败
func (s *StatsService) Overview(ctx context.Context) (map[string]int64, error) {
	tables := map[string]interface{}{
		"users":              &model.User{},
		"teachers":           &model.Teacher{},
		"courses":            &model.Course{},
		"events":             &model.Event{},
		"attendanceSessions": &model.AttendanceSession{},
		"attendanceRecords":  &model.AttendanceRecord{},
		"challenges":         &model.Challenge{},
		"submissions":        &model.Submission{},
	}

	var mu sync.Mutex
	result := make(map[string]int64, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	for name, value := range tables {
		name, value := name, value
		g.Go(func() error {
			n, err := s.StatsRepo.Count(gctx, value)
			if err != nil {
				return err
			}
			mu.Lock()
			result[name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
