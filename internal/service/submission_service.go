package service

import (
	"campus_club_backend/internal/judge"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"campus_club_backend/pkg/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Grader 由 judge.Grader 实现
type Grader interface {
	Grade(ctx context.Context, challenge *model.Challenge, code string) (model.SubmissionResult, error)
}

type StartResult struct {
	StartedAt time.Time `json:"startedAt"`
	Deadline  time.Time `json:"deadline"`
}

type SubmissionOutcome struct {
	Submission *model.Submission   `json:"submission"`
	Attempts   judge.AttemptStatus `json:"attempts"`
}

type MySubmissions struct {
	Attempts    judge.AttemptStatus `json:"attempts"`
	StartedAt   *time.Time          `json:"startedAt,omitempty"`
	Submissions []model.Submission  `json:"submissions"`
}

type SubmissionService struct {
	Challenges     *ChallengeService
	SubmissionRepo *repository.SubmissionRepository
	Grader         Grader
	Clock          ChallengeClock
	Leaderboard    *LeaderboardService
	Settings       *SettingService
	now            func() time.Time
}

func NewSubmissionService(
	challenges *ChallengeService,
	submissionRepo *repository.SubmissionRepository,
	grader Grader,
	clock ChallengeClock,
	leaderboard *LeaderboardService,
	settings *SettingService,
) *SubmissionService {
	return &SubmissionService{
		Challenges:     challenges,
		SubmissionRepo: submissionRepo,
		Grader:         grader,
		Clock:          clock,
		Leaderboard:    leaderboard,
		Settings:       settings,
		now:            time.Now,
	}
}

func (s *SubmissionService) arenaOpen(user *util.Claims) bool {
	if user.IsAdmin() || s.Settings == nil {
		return true
	}
	return s.Settings.Bool(model.SettingArenaEnabled, true)
}

// Start 开始计时，重复调用返回第一次的开始时间
func (s *SubmissionService) Start(ctx context.Context, user *util.Claims, challengeID string) (*StartResult, error) {
	if !s.arenaOpen(user) {
		return nil, util.ErrArenaDisabled
	}
	challenge, err := s.Challenges.Find(user, challengeID)
	if err != nil {
		return nil, err
	}

	limit := time.Duration(challenge.TimeLimit) * time.Minute
	startedAt, err := s.startClock(ctx, user.UserID, challenge.ID, s.now())
	if err != nil {
		return nil, err
	}
	return &StartResult{StartedAt: startedAt, Deadline: startedAt.Add(limit)}, nil
}

// Submit 检查次数、评测、保存并更新排行榜。
// 次数检查与写入之间没有锁，并发提交可能都通过检查。
func (s *SubmissionService) Submit(ctx context.Context, user *util.Claims, challengeID, code string) (*SubmissionOutcome, error) {
	if strings.TrimSpace(code) == "" {
		return nil, util.ErrEmptyCode
	}
	if !s.arenaOpen(user) {
		return nil, util.ErrArenaDisabled
	}

	challenge, err := s.Challenges.Find(user, challengeID)
	if err != nil {
		return nil, err
	}

	used, err := s.SubmissionRepo.CountByUserAndChallenge(user.UserID, challenge.ID)
	if err != nil {
		return nil, err
	}
	status := judge.CheckAttempts(challenge.MaxAttempts, int(used))
	if !status.Allowed {
		return nil, util.ErrAttemptsUsedUp
	}

	prevBest, prevSolved, err := s.SubmissionRepo.BestSoFar(user.UserID, challenge.ID)
	if err != nil {
		return nil, err
	}

	// 客户端断开后评测仍然完成并保存
	gradeCtx := context.WithoutCancel(ctx)

	now := s.now()
	timedOut, err := s.pastDeadline(gradeCtx, user.UserID, challenge, now)
	if err != nil {
		return nil, err
	}

	var result model.SubmissionResult
	if timedOut {
		result = judge.TimedOut(challenge)
	} else {
		result, err = s.Grader.Grade(gradeCtx, challenge, code)
		if err != nil {
			return nil, fmt.Errorf("grade challenge %s: %w", challenge.ID, err)
		}
	}

	submission := &model.Submission{
		UserID:      user.UserID,
		ChallengeID: challenge.ID,
		Code:        code,
		Results:     datatypes.NewJSONType(result),
		Score:       result.Score,
		Solved:      result.Total > 0 && result.Passed == result.Total,
		TimedOut:    timedOut,
	}
	submission.CreatedAt = now
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	logger.WithContext(gradeCtx).Info("Submission graded",
		zap.String("challengeId", challenge.ID),
		zap.Uint("userId", user.UserID),
		zap.Int("passed", result.Passed),
		zap.Int("total", result.Total),
		zap.Int("score", result.Score),
		zap.Bool("timedOut", timedOut),
	)

	s.updateLeaderboard(gradeCtx, user, submission, prevBest, prevSolved)

	return &SubmissionOutcome{
		Submission: submission,
		Attempts:   judge.CheckAttempts(challenge.MaxAttempts, int(used)+1),
	}, nil
}

// startClock 开始时间不晚于最早一次提交，Redis 记录丢失后按提交记录恢复
func (s *SubmissionService) startClock(ctx context.Context, userID uint, challengeID string, now time.Time) (time.Time, error) {
	first, found, err := s.SubmissionRepo.FirstSubmittedAt(userID, challengeID)
	if err != nil {
		return time.Time{}, err
	}
	candidate := now
	if found && first.Before(now) {
		candidate = first
	}
	startedAt, err := s.Clock.Start(ctx, userID, challengeID, candidate)
	if err != nil {
		return time.Time{}, err
	}
	if found && first.Before(startedAt) {
		startedAt = first
	}
	return startedAt, nil
}

// pastDeadline 没有开始记录时以本次提交为开始时间
func (s *SubmissionService) pastDeadline(ctx context.Context, userID uint, challenge *model.Challenge, now time.Time) (bool, error) {
	limit := time.Duration(challenge.TimeLimit) * time.Minute
	startedAt, err := s.startClock(ctx, userID, challenge.ID, now)
	if err != nil {
		return false, err
	}
	return now.Sub(startedAt) > limit, nil
}

func (s *SubmissionService) updateLeaderboard(ctx context.Context, user *util.Claims, sub *model.Submission, prevBest int, prevSolved bool) {
	if s.Leaderboard == nil {
		return
	}
	scoreDelta := 0
	if sub.Score > prevBest {
		scoreDelta = sub.Score - prevBest
	}
	solvedDelta := 0
	if sub.Solved && !prevSolved {
		solvedDelta = 1
	}
	if err := s.Leaderboard.Record(ctx, user.UserID, user.Name, scoreDelta, solvedDelta); err != nil {
		logger.WithContext(ctx).Error("Failed to update leaderboard",
			zap.Uint("userId", user.UserID),
			zap.String("submissionId", sub.ID),
			zap.Error(err),
		)
	}
}

func (s *SubmissionService) Mine(ctx context.Context, user *util.Claims, challengeID string) (*MySubmissions, error) {
	challenge, err := s.Challenges.Find(user, challengeID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.SubmissionRepo.ListByUserAndChallenge(user.UserID, challenge.ID)
	if err != nil {
		return nil, err
	}

	mine := &MySubmissions{
		Attempts:    judge.CheckAttempts(challenge.MaxAttempts, len(submissions)),
		Submissions: submissions,
	}
	if startedAt, ok, err := s.Clock.StartedAt(ctx, user.UserID, challenge.ID); err == nil && ok {
		mine.StartedAt = &startedAt
	}
	return mine, nil
}

func (s *SubmissionService) ListForChallenge(challengeID string, limit int) ([]model.Submission, error) {
	return s.SubmissionRepo.ListByChallenge(challengeID, limit)
}
