package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"campus_club_backend/internal/judge"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// stubGrader 按预设的通过数生成结果，记录调用次数
type stubGrader struct {
	passed int32
	calls  int32
	ctxErr error
}

func (g *stubGrader) Grade(ctx context.Context, c *model.Challenge, code string) (model.SubmissionResult, error) {
	atomic.AddInt32(&g.calls, 1)
	g.ctxErr = ctx.Err()
	cases := c.Cases()
	details := make([]model.TestCaseOutcome, len(cases))
	for i := range details {
		details[i] = model.TestCaseOutcome{TestCase: i, Passed: i < int(atomic.LoadInt32(&g.passed))}
	}
	return judge.Aggregate(c.Points, details), nil
}

type submissionFixture struct {
	svc       *SubmissionService
	grader    *stubGrader
	challenge *model.Challenge
	lb        *LeaderboardService
	settings  *SettingService
	redis     *miniredis.Miniredis
	now       time.Time
}

func newSubmissionFixture(t *testing.T, maxAttempts *int) *submissionFixture {
	db := newTestDB(t)
	rdb, mr := newTestRedis(t)

	challengeRepo := repository.NewChallengeRepository(db)
	challenge := &model.Challenge{
		Title:        "Sum",
		FunctionName: "sum",
		Points:       100,
		TimeLimit:    30,
		MaxAttempts:  maxAttempts,
		Published:    true,
		TestCases: datatypes.NewJSONType([]model.TestCase{
			{Input: []byte(`[1,2]`), Expected: []byte(`3`)},
			{Input: []byte(`[2,2]`), Expected: []byte(`4`)},
			{Input: []byte(`[0,0]`), Expected: []byte(`0`)},
		}),
	}
	require.NoError(t, challengeRepo.Create(challenge))

	grader := &stubGrader{}
	lb := NewLeaderboardService(repository.NewLeaderboardRepository(db), rdb)
	settings := NewSettingService(repository.NewSettingRepository(db))
	svc := NewSubmissionService(
		NewChallengeService(challengeRepo),
		repository.NewSubmissionRepository(db),
		grader,
		NewRedisChallengeClock(rdb),
		lb,
		settings,
	)

	f := &submissionFixture{svc: svc, grader: grader, challenge: challenge, lb: lb, settings: settings, redis: mr, now: time.Now()}
	svc.now = func() time.Time { return f.now }
	return f
}

func TestSubmissionService_AttemptCap(t *testing.T) {
	limit := 2
	f := newSubmissionFixture(t, &limit)
	user := claims(5, model.RoleStudent)

	out, err := f.svc.Submit(context.Background(), user, f.challenge.ID, "function sum(a,b){return a+b}")
	require.NoError(t, err)
	require.NotNil(t, out.Attempts.Remaining)
	assert.Equal(t, 1, *out.Attempts.Remaining)

	out, err = f.svc.Submit(context.Background(), user, f.challenge.ID, "function sum(a,b){return a+b}")
	require.NoError(t, err)
	assert.Equal(t, 0, *out.Attempts.Remaining)
	assert.False(t, out.Attempts.Allowed)

	_, err = f.svc.Submit(context.Background(), user, f.challenge.ID, "function sum(a,b){return a+b}")
	assert.ErrorIs(t, err, util.ErrAttemptsUsedUp)
	assert.Equal(t, int32(2), f.grader.calls)

	mine, err := f.svc.Mine(context.Background(), user, f.challenge.ID)
	require.NoError(t, err)
	assert.Len(t, mine.Submissions, 2)
	assert.False(t, mine.Attempts.Allowed)
	assert.NotNil(t, mine.StartedAt)
}

func TestSubmissionService_GradesDetachedFromRequestContext(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	f.grader.passed = 3

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.svc.Submit(ctx, claims(5, model.RoleStudent), f.challenge.ID, "code")
	require.NoError(t, err)
	assert.NoError(t, f.grader.ctxErr)
	assert.Equal(t, 100, out.Submission.Score)
	assert.True(t, out.Submission.Solved)
	assert.True(t, out.Attempts.Unlimited)
}

func TestSubmissionService_TimeLimit(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	f.grader.passed = 3
	user := claims(5, model.RoleStudent)

	start, err := f.svc.Start(context.Background(), user, f.challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, start.Deadline.Sub(start.StartedAt))

	// 重复开始不会重置时间
	f.now = f.now.Add(10 * time.Minute)
	again, err := f.svc.Start(context.Background(), user, f.challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, start.StartedAt.UnixMilli(), again.StartedAt.UnixMilli())

	f.now = start.StartedAt.Add(31 * time.Minute)
	out, err := f.svc.Submit(context.Background(), user, f.challenge.ID, "code")
	require.NoError(t, err)
	assert.True(t, out.Submission.TimedOut)
	assert.Zero(t, out.Submission.Score)
	assert.Equal(t, int32(0), f.grader.calls)

	result := out.Submission.Results.Data()
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, judge.ErrMsgTimeLimit, result.Details[0].Error)
}

func TestSubmissionService_TimeLimitCannotBeRestarted(t *testing.T) {
	tests := []struct {
		name  string
		reset func(f *submissionFixture)
	}{
		{"a day later", func(f *submissionFixture) { f.redis.FastForward(25 * time.Hour) }},
		{"redis flushed", func(f *submissionFixture) { f.redis.FlushAll() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture(t, nil)
			f.grader.passed = 3
			user := claims(5, model.RoleStudent)

			start, err := f.svc.Start(context.Background(), user, f.challenge.ID)
			require.NoError(t, err)

			f.now = start.StartedAt.Add(31 * time.Minute)
			out, err := f.svc.Submit(context.Background(), user, f.challenge.ID, "code")
			require.NoError(t, err)
			require.True(t, out.Submission.TimedOut)

			tt.reset(f)
			f.now = f.now.Add(25 * time.Hour)

			out, err = f.svc.Submit(context.Background(), user, f.challenge.ID, "code")
			require.NoError(t, err)
			assert.True(t, out.Submission.TimedOut)
			assert.Zero(t, out.Submission.Score)
			assert.Equal(t, int32(0), f.grader.calls)

			again, err := f.svc.Start(context.Background(), user, f.challenge.ID)
			require.NoError(t, err)
			assert.False(t, again.Deadline.After(f.now))
		})
	}
}

func TestSubmissionService_LeaderboardCountsBestScoreOnly(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	user := claims(5, model.RoleStudent)
	ctx := context.Background()

	f.grader.passed = 2
	_, err := f.svc.Submit(ctx, user, f.challenge.ID, "v1")
	require.NoError(t, err)

	f.grader.passed = 1
	_, err = f.svc.Submit(ctx, user, f.challenge.ID, "v2")
	require.NoError(t, err)

	top, err := f.lb.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 67, top[0].TotalScore)
	assert.Zero(t, top[0].SolvedCount)

	f.grader.passed = 3
	_, err = f.svc.Submit(ctx, user, f.challenge.ID, "v3")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, user, f.challenge.ID, "v4")
	require.NoError(t, err)

	top, err = f.lb.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, top[0].TotalScore)
	assert.Equal(t, 1, top[0].SolvedCount)
	assert.Equal(t, 1, top[0].Rank)
}

func TestSubmissionService_Rejections(t *testing.T) {
	f := newSubmissionFixture(t, nil)
	user := claims(5, model.RoleStudent)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, user, f.challenge.ID, "   ")
	assert.ErrorIs(t, err, util.ErrEmptyCode)

	_, err = f.svc.Submit(ctx, user, "missing", "code")
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = f.settings.Set(model.SettingArenaEnabled, []byte(`false`), 1)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, user, f.challenge.ID, "code")
	assert.ErrorIs(t, err, util.ErrArenaDisabled)

	// 管理员不受开关限制
	_, err = f.svc.Submit(ctx, claims(1, model.RoleAdmin), f.challenge.ID, "code")
	assert.NoError(t, err)
}
