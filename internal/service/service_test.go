package service

import (
	"context"
	"testing"
	"time"

	"campus_club_backend/internal/config"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterLoginAndSeed(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Admin: config.AdminConfig{Email: "Admin@Club.test", Password: "changeme123"},
	}
	svc := NewAuthService(repository.NewUserRepository(db), cfg)

	user, err := svc.Register("Ana", "Ana@Club.test", "password1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, "ana@club.test", user.Email)

	_, err = svc.Register("Ana", "ana@club.test", "password2")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, _, err = svc.Login("ana@club.test", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = svc.Login("nobody@club.test", "password1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	token, logged, err := svc.Login("ANA@club.test", "password1")
	require.NoError(t, err)
	assert.False(t, logged.LastLogin.IsZero())

	parsed, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed.UserID)

	require.NoError(t, svc.EnsureAdmin())
	require.NoError(t, svc.EnsureAdmin())
	token, admin, err := svc.Login("admin@club.test", "changeme123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleAdmin, admin.Role)
}

func TestTeacherAndCourseSlugs(t *testing.T) {
	db := newTestDB(t)
	teachers := NewTeacherService(repository.NewTeacherRepository(db))
	courses := NewCourseService(repository.NewCourseRepository(db), repository.NewTeacherRepository(db))

	a, err := teachers.Create(TeacherInput{Name: "Ada Lovelace"})
	require.NoError(t, err)
	b, err := teachers.Create(TeacherInput{Name: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "ada-lovelace", a.Slug)
	assert.Equal(t, "ada-lovelace-2", b.Slug)

	renamed, err := teachers.Update(b.ID, TeacherInput{Name: "Ada Byron"})
	require.NoError(t, err)
	assert.Equal(t, "ada-byron", renamed.Slug)

	inactive := false
	course, err := courses.Create(CourseInput{Title: "Intro to Circuits", TeacherID: &a.ID, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "intro-to-circuits", course.Slug)
	assert.False(t, course.Active)
	require.NotNil(t, course.Teacher)
	assert.Equal(t, "Ada Lovelace", course.Teacher.Name)

	missing := uint(999)
	_, err = courses.Create(CourseInput{Title: "Ghost", TeacherID: &missing})
	assert.ErrorIs(t, err, util.ErrUnknownTeacher)

	_, err = teachers.Get(12345)
	assert.ErrorIs(t, err, util.ErrNotFound)

	bySlug, err := teachers.GetByRef("ada-byron")
	require.NoError(t, err)
	assert.Equal(t, b.ID, bySlug.ID)
	_, err = teachers.GetByRef("nobody")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestEventService_TimeRangeAndDrafts(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()}}
	svc := NewEventService(repository.NewEventRepository(db), NewStorageService(context.Background(), cfg))

	start := time.Now().Add(24 * time.Hour)
	before := start.Add(-time.Hour)
	_, err := svc.Create(EventInput{Title: "Fair", StartsAt: start, EndsAt: &before}, 1)
	assert.ErrorIs(t, err, util.ErrInvalidTimeRange)

	draft, err := svc.Create(EventInput{Title: "Fair", StartsAt: start}, 1)
	require.NoError(t, err)

	_, err = svc.Get(draft.ID, false)
	assert.ErrorIs(t, err, util.ErrNotFound)
	got, err := svc.Get(draft.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "fair", got.Slug)
}

func TestSettingService(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(repository.NewSettingRepository(db))

	all, err := svc.All()
	require.NoError(t, err)
	assert.Contains(t, all, model.SettingArenaEnabled)
	assert.True(t, svc.Bool(model.SettingArenaEnabled, false))

	_, err = svc.Set("motd", []byte(`{not json`), 1)
	assert.ErrorIs(t, err, util.ErrInvalidSetting)

	setting, err := svc.Set("motd", []byte(`{"text":"hi"}`), 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(setting.Value))

	require.NoError(t, svc.Delete("motd"))
	assert.ErrorIs(t, svc.Delete("motd"), util.ErrNotFound)
	assert.True(t, svc.Bool("motd", true))
}

func TestStatsService_Overview(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(&model.User{Name: "A", Email: "a@x.test", Password: "x"}))
	require.NoError(t, users.Create(&model.User{Name: "B", Email: "b@x.test", Password: "x"}))

	svc := NewStatsService(repository.NewStatsRepository(db))
	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["users"])
	assert.Equal(t, int64(0), stats["submissions"])
	assert.Len(t, stats, 8)
}

func TestLeaderboardService_FallbackAndRebuild(t *testing.T) {
	db := newTestDB(t)
	rdb, mr := newTestRedis(t)
	repo := repository.NewLeaderboardRepository(db)
	svc := NewLeaderboardService(repo, rdb)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, 1, "Ana", 50, 0))
	require.NoError(t, svc.Record(ctx, 2, "Ben", 50, 1))
	require.NoError(t, svc.Record(ctx, 3, "Cy", 80, 1))

	top, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, uint(3), top[0].UserID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 2, top[1].Rank)
	assert.Equal(t, 2, top[2].Rank)

	// 缓存丢失后从数据库读取，再重建
	mr.FlushAll()
	top, err = svc.Top(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	require.NoError(t, svc.Rebuild(ctx))
	members, err := rdb.ZCard(ctx, leaderboardKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), members)
}
