package repository_test

import (
	"testing"
	"time"

	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestAttendanceRepository_Records(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewAttendanceRepository(db)

	session := &model.AttendanceSession{Title: "Robotics", Date: time.Now(), CreatedBy: 1}
	require.NoError(t, repo.CreateSession(session))

	created, err := repo.CreateRecords([]model.AttendanceRecord{
		{SessionID: session.ID, StudentID: "s1", StudentName: "Ana", Status: model.StatusPresent},
		{SessionID: session.ID, StudentID: "s2", StudentName: "Ben", Status: model.StatusLate},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	// 重复的学生被跳过
	created, err = repo.CreateRecords([]model.AttendanceRecord{
		{SessionID: session.ID, StudentID: "s2", StudentName: "Ben", Status: model.StatusAbsent},
		{SessionID: session.ID, StudentID: "s3", StudentName: "Cy", Status: model.StatusPresent},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)

	counts, err := repo.CountByStatus(session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.StatusPresent])
	assert.Equal(t, int64(1), counts[model.StatusLate])
	assert.Zero(t, counts[model.StatusAbsent])

	records, err := repo.ListRecords(session.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Ana", records[0].StudentName)

	// 删除后可以重新登记
	require.NoError(t, repo.DeleteRecord(records[1].ID))
	created, err = repo.CreateRecords([]model.AttendanceRecord{
		{SessionID: session.ID, StudentID: records[1].StudentID, StudentName: "Ben", Status: model.StatusExcused},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)

	ids, err := repo.StudentIDs(session.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, ids)
}

func TestAttendanceRepository_DeleteSessionRemovesRecords(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewAttendanceRepository(db)

	session := &model.AttendanceSession{Title: "Chess", Date: time.Now(), CreatedBy: 7}
	require.NoError(t, repo.CreateSession(session))
	_, err := repo.CreateRecords([]model.AttendanceRecord{
		{SessionID: session.ID, StudentID: "s1", StudentName: "Ana", Status: model.StatusPresent},
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSession(session.ID))

	_, err = repo.FindSession(session.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	records, err := repo.ListRecords(session.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmissionRepository_BestSoFar(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSubmissionRepository(db)

	best, solved, err := repo.BestSoFar(1, "c-1")
	require.NoError(t, err)
	assert.Zero(t, best)
	assert.False(t, solved)

	for _, s := range []model.Submission{
		{UserID: 1, ChallengeID: "c-1", Code: "a", Score: 40},
		{UserID: 1, ChallengeID: "c-1", Code: "b", Score: 70},
		{UserID: 1, ChallengeID: "c-2", Code: "c", Score: 100, Solved: true},
		{UserID: 2, ChallengeID: "c-1", Code: "d", Score: 100, Solved: true},
	} {
		s := s
		s.Results = datatypes.NewJSONType(model.SubmissionResult{Score: s.Score})
		require.NoError(t, repo.Create(&s))
	}

	best, solved, err = repo.BestSoFar(1, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 70, best)
	assert.False(t, solved)

	count, err := repo.CountByUserAndChallenge(1, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := repo.ListByChallenge("c-1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestLeaderboardRepository_ApplyDelta(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewLeaderboardRepository(db)

	entry, err := repo.ApplyDelta(1, "Ana", 40, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, entry.TotalScore)

	entry, err = repo.ApplyDelta(1, "Ana", 60, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, entry.TotalScore)
	assert.Equal(t, 1, entry.SolvedCount)

	_, err = repo.ApplyDelta(2, "Ben", 150, 2)
	require.NoError(t, err)

	top, err := repo.Top(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].UserID)
	assert.Equal(t, uint(1), top[1].UserID)
}

func TestSettingRepository_UpsertAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSettingRepository(db)

	// 迁移时写入的默认值
	title, err := repo.FindByKey(model.SettingSiteTitle)
	require.NoError(t, err)
	assert.JSONEq(t, `"Campus Club"`, string(title.Value))

	require.NoError(t, repo.Upsert(&model.AppSetting{Key: model.SettingSiteTitle, Value: datatypes.JSON(`"Maker Club"`), UpdatedBy: 3}))
	title, err = repo.FindByKey(model.SettingSiteTitle)
	require.NoError(t, err)
	assert.JSONEq(t, `"Maker Club"`, string(title.Value))
	assert.Equal(t, uint(3), title.UpdatedBy)

	deleted, err := repo.Delete(model.SettingSiteTitle)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(model.SettingSiteTitle)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, repo.Upsert(&model.AppSetting{Key: model.SettingSiteTitle, Value: datatypes.JSON(`"Again"`)}))
}

func TestTeacherRepository_SlugTakenIncludesDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTeacherRepository(db)

	teacher := &model.Teacher{Name: "Grace Hopper", Slug: "grace-hopper"}
	require.NoError(t, repo.Create(teacher))

	taken, err := repo.SlugTaken("grace-hopper", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugTaken("grace-hopper", teacher.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, repo.Delete(teacher.ID))
	taken, err = repo.SlugTaken("grace-hopper", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestEventRepository_ListPublishedUpcomingFirst(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEventRepository(db)
	now := time.Now()

	for _, e := range []model.Event{
		{Title: "Past", Slug: "past", StartsAt: now.Add(-48 * time.Hour), Published: true},
		{Title: "Soon", Slug: "soon", StartsAt: now.Add(24 * time.Hour), Published: true},
		{Title: "Later", Slug: "later", StartsAt: now.Add(72 * time.Hour), Published: true},
		{Title: "Draft", Slug: "draft", StartsAt: now.Add(time.Hour)},
	} {
		e := e
		require.NoError(t, repo.Create(&e))
	}

	events, err := repo.ListPublished(now)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Soon", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
	assert.Equal(t, "Past", events[2].Title)
}
