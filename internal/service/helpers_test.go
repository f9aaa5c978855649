package service

import (
	"sync"
	"testing"

	"campus_club_backend/internal/model"
	"campus_club_backend/internal/util"
	"campus_club_backend/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
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

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func claims(id uint, role model.UserRole) *util.Claims {
	return &util.Claims{UserID: id, Name: "user", Role: role}
}

type recordedMessage struct {
	SessionID uint
	Msg       WSMessage
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (p *fakePublisher) Publish(sessionID uint, msg WSMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, recordedMessage{SessionID: sessionID, Msg: msg})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.Msg.Type)
	}
	return out
}
