package service

import (
	"testing"
	"time"

	"campus_club_backend/internal/config"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_PromoteAndDisable(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	auth := NewAuthService(repo, &config.Config{JWT: config.JWTConfig{Secret: "s", ExpireTime: time.Hour}})
	users := NewUserService(repo)

	ana, err := auth.Register("Ana", "ana@club.test", "password1")
	require.NoError(t, err)
	_, err = auth.Register("Bo", "bo@club.test", "password1")
	require.NoError(t, err)

	admin := claims(999, model.RoleAdmin)
	teacher := model.RoleTeacher
	updated, err := users.Update(admin, ana.ID, UserUpdate{Role: &teacher})
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, updated.Role)

	page, err := users.List(repository.UserFilter{Role: model.RoleTeacher}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ana@club.test", page.Items[0].Email)
	assert.Equal(t, int64(1), page.Pages)

	page, err = users.List(repository.UserFilter{Search: "bo@"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	disabled := true
	_, err = users.Update(admin, ana.ID, UserUpdate{Disabled: &disabled})
	require.NoError(t, err)
	_, _, err = auth.Login("ana@club.test", "password1")
	assert.ErrorIs(t, err, util.ErrAccountDisabled)

	bogus := model.UserRole("root")
	_, err = users.Update(admin, ana.ID, UserUpdate{Role: &bogus})
	assert.ErrorIs(t, err, util.ErrInvalidRole)

	_, err = users.Update(admin, 12345, UserUpdate{Role: &teacher})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUserService_SelfLockout(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	users := NewUserService(repo)

	self := &model.User{Name: "Root", Email: "root@club.test", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, repo.Create(self))
	actor := claims(self.ID, model.RoleAdmin)

	student := model.RoleStudent
	disabled := true
	_, err := users.Update(actor, self.ID, UserUpdate{Role: &student})
	assert.ErrorIs(t, err, util.ErrSelfLockout)
	_, err = users.Update(actor, self.ID, UserUpdate{Disabled: &disabled})
	assert.ErrorIs(t, err, util.ErrSelfLockout)
	assert.ErrorIs(t, users.Delete(actor, self.ID), util.ErrSelfLockout)

	name := "Root Admin"
	updated, err := users.Update(actor, self.ID, UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Root Admin", updated.Name)
}

func TestUserService_ResetPassword(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	auth := NewAuthService(repo, &config.Config{JWT: config.JWTConfig{Secret: "s", ExpireTime: time.Hour}})
	users := NewUserService(repo)

	ana, err := auth.Register("Ana", "ana@club.test", "password1")
	require.NoError(t, err)

	temp, err := users.ResetPassword(ana.ID)
	require.NoError(t, err)
	assert.Len(t, temp, 12)

	_, _, err = auth.Login("ana@club.test", "password1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = auth.Login("ana@club.test", temp)
	assert.NoError(t, err)
}
