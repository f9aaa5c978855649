package util

import (
	"net/http/httptest"
	"testing"
	"time"

	"campus_club_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	user := &model.User{Name: "Ana", Email: "ana@club.test", Role: model.RoleTeacher}
	user.ID = 12

	tok, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, model.RoleTeacher, claims.Role)
	assert.Equal(t, "12", claims.Subject)
	assert.False(t, claims.IsAdmin())
}

func TestJWT_Rejects(t *testing.T) {
	user := &model.User{Name: "Ana", Role: model.RoleAdmin}

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(valid, "another")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT(foreign, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer abc.def", "abc.def"},
		{"Basic dXNlcg==", ""},
		{"Bearer ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.Header.Set("Authorization", tt.header)
		assert.Equal(t, tt.want, BearerToken(c), tt.header)
	}
}
