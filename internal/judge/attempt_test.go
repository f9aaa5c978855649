package judge_test

import (
	"math"
	"testing"

	"campus_club_backend/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAttempts_Unlimited(t *testing.T) {
	for _, used := range []int{0, 1, 10, 10000} {
		s := judge.CheckAttempts(nil, used)
		assert.True(t, s.Allowed)
		assert.True(t, s.Unlimited)
		assert.Nil(t, s.Remaining)
		assert.True(t, math.IsInf(s.RemainingValue(), 1))
	}
}

func TestCheckAttempts_Bounded(t *testing.T) {
	k := 10
	tests := []struct {
		used          int
		wantAllowed   bool
		wantRemaining int
	}{
		{0, true, 10},
		{9, true, 1},
		{10, false, 0},
		{12, false, 0},
	}
	for _, tt := range tests {
		s := judge.CheckAttempts(&k, tt.used)
		assert.Equal(t, tt.wantAllowed, s.Allowed, "used=%d", tt.used)
		require.NotNil(t, s.Remaining)
		assert.Equal(t, tt.wantRemaining, *s.Remaining, "used=%d", tt.used)
		assert.False(t, s.Unlimited)
		assert.Equal(t, float64(tt.wantRemaining), s.RemainingValue())
	}
}
