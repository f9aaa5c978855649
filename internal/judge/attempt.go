package judge

import "math"

// AttemptStatus 某用户在某挑战上的提交次数状态
type AttemptStatus struct {
	Allowed   bool `json:"allowed"`
	Unlimited bool `json:"unlimited"`
	Used      int  `json:"used"`
	Remaining *int `json:"remaining"`
}

// RemainingValue 用于展示，不限次数时为正无穷
func (s AttemptStatus) RemainingValue() float64 {
	if s.Unlimited || s.Remaining == nil {
		return math.Inf(1)
	}
	return float64(*s.Remaining)
}

// CheckAttempts maxAttempts 为 nil 时不限次数；否则 attemptsSoFar < maxAttempts 才允许。
// 这是建议性检查：计数与写入之间没有原子保证，并发提交可能同时通过。
func CheckAttempts(maxAttempts *int, attemptsSoFar int) AttemptStatus {
	if maxAttempts == nil {
		return AttemptStatus{Allowed: true, Unlimited: true, Used: attemptsSoFar}
	}
	remaining := *maxAttempts - attemptsSoFar
	if remaining < 0 {
		remaining = 0
	}
	return AttemptStatus{
		Allowed:   attemptsSoFar < *maxAttempts,
		Used:      attemptsSoFar,
		Remaining: &remaining,
	}
}
