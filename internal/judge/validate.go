package judge

import (
	"campus_club_backend/internal/model"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidationError 挑战定义不合法，直接展示给管理员
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateChallenge 在保存前校验必填字段和测试用例
func ValidateChallenge(c *model.Challenge) error {
	if strings.TrimSpace(c.Title) == "" {
		return invalid("title", "is required")
	}
	if !identifierPattern.MatchString(c.FunctionName) {
		return invalid("functionName", "must be a valid JavaScript identifier")
	}
	cases := c.Cases()
	if len(cases) == 0 {
		return invalid("testCases", "at least one test case is required")
	}
	for i, tc := range cases {
		if len(tc.Input) == 0 || !json.Valid(tc.Input) {
			return invalid("testCases", "case %d has no valid input", i)
		}
		if len(tc.Expected) == 0 || !json.Valid(tc.Expected) {
			return invalid("testCases", "case %d has no valid expected output", i)
		}
	}
	if c.Points < 0 {
		return invalid("points", "must not be negative")
	}
	if c.TimeLimit <= 0 {
		return invalid("timeLimit", "must be a positive number of minutes")
	}
	if c.MaxAttempts != nil && *c.MaxAttempts < 1 {
		return invalid("maxAttempts", "must be at least 1 when set")
	}
	switch c.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return invalid("difficulty", "must be easy, medium or hard")
	}
	return nil
}
