package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// TestCaseOutcome 单个测试用例的结果
type TestCaseOutcome struct {
	TestCase int             `json:"testCase"`
	Passed   bool            `json:"passed"`
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
	Actual   json.RawMessage `json:"actual,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// SubmissionResult 一次完整评测的汇总
type SubmissionResult struct {
	Passed  int               `json:"passed"`
	Failed  int               `json:"failed"`
	Total   int               `json:"total"`
	Details []TestCaseOutcome `json:"details"`
	Score   int               `json:"score"`
}

// Submission 每次评测生成一条，之后不再修改
// swagger:model Submission
type Submission struct {
	UUIDBase
	UserID      uint                                 `gorm:"not null;index:idx_user_challenge" json:"userId"`
	ChallengeID string                               `gorm:"type:varchar(36);not null;index:idx_user_challenge" json:"challengeId"`
	Code        string                               `gorm:"type:text;not null" json:"code"`
	Results     datatypes.JSONType[SubmissionResult] `gorm:"type:text" json:"results"`
	Score       int                                  `gorm:"not null;default:0" json:"score"`
	Solved      bool                                 `gorm:"default:false" json:"solved"`
	TimedOut    bool                                 `gorm:"default:false" json:"timedOut"`
}

func (Submission) TableName() string {
	return "submissions"
}
