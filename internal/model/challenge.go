package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// TestCase 输入与期望输出都是任意 JSON，保留原始文本（对象键顺序影响判题）
type TestCase struct {
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
}

// Challenge 编程挑战。测试用例以文本列保存，避免 MySQL JSON 列重排对象键。
// swagger:model Challenge
type Challenge struct {
	UUIDBase
	Title        string                         `gorm:"size:200;not null" json:"title"`
	Description  string                         `gorm:"type:text" json:"description"`
	Difficulty   string                         `gorm:"size:20;default:'easy'" json:"difficulty"`
	FunctionName string                         `gorm:"size:100;not null" json:"functionName"`
	StarterCode  string                         `gorm:"type:text" json:"starterCode"`
	TestCases    datatypes.JSONType[[]TestCase] `gorm:"type:text" json:"testCases"`
	Points       int                            `gorm:"not null;default:0" json:"points"`
	TimeLimit    int                            `gorm:"not null;default:30" json:"timeLimit"` // 分钟
	MaxAttempts  *int                           `json:"maxAttempts"`
	Published    bool                           `gorm:"default:false;index" json:"published"`
	CreatedBy    uint                           `json:"createdBy"`
}

func (Challenge) TableName() string {
	return "challenges"
}

func (c *Challenge) Cases() []TestCase {
	return c.TestCases.Data()
}
