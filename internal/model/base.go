package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timestamps 软删除字段不对外输出
type Timestamps struct {
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BaseModel 自增主键：用户、教师、课程、活动、考勤
// swagger:model
type BaseModel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamps
}

// UUIDBase 对外暴露的挑战和提交使用 UUID，避免被顺序枚举
// swagger:model
type UUIDBase struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Timestamps
}

func (b *UUIDBase) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
