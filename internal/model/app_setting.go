package model

import "gorm.io/datatypes"

const (
	SettingSiteTitle        = "site_title"
	SettingArenaEnabled     = "arena_enabled"
	SettingAttendanceStatus = "attendance_statuses"
)

// swagger:model AppSetting
type AppSetting struct {
	BaseModel
	Key       string         `gorm:"column:setting_key;size:100;uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedBy uint           `json:"updatedBy"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
