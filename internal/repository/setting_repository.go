package repository

import (
	"campus_club_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	DB *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

func (r *SettingRepository) List() ([]model.AppSetting, error) {
	var settings []model.AppSetting
	err := r.DB.Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

func (r *SettingRepository) FindByKey(key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	err := r.DB.Where(&model.AppSetting{Key: key}).First(&setting).Error
	return &setting, err
}

// Upsert 按 key 写入，已存在时覆盖 value
func (r *SettingRepository) Upsert(setting *model.AppSetting) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(setting).Error
}

// Delete 物理删除，之后可以以同一 key 重新创建
func (r *SettingRepository) Delete(key string) (bool, error) {
	result := r.DB.Unscoped().Where(&model.AppSetting{Key: key}).Delete(&model.AppSetting{})
	return result.RowsAffected > 0, result.Error
}
