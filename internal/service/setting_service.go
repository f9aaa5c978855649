package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

type SettingService struct {
	SettingRepo *repository.SettingRepository
}

func NewSettingService(settingRepo *repository.SettingRepository) *SettingService {
	return &SettingService{SettingRepo: settingRepo}
}

// All 以 key -> value 的形式返回全部设置
func (s *SettingService) All() (map[string]json.RawMessage, error) {
	settings, err := s.SettingRepo.List()
	if err != nil {
		return nil, err
	}
	result := make(map[string]json.RawMessage, len(settings))
	for _, st := range settings {
		result[st.Key] = json.RawMessage(st.Value)
	}
	return result, nil
}

func (s *SettingService) Set(key string, value json.RawMessage, userID uint) (*model.AppSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(value) == 0 || !json.Valid(value) {
		return nil, util.ErrInvalidSetting
	}

	setting := &model.AppSetting{Key: key, Value: datatypes.JSON(value), UpdatedBy: userID}
	if err := s.SettingRepo.Upsert(setting); err != nil {
		return nil, err
	}
	return s.SettingRepo.FindByKey(key)
}

func (s *SettingService) Delete(key string) error {
	deleted, err := s.SettingRepo.Delete(key)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrNotFound
	}
	return nil
}

// Bool 读取布尔设置，不存在或格式不对时返回 def
func (s *SettingService) Bool(key string, def bool) bool {
	setting, err := s.SettingRepo.FindByKey(key)
	if err != nil {
		return def
	}
	var v bool
	if err := json.Unmarshal(setting.Value, &v); err != nil {
		return def
	}
	return v
}
