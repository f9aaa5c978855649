package repository

import (
	"context"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// Count 统计某张表未删除的行数
func (r *StatsRepository) Count(ctx context.Context, value interface{}) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(value).Count(&count).Error
	return count, err
}
