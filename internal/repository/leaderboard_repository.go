package repository

import (
	"campus_club_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

// ApplyDelta 累加总分和解题数，不存在时创建
func (r *LeaderboardRepository) ApplyDelta(userID uint, userName string, scoreDelta, solvedDelta int) (*model.LeaderboardEntry, error) {
	var entry model.LeaderboardEntry
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = model.LeaderboardEntry{
				UserID:      userID,
				UserName:    userName,
				TotalScore:  scoreDelta,
				SolvedCount: solvedDelta,
			}
			return tx.Create(&entry).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&entry).Updates(map[string]interface{}{
			"user_name":    userName,
			"total_score":  gorm.Expr("total_score + ?", scoreDelta),
			"solved_count": gorm.Expr("solved_count + ?", solvedDelta),
		}).Error; err != nil {
			return err
		}
		return tx.First(&entry, entry.ID).Error
	})
	return &entry, err
}

func (r *LeaderboardRepository) Top(limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.Order("total_score DESC").Order("updated_at ASC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *LeaderboardRepository) FindByUserIDs(ids []uint) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	if len(ids) == 0 {
		return entries, nil
	}
	err := r.DB.Where("user_id IN ?", ids).Find(&entries).Error
	return entries, err
}

func (r *LeaderboardRepository) All() ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.DB.Find(&entries).Error
	return entries, err
}
