package repository

import (
	"campus_club_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) CountByUserAndChallenge(userID uint, challengeID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) ListByUserAndChallenge(userID uint, challengeID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// FirstSubmittedAt 返回该用户在挑战上最早一次提交的时间
func (r *SubmissionRepository) FirstSubmittedAt(userID uint, challengeID string) (time.Time, bool, error) {
	var submissions []model.Submission
	err := r.DB.Select("created_at").
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at ASC").
		Limit(1).
		Find(&submissions).Error
	if err != nil || len(submissions) == 0 {
		return time.Time{}, false, err
	}
	return submissions[0].CreatedAt, true, nil
}

func (r *SubmissionRepository) ListByChallenge(challengeID string, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("challenge_id = ?", challengeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

// BestSoFar 返回该用户在挑战上的最高分以及是否已有全部通过的提交
func (r *SubmissionRepository) BestSoFar(userID uint, challengeID string) (best int, solved bool, err error) {
	var row struct {
		Best   int
		Solved int64
	}
	err = r.DB.Model(&model.Submission{}).
		Select("COALESCE(MAX(score), 0) AS best, COALESCE(SUM(CASE WHEN solved THEN 1 ELSE 0 END), 0) AS solved").
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	return row.Best, row.Solved > 0, nil
}
