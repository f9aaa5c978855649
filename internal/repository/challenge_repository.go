package repository

import (
	"campus_club_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("id = ?", id).First(&challenge).Error
	return &challenge, err
}

func (r *ChallengeRepository) List(publishedOnly bool) ([]model.Challenge, error) {
	var challenges []model.Challenge
	q := r.DB.Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Challenge{}).Error
}
