package repository

import (
	"campus_club_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

// ListPublished 已发布的活动，未开始的排在前面
func (r *EventRepository) ListPublished(now time.Time) ([]model.Event, error) {
	var upcoming, past []model.Event
	if err := r.DB.Where("published = ? AND starts_at >= ?", true, now).
		Order("starts_at ASC").Find(&upcoming).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Where("published = ? AND starts_at < ?", true, now).
		Order("starts_at DESC").Find(&past).Error; err != nil {
		return nil, err
	}
	return append(upcoming, past...), nil
}

func (r *EventRepository) ListAll() ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Order("starts_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) Update(event *model.Event) error {
	return r.DB.Save(event).Error
}

func (r *EventRepository) UpdatePoster(id uint, url, key string) error {
	return r.DB.Model(&model.Event{}).Where("id = ?", id).
		Updates(map[string]interface{}{"poster_url": url, "poster_key": key}).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Event{}, id).Error
}

func (r *EventRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	return slugTaken(r.DB, &model.Event{}, slug, excludeID)
}
