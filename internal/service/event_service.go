package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"campus_club_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EventInput struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Location    string     `json:"location" binding:"max=200"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	Published   bool       `json:"published"`
}

type EventService struct {
	EventRepo      *repository.EventRepository
	StorageService *StorageService
	now            func() time.Time
}

func NewEventService(eventRepo *repository.EventRepository, storage *StorageService) *EventService {
	return &EventService{EventRepo: eventRepo, StorageService: storage, now: time.Now}
}

func (s *EventService) ListPublished() ([]model.Event, error) {
	return s.EventRepo.ListPublished(s.now())
}

func (s *EventService) ListAll() ([]model.Event, error) {
	return s.EventRepo.ListAll()
}

// Get 未发布的活动只对教师和管理员可见
func (s *EventService) Get(id uint, includeDrafts bool) (*model.Event, error) {
	event, err := s.EventRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !event.Published && !includeDrafts {
		return nil, util.ErrNotFound
	}
	return event, nil
}

func (s *EventService) Create(input EventInput, createdBy uint) (*model.Event, error) {
	if err := validateEventTimes(input); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(input.Title, func(c string) (bool, error) {
		return s.EventRepo.SlugTaken(c, 0)
	})
	if err != nil {
		return nil, err
	}

	event := &model.Event{Slug: slug, CreatedBy: createdBy}
	applyEventInput(event, input)
	if err := s.EventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Update(id uint, input EventInput) (*model.Event, error) {
	if err := validateEventTimes(input); err != nil {
		return nil, err
	}

	event, err := s.Get(id, true)
	if err != nil {
		return nil, err
	}

	if event.Title != input.Title {
		slug, err := uniqueSlug(input.Title, func(c string) (bool, error) {
			return s.EventRepo.SlugTaken(c, id)
		})
		if err != nil {
			return nil, err
		}
		event.Slug = slug
	}

	applyEventInput(event, input)
	if err := s.EventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	event, err := s.Get(id, true)
	if err != nil {
		return err
	}
	if err := s.EventRepo.Delete(id); err != nil {
		return err
	}
	s.removePoster(ctx, event.PosterKey)
	return nil
}

// UploadPoster 校验大小和类型后上传，替换旧海报
func (s *EventService) UploadPoster(ctx context.Context, id uint, file *multipart.FileHeader) (*model.Event, error) {
	event, err := s.Get(id, true)
	if err != nil {
		return nil, err
	}
	if file.Size > util.MaxPosterSize {
		return nil, fmt.Errorf("%w: %d bytes", util.ErrFileTooLarge, file.Size)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, util.AllowedPosterTypes)
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("events/%d/%s%s", event.ID, uuid.NewString(), ext)
	url, err := s.StorageService.Upload(ctx, key, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	oldKey := event.PosterKey
	if err := s.EventRepo.UpdatePoster(event.ID, url, key); err != nil {
		return nil, err
	}
	s.removePoster(ctx, oldKey)

	event.PosterURL = url
	event.PosterKey = key
	return event, nil
}

func (s *EventService) removePoster(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.StorageService.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to delete poster", zap.String("key", key), zap.Error(err))
	}
}

func validateEventTimes(in EventInput) error {
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return util.ErrInvalidTimeRange
	}
	return nil
}

func applyEventInput(e *model.Event, in EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.Location = in.Location
	e.StartsAt = in.StartsAt
	e.EndsAt = in.EndsAt
	e.Published = in.Published
}
