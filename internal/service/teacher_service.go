package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type TeacherInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=30"`
	Subject string `json:"subject" binding:"max=100"`
	Bio     string `json:"bio"`
	UserID  *uint  `json:"userId"`
}

type TeacherService struct {
	TeacherRepo *repository.TeacherRepository
}

func NewTeacherService(teacherRepo *repository.TeacherRepository) *TeacherService {
	return &TeacherService{TeacherRepo: teacherRepo}
}

func (s *TeacherService) List() ([]model.Teacher, error) {
	return s.TeacherRepo.List()
}

func (s *TeacherService) Get(id uint) (*model.Teacher, error) {
	teacher, err := s.TeacherRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return teacher, err
}

// GetByRef 按数字 ID 或 slug 查找
func (s *TeacherService) GetByRef(ref string) (*model.Teacher, error) {
	if id := util.MustParseUint(ref); id != 0 {
		return s.Get(id)
	}
	teacher, err := s.TeacherRepo.FindBySlug(ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return teacher, err
}

func (s *TeacherService) Create(input TeacherInput) (*model.Teacher, error) {
	slug, err := uniqueSlug(input.Name, func(c string) (bool, error) {
		return s.TeacherRepo.SlugTaken(c, 0)
	})
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{Slug: slug}
	applyTeacherInput(teacher, input)
	if err := s.TeacherRepo.Create(teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Update 名字变化时重新生成 slug
func (s *TeacherService) Update(id uint, input TeacherInput) (*model.Teacher, error) {
	teacher, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if teacher.Name != input.Name {
		slug, err := uniqueSlug(input.Name, func(c string) (bool, error) {
			return s.TeacherRepo.SlugTaken(c, id)
		})
		if err != nil {
			return nil, err
		}
		teacher.Slug = slug
	}

	applyTeacherInput(teacher, input)
	if err := s.TeacherRepo.Update(teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

func (s *TeacherService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.TeacherRepo.Delete(id)
}

func applyTeacherInput(t *model.Teacher, in TeacherInput) {
	t.Name = in.Name
	t.Email = in.Email
	t.Phone = in.Phone
	t.Subject = in.Subject
	t.Bio = in.Bio
	t.UserID = in.UserID
}
