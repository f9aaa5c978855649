package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type CourseInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	TeacherID   *uint  `json:"teacherId"`
	Schedule    string `json:"schedule" binding:"max=200"`
	Room        string `json:"room" binding:"max=100"`
	Capacity    int    `json:"capacity" binding:"min=0"`
	Active      *bool  `json:"active"`
}

type CourseService struct {
	CourseRepo  *repository.CourseRepository
	TeacherRepo *repository.TeacherRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, teacherRepo *repository.TeacherRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, TeacherRepo: teacherRepo}
}

func (s *CourseService) List(activeOnly bool, teacherID uint) ([]model.Course, error) {
	return s.CourseRepo.List(activeOnly, teacherID)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return course, err
}

func (s *CourseService) Create(input CourseInput) (*model.Course, error) {
	if err := s.checkTeacher(input.TeacherID); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(input.Title, func(c string) (bool, error) {
		return s.CourseRepo.SlugTaken(c, 0)
	})
	if err != nil {
		return nil, err
	}

	course := &model.Course{Slug: slug, Active: true}
	applyCourseInput(course, input)
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return s.CourseRepo.FindByID(course.ID)
}

func (s *CourseService) Update(id uint, input CourseInput) (*model.Course, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeacher(input.TeacherID); err != nil {
		return nil, err
	}

	if course.Title != input.Title {
		slug, err := uniqueSlug(input.Title, func(c string) (bool, error) {
			return s.CourseRepo.SlugTaken(c, id)
		})
		if err != nil {
			return nil, err
		}
		course.Slug = slug
	}

	applyCourseInput(course, input)
	course.Teacher = nil
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return s.CourseRepo.FindByID(course.ID)
}

func (s *CourseService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

func (s *CourseService) checkTeacher(teacherID *uint) error {
	if teacherID == nil {
		return nil
	}
	_, err := s.TeacherRepo.FindByID(*teacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUnknownTeacher
	}
	return err
}

func applyCourseInput(c *model.Course, in CourseInput) {
	c.Title = in.Title
	c.Description = in.Description
	c.TeacherID = in.TeacherID
	c.Schedule = in.Schedule
	c.Room = in.Room
	c.Capacity = in.Capacity
	if in.Active != nil {
		c.Active = *in.Active
	}
}
