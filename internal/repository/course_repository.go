package repository

import (
	"campus_club_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Teacher").First(&course, id).Error
	return &course, err
}

// List activeOnly 为 true 时只返回开课中的课程；teacherID 非 0 时按任课教师过滤
func (r *CourseRepository) List(activeOnly bool, teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.Preload("Teacher")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if teacherID != 0 {
		q = q.Where("teacher_id = ?", teacherID)
	}
	err := q.Order("title ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Omit("Teacher").Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	return slugTaken(r.DB, &model.Course{}, slug, excludeID)
}
