package repository

import (
	"campus_club_backend/internal/model"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	DB *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{DB: db}
}

func (r *TeacherRepository) Create(teacher *model.Teacher) error {
	return r.DB.Create(teacher).Error
}

func (r *TeacherRepository) FindByID(id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.First(&teacher, id).Error
	return &teacher, err
}

func (r *TeacherRepository) FindBySlug(slug string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.Where("slug = ?", slug).First(&teacher).Error
	return &teacher, err
}

func (r *TeacherRepository) List() ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := r.DB.Order("name ASC").Find(&teachers).Error
	return teachers, err
}

func (r *TeacherRepository) Update(teacher *model.Teacher) error {
	return r.DB.Save(teacher).Error
}

func (r *TeacherRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Teacher{}, id).Error
}

func (r *TeacherRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	return slugTaken(r.DB, &model.Teacher{}, slug, excludeID)
}
