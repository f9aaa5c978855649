package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserUpdate 管理员可修改的字段，nil 表示不修改
type UserUpdate struct {
	Name     *string         `json:"name"`
	Role     *model.UserRole `json:"role"`
	Disabled *bool           `json:"disabled"`
}

// UserPage 分页结果
type UserPage struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Pages int64        `json:"pages"`
}

// UserService 后台账号管理：授予教师角色、禁用账号、重置密码
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

func validRole(role model.UserRole) bool {
	switch role {
	case model.RoleStudent, model.RoleTeacher, model.RoleAdmin:
		return true
	}
	return false
}

func (s *UserService) List(filter repository.UserFilter, page, pageSize int) (*UserPage, error) {
	if filter.Role != "" && !validRole(filter.Role) {
		return nil, util.ErrInvalidRole
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	users, total, err := s.UserRepo.List(filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Items: users,
		Total: total,
		Page:  page,
		Pages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update 管理员不能撤销自己的管理员身份或禁用自己
func (s *UserService) Update(actor *util.Claims, id uint, input UserUpdate) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, util.ErrInvalidRole
		}
		if id == actor.UserID && *input.Role != model.RoleAdmin {
			return nil, util.ErrSelfLockout
		}
		user.Role = *input.Role
	}
	if input.Disabled != nil {
		if id == actor.UserID && *input.Disabled {
			return nil, util.ErrSelfLockout
		}
		user.Disabled = *input.Disabled
	}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			user.Name = name
		}
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword 生成临时密码，明文只在本次响应中返回
func (s *UserService) ResetPassword(id uint) (string, error) {
	user, err := s.Get(id)
	if err != nil {
		return "", err
	}

	tempPassword := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user.Password = string(hashedPassword)
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return tempPassword, nil
}

func (s *UserService) Delete(actor *util.Claims, id uint) error {
	if id == actor.UserID {
		return util.ErrSelfLockout
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}
