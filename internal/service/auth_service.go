package service

import (
	"campus_club_backend/internal/config"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"campus_club_backend/pkg/logger"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 公开注册只能创建学生账号
func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.RoleStudent,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return "", nil, util.ErrAccountDisabled
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}
	user.LastLogin = now

	return token, user, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// EnsureAdmin 数据库中没有管理员时，用配置中的账号创建一个
func (s *AuthService) EnsureAdmin() error {
	exists, err := s.UserRepo.ExistsByRole(model.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	admin := s.Cfg.Admin
	if admin.Email == "" || admin.Password == "" {
		logger.Log.Warn("No admin account exists and admin seed is not configured")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	user := &model.User{
		Name:     name,
		Email:    strings.ToLower(admin.Email),
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	logger.Log.Info("Seeded admin account", zap.String("email", user.Email))
	return nil
}
