package service

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email     string         `json:"email" binding:"required,email"`
	Password  string         `json:"password" binding:"required,min=6"`
	FirstName string         `json:"firstName" binding:"required"`
	LastName  string         `json:"lastName"`
	Role      model.UserRole `json:"role"`
}

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

// Register 注册时不允许自选管理员角色
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", util.ErrEmailRegistered
	}
	if !errors.Is(err, util.ErrUserNotFound) {
		return nil, "", err
	}

	role := input.Role
	if role != model.Reviewer {
		role = model.Candidate
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := &model.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, util.ErrUserNotFound) {
		return "", nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Log.Warn("更新最后登录时间失败", zap.Uint("userId", user.ID), zap.Error(err))
	}
	return token, user, nil
}
