package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const maxProfilePictureSize = 5 * 1024 * 1024

var allowedPictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UpdateProfileInput 空字段不修改；修改密码必须提供当前密码
type UpdateProfileInput struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	CurrentPassword string   `json:"currentPassword"`
	Industries      []string `json:"industries"`
	JobTitles       []string `json:"jobTitles"`
	SkillLevel      string   `json:"skillLevel"`
}

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{UserRepo: userRepo, Storage: storage}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		existing, err := s.UserRepo.FindByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return nil, util.ErrEmailRegistered
		}
		if err != nil && !errors.Is(err, util.ErrUserNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if input.Password != "" {
		if input.CurrentPassword == "" {
			return nil, util.ErrCurrentPasswordNeeded
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
			return nil, util.ErrCurrentPasswordWrong
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if input.Industries != nil {
		user.Industries = input.Industries
	}
	if input.JobTitles != nil {
		user.JobTitles = input.JobTitles
	}
	if input.SkillLevel != "" {
		user.SkillLevel = input.SkillLevel
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadProfilePicture 仅接受 5MB 以内的图片，成功后删除旧头像
func (s *UserService) UploadProfilePicture(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	if file.Size > maxProfilePictureSize {
		return "", util.ErrFileTooLarge
	}
	contentType := file.Header.Get("Content-Type")
	if !allowedPictureTypes[contentType] {
		return "", util.ErrUnsupportedFileType
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectName := fmt.Sprintf("profile-pictures/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(file.Filename)))
	url, err := s.Storage.Upload(ctx, objectName, src, file.Size, contentType)
	if err != nil {
		return "", fmt.Errorf("upload profile picture: %w", err)
	}

	previous := user.ProfilePicture
	user.ProfilePicture = url
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return "", err
	}

	if previous != "" {
		if name := s.objectNameOf(previous); name != "" {
			if err := s.Storage.Delete(ctx, name); err != nil {
				logger.Log.Warn("删除旧头像失败", zap.String("object", name), zap.Error(err))
			}
		}
	}
	return url, nil
}

// objectNameOf 从访问地址中取回对象名，不是本服务上传的地址返回空
func (s *UserService) objectNameOf(url string) string {
	idx := strings.Index(url, "profile-pictures/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
