package repository

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

// AttachImprovementPlan 用户记录尚未指向该计划时登记引用
func (r *UserRepository) AttachImprovementPlan(ctx context.Context, userID, planID uint) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND (improvement_plan_id IS NULL OR improvement_plan_id <> ?)", userID, planID).
		Update("improvement_plan_id", planID).Error
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}
