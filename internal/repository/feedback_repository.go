package repository

import (
	"careerzoom_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.DB.WithContext(ctx).Omit("User").Create(feedback).Error
}

// ListByInterview 最新的反馈在前，附带作者信息
func (r *FeedbackRepository) ListByInterview(ctx context.Context, interviewID uint) ([]model.Feedback, error) {
	var feedback []model.Feedback
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("interview_id = ?", interviewID).
		Order("created_at desc, id desc").
		Find(&feedback).Error
	return feedback, err
}

// FirstByInterview 最早提交的一条反馈，没有时返回 nil
func (r *FeedbackRepository) FirstByInterview(ctx context.Context, interviewID uint) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.DB.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at asc, id asc").
		First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

// HasAnalysisFeedback 面试是否已有由自动分析生成的反馈
func (r *FeedbackRepository) HasAnalysisFeedback(ctx context.Context, interviewID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Feedback{}).
		Where("interview_id = ? AND from_analysis = ?", interviewID, true).
		Count(&count).Error
	return count > 0, err
}
