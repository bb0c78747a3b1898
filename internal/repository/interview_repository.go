package repository

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type InterviewRepository struct {
	DB *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{DB: db}
}

func (r *InterviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	return r.DB.WithContext(ctx).Create(interview).Error
}

// FindByID 只预加载权限判断需要的同行评审人
func (r *InterviewRepository) FindByID(ctx context.Context, id uint) (*model.Interview, error) {
	return r.find(ctx, id, "PeerReviewers")
}

// FindDetail 详情页：题目、反馈与评审人
func (r *InterviewRepository) FindDetail(ctx context.Context, id uint) (*model.Interview, error) {
	return r.find(ctx, id, "PeerReviewers", "Questions", "Feedback")
}

func (r *InterviewRepository) find(ctx context.Context, id uint, preloads ...string) (*model.Interview, error) {
	var interview model.Interview
	q := r.DB.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	err := q.First(&interview, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepository) ListByUser(ctx context.Context, userID uint) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.DB.WithContext(ctx).
		Preload("Questions").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&interviews).Error
	return interviews, err
}

// ListInvitations 当前用户作为同行评审人被邀请的面试
func (r *InterviewRepository) ListInvitations(ctx context.Context, reviewerID uint) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.DB.WithContext(ctx).
		Preload("Owner").
		Joins("JOIN interview_peer_reviewers ipr ON ipr.interview_id = interviews.id").
		Where("ipr.user_id = ?", reviewerID).
		Order("interviews.created_at desc").
		Find(&interviews).Error
	return interviews, err
}

func (r *InterviewRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.DB.WithContext(ctx).Model(&model.Interview{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *InterviewRepository) AddPeerReviewer(ctx context.Context, interview *model.Interview, reviewer *model.User) error {
	return r.DB.WithContext(ctx).Model(interview).Association("PeerReviewers").Append(reviewer)
}

func (r *InterviewRepository) CountFeedback(ctx context.Context, interviewID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Feedback{}).
		Where("interview_id = ?", interviewID).
		Count(&count).Error
	return count, err
}

func (r *InterviewRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Interview{}, id).Error
}
