package repository

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImprovementPlanRepository struct {
	DB *gorm.DB
}

func NewImprovementPlanRepository(db *gorm.DB) *ImprovementPlanRepository {
	return &ImprovementPlanRepository{DB: db}
}

// FindByUserID 用户尚无计划时返回 nil, nil
func (r *ImprovementPlanRepository) FindByUserID(ctx context.Context, userID uint) (*model.ImprovementPlan, error) {
	var plan model.ImprovementPlan
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindOrCreate 依赖 user_id 唯一索引：并发的首次创建只有一条能写入，其余读回同一条
func (r *ImprovementPlanRepository) FindOrCreate(ctx context.Context, userID uint) (*model.ImprovementPlan, bool, error) {
	candidate := model.NewImprovementPlan(userID)
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(candidate)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected == 1

	plan, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if plan == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return plan, created, nil
}

// SaveVersioned 按版本号条件更新，版本不匹配返回 ErrPlanVersionConflict
func (r *ImprovementPlanRepository) SaveVersioned(ctx context.Context, plan *model.ImprovementPlan) error {
	res := r.DB.WithContext(ctx).Model(&model.ImprovementPlan{}).
		Where("id = ? AND version = ?", plan.ID, plan.Version).
		Updates(map[string]interface{}{
			"goals":                              plan.Goals,
			"recommendations":                    plan.Recommendations,
			"progress_latest_interview_score":    plan.Progress.LatestInterviewScore,
			"progress_improvement_percentage":    plan.Progress.ImprovementPercentage,
			"progress_consistent_weak_areas":     plan.Progress.ConsistentWeakAreas,
			"progress_consistent_strength_areas": plan.Progress.ConsistentStrengthAreas,
			"version":                            plan.Version + 1,
			"updated_at":                         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrPlanVersionConflict
	}
	plan.Version++
	return nil
}
