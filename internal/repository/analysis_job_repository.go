package repository

import (
	"careerzoom_backend/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalysisJobRepository struct {
	DB *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) *AnalysisJobRepository {
	return &AnalysisJobRepository{DB: db}
}

// Enqueue 同一场面试重复入队不会产生第二条任务
func (r *AnalysisJobRepository) Enqueue(ctx context.Context, interviewID uint) (bool, error) {
	job := &model.AnalysisJob{InterviewID: interviewID, Status: model.JobQueued}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "interview_id"}},
			DoNothing: true,
		}).
		Create(job)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AnalysisJobRepository) FindByInterviewID(ctx context.Context, interviewID uint) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.DB.WithContext(ctx).Where("interview_id = ?", interviewID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ClaimNextRunnable 认领最早的可执行任务：排队中、可重试的失败任务、或锁已过期的运行中任务
func (r *AnalysisJobRepository) ClaimNextRunnable(ctx context.Context, maxAttempts int, retryDelay, staleRunning time.Duration) (*model.AnalysisJob, error) {
	now := time.Now()
	retryCutoff := now.Add(-retryDelay)
	staleCutoff := now.Add(-staleRunning)

	var claimed *model.AnalysisJob
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite 不支持行级锁，测试库上跳过
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		var job model.AnalysisJob
		err := q.Where(`
			status = ?
			OR (status = ? AND attempts < ? AND (last_error_at IS NULL OR last_error_at < ?))
			OR (status = ? AND attempts < ? AND locked_at IS NOT NULL AND locked_at < ?)
		`, model.JobQueued, model.JobFailed, maxAttempts, retryCutoff, model.JobRunning, maxAttempts, staleCutoff).
			Order("created_at asc").
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		err = tx.Model(&model.AnalysisJob{}).
			Where("id = ?", job.ID).
			Updates(map[string]interface{}{
				"status":     model.JobRunning,
				"attempts":   gorm.Expr("attempts + 1"),
				"locked_at":  now,
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}
		job.Status = model.JobRunning
		job.Attempts++
		job.LockedAt = &now
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *AnalysisJobRepository) MarkSucceeded(ctx context.Context, id string) error {
	now := time.Now()
	return r.DB.WithContext(ctx).Model(&model.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.JobSucceeded,
			"completed_at": now,
			"last_error":   "",
			"updated_at":   now,
		}).Error
}

func (r *AnalysisJobRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	now := time.Now()
	return r.DB.WithContext(ctx).Model(&model.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.JobFailed,
			"last_error":    cause.Error(),
			"last_error_at": now,
			"updated_at":    now,
		}).Error
}
