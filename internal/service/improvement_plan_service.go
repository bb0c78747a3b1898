package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"careerzoom_backend/pkg/monitoring"
	"careerzoom_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RecommendationGenerator 根据弱项标签生成建议，AIService 为默认实现
type RecommendationGenerator interface {
	GenerateRecommendations(ctx context.Context, weakAreas []string) ([]model.PlanRecommendation, error)
}

type ImprovementPlanService struct {
	PlanRepo           *repository.ImprovementPlanRepository
	UserRepo           *repository.UserRepository
	InterviewRepo      *repository.InterviewRepository
	FeedbackRepo       *repository.FeedbackRepository
	Recommender        RecommendationGenerator
	Events             EventPublisher
	MaxConflictRetries int
}

func NewImprovementPlanService(
	planRepo *repository.ImprovementPlanRepository,
	userRepo *repository.UserRepository,
	interviewRepo *repository.InterviewRepository,
	feedbackRepo *repository.FeedbackRepository,
	recommender RecommendationGenerator,
	events EventPublisher,
	maxConflictRetries int,
) *ImprovementPlanService {
	if maxConflictRetries <= 0 {
		maxConflictRetries = 5
	}
	return &ImprovementPlanService{
		PlanRepo:           planRepo,
		UserRepo:           userRepo,
		InterviewRepo:      interviewRepo,
		FeedbackRepo:       feedbackRepo,
		Recommender:        recommender,
		Events:             events,
		MaxConflictRetries: maxConflictRetries,
	}
}

// Accumulate 把一条反馈合并进用户的改进计划。
// 建议生成只调用一次且在重试区之外；版本冲突时整个读取-修改-保存过程重来。
func (s *ImprovementPlanService) Accumulate(ctx context.Context, userID uint, feedback *model.Feedback) (*model.ImprovementPlan, error) {
	ctx, span := tracing.StartSpan(ctx, "plan.accumulate",
		attribute.Int64("user.id", int64(userID)),
		attribute.String("feedback.type", string(feedback.Type)),
	)

	average := averageOf(ExtractScores(feedback))
	weak, strong := ClassifyAreas(feedback)

	var recommendations []model.PlanRecommendation
	if feedback.Type == model.FeedbackAI && len(weak) > 0 {
		recommendations = s.recommendationsFor(ctx, userID, weak)
	}

	var plan *model.ImprovementPlan
	attempt := func() error {
		current, _, err := s.PlanRepo.FindOrCreate(ctx, userID)
		if err != nil {
			return backoff.Permanent(err)
		}
		// 不只在新建时登记，上次登记失败的引用在这里补上
		if err := s.UserRepo.AttachImprovementPlan(ctx, userID, current.ID); err != nil {
			return backoff.Permanent(err)
		}

		applyFeedback(current, average, weak, strong, recommendations)

		if err := s.PlanRepo.SaveVersioned(ctx, current); err != nil {
			if errors.Is(err, util.ErrPlanVersionConflict) {
				monitoring.PlanVersionConflicts.Inc()
				logger.Log.Debug("改进计划版本冲突，重试", zap.Uint("userId", userID), zap.Int("version", current.Version))
				return err
			}
			return backoff.Permanent(err)
		}
		plan = current
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.MaxConflictRetries)), ctx))
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("accumulate improvement plan for user %d: %w", userID, err)
	}

	monitoring.PlanAccumulations.WithLabelValues(string(feedback.Type)).Inc()
	publishBestEffort(ctx, s.Events, UserChannel(userID), EventPlanUpdated, plan)
	return plan, nil
}

// recommendationsFor 外部接口失败只记录，不影响分数与弱项/强项的累积
func (s *ImprovementPlanService) recommendationsFor(ctx context.Context, userID uint, weak []string) []model.PlanRecommendation {
	if s.Recommender == nil {
		return nil
	}
	recs, err := s.Recommender.GenerateRecommendations(ctx, weak)
	if err != nil {
		monitoring.RecommendationFailures.Inc()
		logger.Log.Warn("生成改进建议失败，本次不追加建议",
			zap.Uint("userId", userID),
			zap.Strings("weakAreas", weak),
			zap.Error(err),
		)
		return nil
	}
	return recs
}

func applyFeedback(plan *model.ImprovementPlan, average float64, weak, strong []string, recs []model.PlanRecommendation) {
	previous := plan.Progress.LatestInterviewScore
	plan.Progress.LatestInterviewScore = average
	// 首次反馈 previous 为 0，保持原有的提升百分比
	if previous > 0 {
		plan.Progress.ImprovementPercentage = round2((average - previous) / previous * 100)
	}

	plan.Progress.ConsistentWeakAreas = mergeTags(plan.Progress.ConsistentWeakAreas, weak)
	plan.Progress.ConsistentStrengthAreas = mergeTags(plan.Progress.ConsistentStrengthAreas, strong)

	if len(recs) > 0 {
		merged := make([]model.PlanRecommendation, 0, len(plan.Recommendations)+len(recs))
		merged = append(merged, plan.Recommendations...)
		plan.Recommendations = append(merged, recs...)
	}
	if plan.Goals == nil {
		plan.Goals = []model.PlanGoal{}
	}
	if plan.Recommendations == nil {
		plan.Recommendations = []model.PlanRecommendation{}
	}
}

// GetPlanForInterview 只有面试所有者可以查看；面试没有反馈时返回引导视图
func (s *ImprovementPlanService) GetPlanForInterview(ctx context.Context, interviewID, requesterID uint) (PlanView, error) {
	interview, err := s.InterviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return PlanView{}, err
	}
	if !interview.IsOwner(requesterID) {
		return PlanView{}, util.ErrPlanForbidden
	}

	count, err := s.InterviewRepo.CountFeedback(ctx, interviewID)
	if err != nil {
		return PlanView{}, err
	}
	if count == 0 {
		return StarterPlan(interview, requesterID), nil
	}

	plan, err := s.PlanRepo.FindByUserID(ctx, interview.UserID)
	if err != nil {
		return PlanView{}, err
	}
	if plan == nil {
		first, err := s.FeedbackRepo.FirstByInterview(ctx, interviewID)
		if err != nil {
			return PlanView{}, err
		}
		if first == nil {
			return StarterPlan(interview, requesterID), nil
		}
		plan, err = s.Accumulate(ctx, interview.UserID, first)
		if err != nil {
			return PlanView{}, err
		}
	}
	return FormatImprovementPlan(plan, interview), nil
}
