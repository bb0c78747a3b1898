package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/util"
	"context"
	"fmt"

	"gorm.io/datatypes"
)

// FeedbackInput 提交反馈的请求体
type FeedbackInput struct {
	Type              model.FeedbackType     `json:"type"`
	OverallRating     float64                `json:"overallRating"`
	ContentFeedback   model.CategoryFeedback `json:"contentFeedback"`
	DeliveryFeedback  model.CategoryFeedback `json:"deliveryFeedback"`
	TechnicalFeedback model.CategoryFeedback `json:"technicalFeedback"`
	Strengths         []string               `json:"strengths"`
	Improvements      []string               `json:"improvements"`
	GeneralComments   string                 `json:"generalComments"`
}

func (in *FeedbackInput) validate() error {
	if !in.Type.Valid() {
		return util.ErrInvalidFeedbackType
	}
	if in.OverallRating < 0 || in.OverallRating > 5 {
		return util.ErrScoreOutOfRange
	}
	for _, section := range []model.CategoryFeedback{in.ContentFeedback, in.DeliveryFeedback, in.TechnicalFeedback} {
		for _, sub := range section {
			if sub.Score != nil && (*sub.Score < 0 || *sub.Score > 5) {
				return util.ErrScoreOutOfRange
			}
		}
	}
	return nil
}

type FeedbackService struct {
	FeedbackRepo  *repository.FeedbackRepository
	InterviewRepo *repository.InterviewRepository
	PlanService   *ImprovementPlanService
	Events        EventPublisher
}

func NewFeedbackService(
	feedbackRepo *repository.FeedbackRepository,
	interviewRepo *repository.InterviewRepository,
	planService *ImprovementPlanService,
	events EventPublisher,
) *FeedbackService {
	return &FeedbackService{
		FeedbackRepo:  feedbackRepo,
		InterviewRepo: interviewRepo,
		PlanService:   planService,
		Events:        events,
	}
}

// SaveFeedback 面试所有者或受邀评审人提交反馈，随后累积到所有者的改进计划
func (s *FeedbackService) SaveFeedback(ctx context.Context, authorID, interviewID uint, input FeedbackInput) (*model.Feedback, error) {
	interview, err := s.InterviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.IsOwner(authorID) && !interview.IsPeerReviewer(authorID) {
		return nil, util.ErrFeedbackForbidden
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	return s.record(ctx, interview, authorID, input, false)
}

// RecordAnalysisFeedback 把 AI 分析结果转换成一条 ai 反馈，作者记为面试所有者
func (s *FeedbackService) RecordAnalysisFeedback(ctx context.Context, interview *model.Interview, analysis *InterviewAnalysis) (*model.Feedback, error) {
	input := FeedbackInput{
		Type:              model.FeedbackAI,
		OverallRating:     clampScore(analysis.OverallScore),
		ContentFeedback:   categoryFromAnalysis(analysis.ContentAnalysis),
		DeliveryFeedback:  categoryFromAnalysis(analysis.DeliveryAnalysis),
		TechnicalFeedback: categoryFromAnalysis(analysis.TechnicalAnalysis),
		Strengths:         analysis.KeyInsights,
		Improvements:      analysis.ImprovementAreas,
		GeneralComments:   "Generated from the automated interview analysis.",
	}
	return s.record(ctx, interview, interview.UserID, input, true)
}

// AnalysisRecorded 自动分析的反馈是否已写入
func (s *FeedbackService) AnalysisRecorded(ctx context.Context, interviewID uint) (bool, error) {
	return s.FeedbackRepo.HasAnalysisFeedback(ctx, interviewID)
}

func (s *FeedbackService) record(ctx context.Context, interview *model.Interview, authorID uint, input FeedbackInput, fromAnalysis bool) (*model.Feedback, error) {
	feedback := &model.Feedback{
		InterviewID:       interview.ID,
		UserID:            authorID,
		Type:              input.Type,
		OverallRating:     input.OverallRating,
		ContentFeedback:   datatypes.NewJSONType(nonNilCategory(input.ContentFeedback)),
		DeliveryFeedback:  datatypes.NewJSONType(nonNilCategory(input.DeliveryFeedback)),
		TechnicalFeedback: datatypes.NewJSONType(nonNilCategory(input.TechnicalFeedback)),
		Strengths:         nonNilStrings(input.Strengths),
		Improvements:      nonNilStrings(input.Improvements),
		GeneralComments:   input.GeneralComments,
		FromAnalysis:      fromAnalysis,
	}
	if err := s.FeedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	publishBestEffort(ctx, s.Events, InterviewChannel(interview.ID), EventFeedbackCreated, feedback)

	if _, err := s.PlanService.Accumulate(ctx, interview.UserID, feedback); err != nil {
		return feedback, err
	}
	return feedback, nil
}

// ListInterviewFeedback 所有者与评审人可见
func (s *FeedbackService) ListInterviewFeedback(ctx context.Context, requesterID, interviewID uint) ([]model.Feedback, error) {
	interview, err := s.InterviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.IsOwner(requesterID) && !interview.IsPeerReviewer(requesterID) {
		return nil, util.ErrFeedbackViewForbidden
	}
	return s.FeedbackRepo.ListByInterview(ctx, interviewID)
}

func categoryFromAnalysis(items map[string]AnalysisItem) model.CategoryFeedback {
	out := make(model.CategoryFeedback, len(items))
	for key, item := range items {
		score := clampScore(item.Score)
		out[key] = model.SubcategoryFeedback{Score: &score, Comments: item.Feedback}
	}
	return out
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 5:
		return 5
	}
	return v
}

func nonNilCategory(c model.CategoryFeedback) model.CategoryFeedback {
	if c == nil {
		return model.CategoryFeedback{}
	}
	return c
}

func nonNilStrings(s []string) datatypes.JSONSlice[string] {
	if s == nil {
		return datatypes.JSONSlice[string]{}
	}
	return s
}
