package service

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"careerzoom_backend/pkg/monitoring"
	"careerzoom_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var errEmptyCompletion = errors.New("empty completion from AI vendor")

type AIService struct {
	config config.AIConfig
	client *resty.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &AIService{config: cfg, client: client}
}

func (s *AIService) MockEnabled() bool {
	return s.config.MockEnabled()
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []AIChatMessage   `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

// AnalysisItem 单个维度的评分与点评
type AnalysisItem struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type QuestionAnalysis struct {
	Question        string  `json:"question"`
	ResponseQuality float64 `json:"responseQuality"`
	Feedback        string  `json:"feedback"`
}

// InterviewAnalysis 面试转写的结构化分析结果，原样存入 interviews.analysis_results
type InterviewAnalysis struct {
	OverallScore      float64                 `json:"overallScore"`
	ContentAnalysis   map[string]AnalysisItem `json:"contentAnalysis"`
	DeliveryAnalysis  map[string]AnalysisItem `json:"deliveryAnalysis"`
	TechnicalAnalysis map[string]AnalysisItem `json:"technicalAnalysis,omitempty"`
	QuestionAnalysis  []QuestionAnalysis      `json:"questionAnalysis"`
	KeyInsights       []string                `json:"keyInsights"`
	ImprovementAreas  []string                `json:"improvementAreas"`
}

type InterviewAnalysisInput struct {
	InterviewID  uint
	Transcript   string
	RecordingURL string
	Questions    []string
	Industry     string
	JobTitle     string
}

// GenerateRecommendations 根据弱项标签生成练习建议
func (s *AIService) GenerateRecommendations(ctx context.Context, weakAreas []string) ([]model.PlanRecommendation, error) {
	if s.config.MockEnabled() {
		logger.Log.Debug("AI 未配置密钥，使用模拟建议", zap.Strings("weakAreas", weakAreas))
		return mockRecommendations(weakAreas), nil
	}

	readable := make([]string, 0, len(weakAreas))
	for _, area := range weakAreas {
		readable = append(readable, util.HumanizeTag(area))
	}
	areas := strings.Join(readable, ", ")

	systemPrompt := fmt.Sprintf(`You are an expert career coach providing targeted recommendations for interview improvement.
The user has demonstrated weaknesses in the following areas: %s.

Generate personalized recommendations including:
1. The key area to focus on
2. A detailed description of how to improve
3. Specific resources (articles, videos, courses, books, or practice exercises)

Respond with a JSON object {"recommendations": [...]} where each item has the structure:
{
  "area": "content|delivery|technical",
  "description": "Brief description of what to improve",
  "resources": [
    {"title": "Resource title", "url": "https://example.com/resource", "type": "article|video|course|book|practice"}
  ]
}`, areas)

	content, err := s.chatJSON(ctx, "recommendations", systemPrompt,
		"Please provide recommendations for improving in these areas: "+areas)
	if err != nil {
		return nil, err
	}
	return parseRecommendations(content)
}

// parseRecommendations 兼容直接返回数组和 {"recommendations": [...]} 两种形式
func parseRecommendations(content string) ([]model.PlanRecommendation, error) {
	raw := gjson.Parse(content)
	if !raw.IsArray() {
		raw = gjson.Get(content, "recommendations")
	}
	if !raw.IsArray() {
		return nil, fmt.Errorf("unexpected recommendations payload: %.200s", content)
	}
	var recs []model.PlanRecommendation
	if err := json.Unmarshal([]byte(raw.Raw), &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	for i := range recs {
		if recs[i].Resources == nil {
			recs[i].Resources = []model.PlanResource{}
		}
	}
	return recs, nil
}

// AnalyzeInterview 分析面试转写；仅有录像链接时需要先转写，这里不做语音识别
func (s *AIService) AnalyzeInterview(ctx context.Context, input InterviewAnalysisInput) (*InterviewAnalysis, error) {
	if input.Transcript == "" && input.RecordingURL == "" {
		return nil, util.ErrNothingToAnalyze
	}
	if s.config.MockEnabled() {
		logger.Log.Debug("AI 未配置密钥，使用模拟分析", zap.Uint("interviewId", input.InterviewID))
		return mockInterviewAnalysis(), nil
	}
	if input.Transcript == "" {
		return nil, util.ErrTranscriptRequired
	}

	systemPrompt := fmt.Sprintf(`You are an expert interview coach analyzing a job interview for a %s position in the %s industry.
Analyze the interview transcript and provide a detailed assessment including:
1. Overall performance rating (1-5 scale) as "overallScore"
2. "contentAnalysis" keyed by clarity, relevance, depth, structure
3. "deliveryAnalysis" keyed by confidence, pacing, articulation
4. "technicalAnalysis" keyed by accuracy, problemSolving, domainKnowledge
5. "questionAnalysis": [{"question", "responseQuality", "feedback"}]
6. "keyInsights" and "improvementAreas" as string arrays

Every analysis entry has the shape {"score": <1-5>, "feedback": "<text>"}.

The candidate was asked the following questions:
%s

Format your analysis as a structured JSON object.`, input.JobTitle, input.Industry, strings.Join(input.Questions, "\n"))

	content, err := s.chatJSON(ctx, "analysis", systemPrompt, input.Transcript)
	if err != nil {
		return nil, err
	}

	var analysis InterviewAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("decode interview analysis: %w", err)
	}
	return &analysis, nil
}

// chatJSON 调用对话补全接口并返回 choices[0].message.content；5xx 与 429 指数退避重试
func (s *AIService) chatJSON(ctx context.Context, operation, systemPrompt, userPrompt string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ai."+operation, attribute.String("ai.model", s.config.Model))
	defer monitoring.ObserveVendorCall("openai", operation)()

	payload := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	var content string
	attempt := func() error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post("/chat/completions")
		if err != nil {
			return err
		}
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500 {
			return fmt.Errorf("ai vendor status %d", resp.StatusCode())
		}
		if resp.IsError() {
			msg := gjson.GetBytes(resp.Body(), "error.message").String()
			return backoff.Permanent(fmt.Errorf("ai vendor status %d: %s", resp.StatusCode(), msg))
		}
		content = strings.TrimSpace(gjson.GetBytes(resp.Body(), "choices.0.message.content").String())
		if content == "" {
			return backoff.Permanent(errEmptyCompletion)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, 3), ctx))
	tracing.EndSpan(span, err)
	if err != nil {
		logger.Log.Error("AI 接口调用失败", zap.String("operation", operation), zap.Error(err))
		return "", err
	}
	return content, nil
}

func mockRecommendations(weakAreas []string) []model.PlanRecommendation {
	has := func(tags ...string) bool {
		for _, area := range weakAreas {
			for _, tag := range tags {
				if area == tag {
					return true
				}
			}
		}
		return false
	}

	recs := []model.PlanRecommendation{}
	if has("content_clarity", "content_structure") {
		recs = append(recs, model.PlanRecommendation{
			Area:        model.CategoryContent,
			Description: "Improve answer structure and clarity",
			Resources: []model.PlanResource{
				{Title: "The STAR Method for Behavioral Interviews", URL: "https://example.com/star-method", Type: "article"},
				{Title: "Structured Communication Techniques", URL: "https://example.com/structured-communication", Type: "video"},
			},
		})
	}
	if has("delivery_confidence", "delivery_bodyLanguage") {
		recs = append(recs, model.PlanRecommendation{
			Area:        model.CategoryDelivery,
			Description: "Enhance confidence and body language",
			Resources: []model.PlanResource{
				{Title: "Body Language Mastery for Interviews", URL: "https://example.com/body-language", Type: "course"},
				{Title: "Confidence Building Exercises", URL: "https://example.com/confidence", Type: "practice"},
			},
		})
	}
	if has("technical_accuracy", "technical_problemSolving") {
		recs = append(recs, model.PlanRecommendation{
			Area:        model.CategoryTechnical,
			Description: "Strengthen technical knowledge and problem-solving",
			Resources: []model.PlanResource{
				{Title: "Technical Interview Problem Solving", URL: "https://example.com/technical-problems", Type: "course"},
				{Title: "Industry-Specific Knowledge Guide", URL: "https://example.com/industry-knowledge", Type: "book"},
			},
		})
	}
	return recs
}

func mockInterviewAnalysis() *InterviewAnalysis {
	return &InterviewAnalysis{
		OverallScore: 4.2,
		ContentAnalysis: map[string]AnalysisItem{
			"relevance": {Score: 4.5, Feedback: "Answers were highly relevant to the questions asked."},
			"depth":     {Score: 4.0, Feedback: "Most answers were complete, but some technical details could be expanded upon."},
			"structure": {Score: 3.9, Feedback: "Answers had a good structure but could benefit from clearer organization in some cases."},
		},
		DeliveryAnalysis: map[string]AnalysisItem{
			"confidence":   {Score: 4.1, Feedback: "Demonstrated good confidence throughout most of the interview."},
			"articulation": {Score: 4.4, Feedback: "Speech was clear and well-articulated."},
			"pacing":       {Score: 3.8, Feedback: "Pacing was generally good but occasionally too rapid when discussing complex topics."},
			"bodyLanguage": {Score: 3.7, Feedback: "Generally positive body language, but could improve eye contact and reduce nervous gestures."},
		},
		TechnicalAnalysis: map[string]AnalysisItem{
			"accuracy": {Score: 4.3, Feedback: "Technical information provided was accurate and well-explained."},
		},
		QuestionAnalysis: []QuestionAnalysis{
			{Question: "Tell me about yourself", ResponseQuality: 4.5, Feedback: "Excellent overview of relevant experience and skills. Well-structured narrative."},
			{Question: "What is your greatest professional achievement?", ResponseQuality: 4.3, Feedback: "Good example with clear impact metrics. Could strengthen by explaining your specific contributions more clearly."},
			{Question: "How do you handle conflict in the workplace?", ResponseQuality: 3.9, Feedback: "Solid framework for conflict resolution. Consider adding a more specific example to illustrate your approach."},
		},
		KeyInsights: []string{
			"Strong technical knowledge demonstrated throughout",
			"Excellent communication skills and articulation",
			"Good preparation for common questions",
			"Could improve specific examples for behavioral questions",
			"Occasional nervous gestures could be reduced",
		},
		ImprovementAreas: []string{
			"Body language - reduce fidgeting and improve eye contact",
			"Take more time when answering technical questions",
			"Provide more quantifiable results in achievement examples",
			"Be more concise in responses to behavioral questions",
		},
	}
}
