package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	defaultInterviewTitle    = "Interview Session"
	defaultInterviewIndustry = "Technology"
	defaultInterviewJobTitle = "Software Engineer"
	defaultVoiceType         = "alloy"
	genericQuestionIndustry  = "General"
	maxInterviewQuestions    = 10
	// 转写超过该长度才排队做自动分析
	minTranscriptForAnalysis = 100
)

var genericQuestions = []model.Question{
	{Text: "Tell me about yourself and your experience.", Type: model.QuestionBehavioral, Difficulty: model.DifficultyBeginner},
	{Text: "What are your strengths and weaknesses?", Type: model.QuestionBehavioral, Difficulty: model.DifficultyIntermediate},
	{Text: "Why do you want to work for this company?", Type: model.QuestionBehavioral, Difficulty: model.DifficultyIntermediate},
	{Text: "Tell me about a challenging project you worked on.", Type: model.QuestionSituational, Difficulty: model.DifficultyIntermediate},
	{Text: "Where do you see yourself in 5 years?", Type: model.QuestionBehavioral, Difficulty: model.DifficultyIntermediate},
}

// MeetingProvider 视频会议接口，ZoomService 为默认实现
type MeetingProvider interface {
	CreateMeeting(ctx context.Context, req MeetingRequest) (*ZoomMeeting, error)
	GetMeeting(ctx context.Context, meetingID string) (*ZoomMeeting, error)
	GetRecordings(ctx context.Context, meetingID string) ([]ZoomRecording, error)
}

// InterviewAnalyzer 面试转写分析，AIService 为默认实现
type InterviewAnalyzer interface {
	AnalyzeInterview(ctx context.Context, input InterviewAnalysisInput) (*InterviewAnalysis, error)
}

type CreateInterviewInput struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Industry      string     `json:"industry"`
	JobTitle      string     `json:"jobTitle"`
	Difficulty    string     `json:"difficulty"`
	Duration      int        `json:"duration"`
	InterviewDate *time.Time `json:"interviewDate"`
	UseVoiceOver  bool       `json:"useVoiceOver"`
	VoiceType     string     `json:"voiceType"`
}

type StartInterviewResult struct {
	Interview   *model.Interview `json:"interview"`
	ZoomDetails *ZoomMeeting     `json:"zoomDetails"`
}

type EndInterviewResult struct {
	*model.Interview
	HasTranscript  bool `json:"hasTranscript"`
	HasRecording   bool `json:"hasRecording"`
	AnalysisQueued bool `json:"analysisQueued"`
}

type InterviewService struct {
	InterviewRepo *repository.InterviewRepository
	QuestionRepo  *repository.QuestionRepository
	UserRepo      *repository.UserRepository
	JobRepo       *repository.AnalysisJobRepository
	Meetings      MeetingProvider
	Analyzer      InterviewAnalyzer
}

func NewInterviewService(
	interviewRepo *repository.InterviewRepository,
	questionRepo *repository.QuestionRepository,
	userRepo *repository.UserRepository,
	jobRepo *repository.AnalysisJobRepository,
	meetings MeetingProvider,
	analyzer InterviewAnalyzer,
) *InterviewService {
	return &InterviewService{
		InterviewRepo: interviewRepo,
		QuestionRepo:  questionRepo,
		UserRepo:      userRepo,
		JobRepo:       jobRepo,
		Meetings:      meetings,
		Analyzer:      analyzer,
	}
}

func (s *InterviewService) Create(ctx context.Context, ownerID uint, input CreateInterviewInput) (*model.Interview, error) {
	interview := &model.Interview{
		Title:        firstNonEmpty(input.Title, defaultInterviewTitle),
		Description:  input.Description,
		UserID:       ownerID,
		Industry:     firstNonEmpty(input.Industry, defaultInterviewIndustry),
		JobTitle:     firstNonEmpty(input.JobTitle, defaultInterviewJobTitle),
		Difficulty:   firstNonEmpty(input.Difficulty, model.DifficultyIntermediate),
		Duration:     input.Duration,
		Status:       model.InterviewScheduled,
		UseVoiceOver: input.UseVoiceOver,
		VoiceType:    firstNonEmpty(input.VoiceType, defaultVoiceType),
	}
	if interview.Duration <= 0 {
		interview.Duration = 30
	}
	date := time.Now()
	if input.InterviewDate != nil {
		date = *input.InterviewDate
	}
	interview.InterviewDate = &date

	questions, err := s.pickQuestions(ctx, interview)
	if err != nil {
		return nil, err
	}
	interview.Questions = questions

	if err := s.InterviewRepo.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}

	s.attachMeeting(ctx, interview)
	return interview, nil
}

// pickQuestions 优先取匹配行业/岗位/难度的公开题目，没有则使用通用题
func (s *InterviewService) pickQuestions(ctx context.Context, interview *model.Interview) ([]model.Question, error) {
	matched, err := s.QuestionRepo.FindPublic(ctx, repository.QuestionFilter{
		Industry:   interview.Industry,
		JobTitle:   interview.JobTitle,
		Difficulty: interview.Difficulty,
	}, maxInterviewQuestions)
	if err != nil {
		logger.Log.Warn("查询题库失败，使用通用题目", zap.Error(err))
	}
	if len(matched) > 0 {
		return matched, nil
	}

	generic := make([]model.Question, len(genericQuestions))
	for i, q := range genericQuestions {
		q.Industry = genericQuestionIndustry
		q.JobTitle = genericQuestionIndustry
		q.Keywords = datatypes.JSONSlice[string]{}
		q.IsPublic = false
		generic[i] = q
	}
	return s.QuestionRepo.EnsureQuestions(ctx, generic)
}

// attachMeeting 会议创建失败不影响面试本身
func (s *InterviewService) attachMeeting(ctx context.Context, interview *model.Interview) {
	if s.Meetings == nil {
		return
	}
	meeting, err := s.Meetings.CreateMeeting(ctx, MeetingRequest{
		Topic:     interview.Title,
		Agenda:    interview.Description,
		Duration:  interview.Duration,
		StartTime: *interview.InterviewDate,
	})
	if err != nil || meeting == nil || meeting.ID == "" {
		logger.Log.Warn("创建 Zoom 会议失败，面试不带会议信息", zap.Uint("interviewId", interview.ID), zap.Error(err))
		return
	}

	interview.ZoomMeetingID = meeting.ID
	interview.ZoomStartURL = meeting.StartURL
	interview.ZoomJoinURL = meeting.JoinURL
	err = s.InterviewRepo.UpdateFields(ctx, interview.ID, map[string]interface{}{
		"zoom_meeting_id": meeting.ID,
		"zoom_start_url":  meeting.StartURL,
		"zoom_join_url":   meeting.JoinURL,
	})
	if err != nil {
		logger.Log.Error("保存 Zoom 会议信息失败", zap.Uint("interviewId", interview.ID), zap.Error(err))
	}
}

func (s *InterviewService) List(ctx context.Context, ownerID uint) ([]model.Interview, error) {
	return s.InterviewRepo.ListByUser(ctx, ownerID)
}

func (s *InterviewService) Invitations(ctx context.Context, reviewerID uint) ([]model.Interview, error) {
	return s.InterviewRepo.ListInvitations(ctx, reviewerID)
}

// Get 所有者与评审人可见
func (s *InterviewService) Get(ctx context.Context, requesterID, interviewID uint) (*model.Interview, error) {
	interview, err := s.InterviewRepo.FindDetail(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.IsOwner(requesterID) && !interview.IsPeerReviewer(requesterID) {
		return nil, util.ErrNotInterviewOwner
	}
	return interview, nil
}

func (s *InterviewService) ownedInterview(ctx context.Context, ownerID, interviewID uint) (*model.Interview, error) {
	interview, err := s.InterviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.IsOwner(ownerID) {
		return nil, util.ErrNotInterviewOwner
	}
	return interview, nil
}

func (s *InterviewService) Start(ctx context.Context, ownerID, interviewID uint) (*StartInterviewResult, error) {
	interview, err := s.ownedInterview(ctx, ownerID, interviewID)
	if err != nil {
		return nil, err
	}
	interview.Status = model.InterviewInProgress
	if err := s.InterviewRepo.UpdateFields(ctx, interview.ID, map[string]interface{}{"status": interview.Status}); err != nil {
		return nil, err
	}

	details := &ZoomMeeting{ID: "mock-meeting-id", JoinURL: "https://mock-zoom-url.com", Topic: interview.Title}
	if interview.ZoomMeetingID != "" && s.Meetings != nil {
		meeting, err := s.Meetings.GetMeeting(ctx, interview.ZoomMeetingID)
		if err != nil {
			logger.Log.Warn("获取 Zoom 会议详情失败，返回模拟信息", zap.Uint("interviewId", interview.ID), zap.Error(err))
		} else {
			details = meeting
		}
	}
	return &StartInterviewResult{Interview: interview, ZoomDetails: details}, nil
}

// End 结束面试；转写足够长时排队自动分析
func (s *InterviewService) End(ctx context.Context, ownerID, interviewID uint, transcript string) (*EndInterviewResult, error) {
	interview, err := s.ownedInterview(ctx, ownerID, interviewID)
	if err != nil {
		return nil, err
	}

	interview.Status = model.InterviewCompleted
	updates := map[string]interface{}{"status": interview.Status}
	if transcript = strings.TrimSpace(transcript); transcript != "" {
		interview.Transcript = transcript
		interview.TranscriptCompleted = true
		updates["transcript"] = transcript
		updates["transcript_completed"] = true
	}

	if s.Meetings != nil && interview.ZoomMeetingID != "" {
		recordings, err := s.Meetings.GetRecordings(ctx, interview.ZoomMeetingID)
		if err != nil {
			logger.Log.Warn("获取录像失败", zap.Uint("interviewId", interview.ID), zap.Error(err))
		} else if len(recordings) > 0 {
			interview.RecordingURL = recordings[0].DownloadURL
			updates["recording_url"] = interview.RecordingURL
		}
	}

	if err := s.InterviewRepo.UpdateFields(ctx, interview.ID, updates); err != nil {
		return nil, err
	}

	result := &EndInterviewResult{
		Interview:     interview,
		HasTranscript: interview.Transcript != "",
		HasRecording:  interview.RecordingURL != "",
	}
	if len(interview.Transcript) > minTranscriptForAnalysis {
		if _, err := s.JobRepo.Enqueue(ctx, interview.ID); err != nil {
			logger.Log.Error("分析任务入队失败", zap.Uint("interviewId", interview.ID), zap.Error(err))
		} else {
			result.AnalysisQueued = true
		}
	}
	return result, nil
}

// Analyze 同步分析并保存结果
func (s *InterviewService) Analyze(ctx context.Context, ownerID, interviewID uint) (*InterviewAnalysis, error) {
	if _, err := s.ownedInterview(ctx, ownerID, interviewID); err != nil {
		return nil, err
	}
	interview, err := s.InterviewRepo.FindDetail(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeAndStore(ctx, interview)
}

// AnalyzeAndStore interview 需要预加载 Questions
func (s *InterviewService) AnalyzeAndStore(ctx context.Context, interview *model.Interview) (*InterviewAnalysis, error) {
	if interview.RecordingURL == "" && interview.Transcript == "" {
		return nil, util.ErrNothingToAnalyze
	}
	if s.Analyzer == nil {
		return nil, errors.New("interview analyzer is not configured")
	}

	questions := make([]string, 0, len(interview.Questions))
	for _, q := range interview.Questions {
		if q.Text != "" {
			questions = append(questions, q.Text)
		}
	}
	analysis, err := s.Analyzer.AnalyzeInterview(ctx, InterviewAnalysisInput{
		InterviewID:  interview.ID,
		Transcript:   interview.Transcript,
		RecordingURL: interview.RecordingURL,
		Questions:    questions,
		Industry:     interview.Industry,
		JobTitle:     interview.JobTitle,
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}
	interview.AnalysisResults = datatypes.JSON(raw)
	if err := s.InterviewRepo.UpdateFields(ctx, interview.ID, map[string]interface{}{"analysis_results": interview.AnalysisResults}); err != nil {
		return nil, fmt.Errorf("store analysis results: %w", err)
	}
	return analysis, nil
}

// StoredAnalysis 解析 interviews.analysis_results 中保存的分析结果
func StoredAnalysis(interview *model.Interview) (*InterviewAnalysis, error) {
	if !interview.HasAnalysis() {
		return nil, util.ErrNothingToAnalyze
	}
	var analysis InterviewAnalysis
	if err := json.Unmarshal(interview.AnalysisResults, &analysis); err != nil {
		return nil, fmt.Errorf("decode stored analysis: %w", err)
	}
	return &analysis, nil
}

func (s *InterviewService) InvitePeer(ctx context.Context, ownerID, interviewID uint, email string) error {
	interview, err := s.ownedInterview(ctx, ownerID, interviewID)
	if err != nil {
		return err
	}
	reviewer, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if reviewer.ID == ownerID {
		return util.ErrCannotInviteSelf
	}
	if interview.IsPeerReviewer(reviewer.ID) {
		return util.ErrAlreadyPeerReviewer
	}
	return s.InterviewRepo.AddPeerReviewer(ctx, interview, reviewer)
}

func (s *InterviewService) Delete(ctx context.Context, ownerID, interviewID uint) error {
	if _, err := s.ownedInterview(ctx, ownerID, interviewID); err != nil {
		return err
	}
	return s.InterviewRepo.Delete(ctx, interviewID)
}

func firstNonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
