package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/testutil"
	"careerzoom_backend/internal/util"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeMeetings struct {
	createErr  error
	recordings []ZoomRecording
}

func (m *fakeMeetings) CreateMeeting(ctx context.Context, req MeetingRequest) (*ZoomMeeting, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &ZoomMeeting{ID: "987654", Topic: req.Topic, StartURL: "https://zoom.example/start", JoinURL: "https://zoom.example/join"}, nil
}

func (m *fakeMeetings) GetMeeting(ctx context.Context, meetingID string) (*ZoomMeeting, error) {
	return &ZoomMeeting{ID: meetingID, JoinURL: "https://zoom.example/join"}, nil
}

func (m *fakeMeetings) GetRecordings(ctx context.Context, meetingID string) ([]ZoomRecording, error) {
	return m.recordings, nil
}

type fakeAnalyzer struct {
	mu     sync.Mutex
	calls  int
	result *InterviewAnalysis
	err    error
}

func (a *fakeAnalyzer) AnalyzeInterview(ctx context.Context, input InterviewAnalysisInput) (*InterviewAnalysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func sampleAnalysis() *InterviewAnalysis {
	return &InterviewAnalysis{
		OverallScore: 3.5,
		ContentAnalysis: map[string]AnalysisItem{
			"clarity":   {Score: 4, Feedback: "clear"},
			"relevance": {Score: 2, Feedback: "off topic"},
		},
		DeliveryAnalysis: map[string]AnalysisItem{"pacing": {Score: 3, Feedback: "ok"}},
		KeyInsights:      []string{"Structured answers"},
		ImprovementAreas: []string{"Stay on topic"},
	}
}

type interviewFixture struct {
	*planFixture
	meetings  *fakeMeetings
	analyzer  *fakeAnalyzer
	jobs      *repository.AnalysisJobRepository
	questions *repository.QuestionRepository
	svc       *InterviewService
	reviews   *FeedbackService
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	pf := newPlanFixture(t)
	f := &interviewFixture{
		planFixture: pf,
		meetings:    &fakeMeetings{},
		analyzer:    &fakeAnalyzer{result: sampleAnalysis()},
		jobs:        repository.NewAnalysisJobRepository(pf.db),
		questions:   repository.NewQuestionRepository(pf.db),
	}
	f.svc = NewInterviewService(pf.interviews, f.questions, pf.users, f.jobs, f.meetings, f.analyzer)
	f.reviews = NewFeedbackService(pf.feedback, pf.interviews, pf.service, pf.events)
	return f
}

func TestCreateInterviewDefaultsAndGenericQuestions(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "create@example.com")

	interview, err := f.svc.Create(ctx, owner.ID, CreateInterviewInput{})
	if err != nil {
		t.Fatal(err)
	}
	if interview.Title != "Interview Session" || interview.Industry != "Technology" || interview.JobTitle != "Software Engineer" {
		t.Fatalf("defaults not applied: %+v", interview)
	}
	if interview.Difficulty != model.DifficultyIntermediate || interview.Duration != 30 || interview.Status != model.InterviewScheduled {
		t.Fatalf("defaults not applied: %+v", interview)
	}
	if interview.InterviewDate == nil {
		t.Fatal("interview date should default to now")
	}
	if len(interview.Questions) != len(genericQuestions) {
		t.Fatalf("questions = %d, want %d generic", len(interview.Questions), len(genericQuestions))
	}
	if interview.ZoomMeetingID != "987654" {
		t.Fatalf("zoom meeting = %q", interview.ZoomMeetingID)
	}

	// 通用题只落库一次
	if _, err := f.svc.Create(ctx, owner.ID, CreateInterviewInput{}); err != nil {
		t.Fatal(err)
	}
	var count int64
	f.db.Model(&model.Question{}).Count(&count)
	if count != int64(len(genericQuestions)) {
		t.Fatalf("questions stored = %d, want %d", count, len(genericQuestions))
	}

	detail, err := f.svc.Get(ctx, owner.ID, interview.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.ZoomJoinURL != "https://zoom.example/join" || len(detail.Questions) != len(genericQuestions) {
		t.Fatalf("stored interview = %+v", detail)
	}
}

func TestCreateInterviewMatchesQuestionBank(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "bank@example.com")
	f.meetings.createErr = errors.New("zoom down")

	for i := 0; i < 12; i++ {
		err := f.questions.Create(ctx, &model.Question{
			Text:       "bank question " + string(rune('a'+i)),
			Industry:   "Data Science",
			JobTitle:   "Data Analyst",
			Difficulty: model.DifficultyAdvanced,
			Type:       model.QuestionTechnical,
			IsPublic:   true,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	interview, err := f.svc.Create(ctx, owner.ID, CreateInterviewInput{
		Industry:   "Data Science",
		JobTitle:   "Data Analyst",
		Difficulty: model.DifficultyAdvanced,
	})
	if err != nil {
		t.Fatalf("meeting failure must not fail creation: %v", err)
	}
	if len(interview.Questions) != maxInterviewQuestions {
		t.Fatalf("questions = %d, want %d", len(interview.Questions), maxInterviewQuestions)
	}
	if interview.ZoomMeetingID != "" {
		t.Fatalf("zoom meeting = %q, want none", interview.ZoomMeetingID)
	}
}

func TestInterviewOwnershipChecks(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "own@example.com")
	peer := testutil.CreateUser(t, f.db, "peer@example.com")
	stranger := testutil.CreateUser(t, f.db, "stranger@example.com")
	interview := testutil.CreateInterview(t, f.db, owner.ID)

	if err := f.svc.InvitePeer(ctx, owner.ID, interview.ID, "nobody@example.com"); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("unknown email err = %v", err)
	}
	if err := f.svc.InvitePeer(ctx, owner.ID, interview.ID, "own@example.com"); !errors.Is(err, util.ErrCannotInviteSelf) {
		t.Fatalf("self invite err = %v", err)
	}
	if err := f.svc.InvitePeer(ctx, owner.ID, interview.ID, " Peer@Example.com "); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if err := f.svc.InvitePeer(ctx, owner.ID, interview.ID, "peer@example.com"); !errors.Is(err, util.ErrAlreadyPeerReviewer) {
		t.Fatalf("duplicate invite err = %v", err)
	}
	if err := f.svc.InvitePeer(ctx, peer.ID, interview.ID, "stranger@example.com"); !errors.Is(err, util.ErrNotInterviewOwner) {
		t.Fatalf("peer inviting err = %v", err)
	}

	if _, err := f.svc.Get(ctx, peer.ID, interview.ID); err != nil {
		t.Fatalf("peer get: %v", err)
	}
	if _, err := f.svc.Get(ctx, stranger.ID, interview.ID); !errors.Is(err, util.ErrNotInterviewOwner) {
		t.Fatalf("stranger get err = %v", err)
	}
	if _, err := f.svc.Start(ctx, peer.ID, interview.ID); !errors.Is(err, util.ErrNotInterviewOwner) {
		t.Fatalf("peer start err = %v", err)
	}
	if _, err := f.svc.Analyze(ctx, peer.ID, interview.ID); !errors.Is(err, util.ErrNotInterviewOwner) {
		t.Fatalf("peer analyze err = %v", err)
	}
	if err := f.svc.Delete(ctx, stranger.ID, interview.ID); !errors.Is(err, util.ErrNotInterviewOwner) {
		t.Fatalf("stranger delete err = %v", err)
	}

	invitations, err := f.svc.Invitations(ctx, peer.ID)
	if err != nil || len(invitations) != 1 {
		t.Fatalf("invitations = %v, %v", invitations, err)
	}
}

func TestStartInterviewMockDetails(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "start@example.com")
	interview := testutil.CreateInterview(t, f.db, owner.ID)

	result, err := f.svc.Start(ctx, owner.ID, interview.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Interview.Status != model.InterviewInProgress {
		t.Fatalf("status = %q", result.Interview.Status)
	}
	if result.ZoomDetails.ID != "mock-meeting-id" || result.ZoomDetails.JoinURL != "https://mock-zoom-url.com" {
		t.Fatalf("zoom details = %+v", result.ZoomDetails)
	}
}

func TestEndInterviewQueuesAnalysis(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "end@example.com")
	short := testutil.CreateInterview(t, f.db, owner.ID)
	long := testutil.CreateInterview(t, f.db, owner.ID)

	result, err := f.svc.End(ctx, owner.ID, short.ID, "too short")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != model.InterviewCompleted || !result.HasTranscript || result.AnalysisQueued {
		t.Fatalf("short transcript result = %+v", result)
	}
	if job, _ := f.jobs.FindByInterviewID(ctx, short.ID); job != nil {
		t.Fatalf("short transcript queued a job: %+v", job)
	}

	transcript := strings.Repeat("I led the migration of our billing system. ", 5)
	result, err = f.svc.End(ctx, owner.ID, long.ID, transcript)
	if err != nil {
		t.Fatal(err)
	}
	if !result.AnalysisQueued {
		t.Fatalf("long transcript not queued: %+v", result)
	}
	// 重复结束不会产生第二个任务
	if _, err := f.svc.End(ctx, owner.ID, long.ID, transcript); err != nil {
		t.Fatal(err)
	}
	var count int64
	f.db.Model(&model.AnalysisJob{}).Where("interview_id = ?", long.ID).Count(&count)
	if count != 1 {
		t.Fatalf("jobs = %d, want 1", count)
	}
}

func TestAnalyzeRequiresContent(t *testing.T) {
	f := newInterviewFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "analyze@example.com")
	interview := testutil.CreateInterview(t, f.db, owner.ID)

	if _, err := f.svc.Analyze(ctx, owner.ID, interview.ID); !errors.Is(err, util.ErrNothingToAnalyze) {
		t.Fatalf("err = %v, want ErrNothingToAnalyze", err)
	}
	if f.analyzer.calls != 0 {
		t.Fatalf("analyzer called without content")
	}

	if _, err := f.svc.End(ctx, owner.ID, interview.ID, "A short answer about teamwork."); err != nil {
		t.Fatal(err)
	}
	analysis, err := f.svc.Analyze(ctx, owner.ID, interview.ID)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.OverallScore != 3.5 {
		t.Fatalf("analysis = %+v", analysis)
	}
	stored, _ := f.interviews.FindByID(ctx, interview.ID)
	if !stored.HasAnalysis() {
		t.Fatal("analysis results not stored")
	}
}
