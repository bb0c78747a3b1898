package service

import (
	"careerzoom_backend/internal/model"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormatImprovementPlan(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	plan := model.NewImprovementPlan(7)
	plan.ID = 42
	plan.CreatedAt = created
	plan.Progress.LatestInterviewScore = 3.25
	plan.Progress.ConsistentWeakAreas = []string{"delivery_pacing", "legacy"}
	plan.Progress.ConsistentStrengthAreas = []string{"content_clarity", "technical_problem_solving"}
	plan.Recommendations = []model.PlanRecommendation{
		{
			Area:        "delivery_pacing",
			Description: "Slow down and pause between points.",
			Resources: []model.PlanResource{
				{Title: "Pacing drills", URL: "https://example.com/pacing", Type: "video"},
				{Title: "Breathing guide", URL: "https://example.com/breath", Type: "article"},
			},
		},
	}
	plan.Goals = []model.PlanGoal{
		{Area: "delivery_pacing", Description: "Practice timed answers", Priority: model.GoalPriorityHigh, Status: model.GoalNotStarted},
	}
	interview := &model.Interview{BaseModel: model.BaseModel{ID: 9}}

	view := FormatImprovementPlan(plan, interview)

	if view.ID != "42" || view.InterviewID != 9 || view.UserID != 7 || !view.CreatedAt.Equal(created) {
		t.Fatalf("identity fields wrong: %+v", view)
	}
	if want := []string{"Clarity", "Problem_solving"}; !reflect.DeepEqual(view.StrengthAreas, want) {
		t.Errorf("strengths = %v, want %v", view.StrengthAreas, want)
	}
	if want := []string{"Pacing", "legacy"}; !reflect.DeepEqual(view.ImprovementAreas, want) {
		t.Errorf("improvements = %v, want %v", view.ImprovementAreas, want)
	}

	wantSummary := "Based on your interview performance, you've shown strengths in Clarity, Problem_solving but could benefit from improvement in Pacing, legacy. Your overall performance score is 3.3/5. Focus on the recommended areas below to enhance your interview skills."
	if view.Summary != wantSummary {
		t.Errorf("summary =\n%q\nwant\n%q", view.Summary, wantSummary)
	}

	if len(view.FocusAreas) != 1 {
		t.Fatalf("focus areas = %d, want 1", len(view.FocusAreas))
	}
	focus := view.FocusAreas[0]
	if focus.Title != "Delivery_pacing" {
		t.Errorf("focus title = %q", focus.Title)
	}
	if want := []string{"Pacing drills", "Breathing guide"}; !reflect.DeepEqual(focus.Recommendations, want) {
		t.Errorf("focus recommendations = %v", focus.Recommendations)
	}
	if want := []ResourceView{{Title: "Pacing drills", Type: "Video"}, {Title: "Breathing guide", Type: "Article"}}; !reflect.DeepEqual(focus.Resources, want) {
		t.Errorf("focus resources = %v", focus.Resources)
	}

	if want := []string{"Practice timed answers (high priority)"}; !reflect.DeepEqual(view.NextSteps, want) {
		t.Errorf("next steps = %v", view.NextSteps)
	}
}

func TestFormatImprovementPlanEmptyDefaults(t *testing.T) {
	plan := model.NewImprovementPlan(1)
	view := FormatImprovementPlan(plan, &model.Interview{})

	want := "Based on your interview performance, you've shown strengths in several areas but could benefit from improvement in certain aspects. Your overall performance score is 0.0/5. Focus on the recommended areas below to enhance your interview skills."
	if view.Summary != want {
		t.Errorf("summary = %q", view.Summary)
	}
	if !reflect.DeepEqual(view.NextSteps, defaultNextSteps) {
		t.Errorf("next steps = %v", view.NextSteps)
	}
	if view.FocusAreas == nil || view.StrengthAreas == nil || view.ImprovementAreas == nil {
		t.Errorf("list fields must be non-nil: %+v", view)
	}
}

func TestFormatImprovementPlanDoesNotMutate(t *testing.T) {
	plan := model.NewImprovementPlan(1)
	plan.Progress.ConsistentWeakAreas = []string{"content_depth"}
	before := append([]string(nil), plan.Progress.ConsistentWeakAreas...)

	FormatImprovementPlan(plan, &model.Interview{})

	if !reflect.DeepEqual([]string(plan.Progress.ConsistentWeakAreas), before) {
		t.Fatalf("plan mutated: %v", plan.Progress.ConsistentWeakAreas)
	}
}

func TestStarterPlan(t *testing.T) {
	created := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	interview := &model.Interview{BaseModel: model.BaseModel{ID: 3, CreatedAt: created}, UserID: 5}

	view := StarterPlan(interview, 5)

	if view.ID != StarterPlanID || view.InterviewID != 3 || view.UserID != 5 || !view.CreatedAt.Equal(created) {
		t.Fatalf("identity fields wrong: %+v", view)
	}
	if len(view.StrengthAreas) != 0 || len(view.ImprovementAreas) != 0 {
		t.Errorf("areas should be empty: %+v", view)
	}
	if len(view.FocusAreas) != 1 || view.FocusAreas[0].Title != "Complete Your Interview" {
		t.Fatalf("focus areas = %+v", view.FocusAreas)
	}
	if got := view.FocusAreas[0].Recommendations[0]; got != `Start the interview by clicking "Start Now" from the dashboard` {
		t.Errorf("first recommendation = %q", got)
	}
	if want := []string{"Start your scheduled interview", "Complete all interview questions", "Request feedback from peers or use AI analysis"}; !reflect.DeepEqual(view.NextSteps, want) {
		t.Errorf("next steps = %v", view.NextSteps)
	}
}

func TestOneDecimalRoundsHalfUp(t *testing.T) {
	cases := map[float64]string{
		3.25: "3.3",
		2.25: "2.3",
		3.24: "3.2",
		4:    "4.0",
		0:    "0.0",
	}
	for in, want := range cases {
		if got := oneDecimal(in); got != want {
			t.Fatalf("oneDecimal(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSummaryScoreRoundsHalfUp(t *testing.T) {
	plan := model.NewImprovementPlan(1)
	plan.Progress.LatestInterviewScore = 2.25
	view := FormatImprovementPlan(plan, &model.Interview{})
	if !strings.Contains(view.Summary, "score is 2.3/5") {
		t.Fatalf("summary = %q", view.Summary)
	}
}
