package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const StarterPlanID = "starter-plan"

var defaultNextSteps = []string{
	"Schedule another practice interview",
	"Review feedback from your previous interviews",
	"Focus on your highest priority improvement areas",
}

// PlanView 面向前端的改进计划视图，不落库
type PlanView struct {
	ID               string      `json:"id"`
	InterviewID      uint        `json:"interviewId"`
	UserID           uint        `json:"userId"`
	CreatedAt        time.Time   `json:"createdAt"`
	Summary          string      `json:"summary"`
	StrengthAreas    []string    `json:"strengthAreas"`
	ImprovementAreas []string    `json:"improvementAreas"`
	FocusAreas       []FocusArea `json:"focusAreas"`
	NextSteps        []string    `json:"nextSteps"`
}

type FocusArea struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Recommendations []string       `json:"recommendations"`
	Resources       []ResourceView `json:"resources"`
}

type ResourceView struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// FormatImprovementPlan 纯函数，不修改 plan
func FormatImprovementPlan(plan *model.ImprovementPlan, interview *model.Interview) PlanView {
	focusAreas := make([]FocusArea, 0, len(plan.Recommendations))
	for _, rec := range plan.Recommendations {
		titles := make([]string, 0, len(rec.Resources))
		resources := make([]ResourceView, 0, len(rec.Resources))
		for _, r := range rec.Resources {
			titles = append(titles, r.Title)
			resources = append(resources, ResourceView{Title: r.Title, Type: util.Capitalize(r.Type)})
		}
		focusAreas = append(focusAreas, FocusArea{
			Title:           util.Capitalize(rec.Area),
			Description:     rec.Description,
			Recommendations: titles,
			Resources:       resources,
		})
	}

	strengths := displayAreas(plan.Progress.ConsistentStrengthAreas)
	improvements := displayAreas(plan.Progress.ConsistentWeakAreas)

	nextSteps := make([]string, 0, len(plan.Goals))
	for _, goal := range plan.Goals {
		nextSteps = append(nextSteps, fmt.Sprintf("%s (%s priority)", goal.Description, goal.Priority))
	}
	if len(nextSteps) == 0 {
		nextSteps = append(nextSteps, defaultNextSteps...)
	}

	return PlanView{
		ID:               strconv.FormatUint(uint64(plan.ID), 10),
		InterviewID:      interview.ID,
		UserID:           plan.UserID,
		CreatedAt:        plan.CreatedAt,
		Summary:          planSummary(strengths, improvements, plan.Progress.LatestInterviewScore),
		StrengthAreas:    strengths,
		ImprovementAreas: improvements,
		FocusAreas:       focusAreas,
		NextSteps:        nextSteps,
	}
}

// StarterPlan 面试还没有任何反馈时返回的引导视图
func StarterPlan(interview *model.Interview, userID uint) PlanView {
	return PlanView{
		ID:               StarterPlanID,
		InterviewID:      interview.ID,
		UserID:           userID,
		CreatedAt:        interview.CreatedAt,
		Summary:          "This interview does not have feedback yet. To generate a personalized improvement plan, you need to either get AI feedback or peer feedback on your interview performance.",
		StrengthAreas:    []string{},
		ImprovementAreas: []string{},
		FocusAreas: []FocusArea{
			{
				Title:       "Complete Your Interview",
				Description: "To get a personalized improvement plan, you need to complete your interview and receive feedback.",
				Recommendations: []string{
					`Start the interview by clicking "Start Now" from the dashboard`,
					"Answer all the interview questions",
					"After completing the interview, wait for AI feedback or invite peers to review",
				},
				Resources: []ResourceView{
					{Title: "How to Get the Most from Mock Interviews", Type: "Guide"},
					{Title: "Interview Preparation Best Practices", Type: "Article"},
				},
			},
		},
		NextSteps: []string{
			"Start your scheduled interview",
			"Complete all interview questions",
			"Request feedback from peers or use AI analysis",
		},
	}
}

// displayAreas content_clarity -> Clarity，没有下划线的标签原样保留
func displayAreas(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		_, specific, found := strings.Cut(tag, "_")
		if !found {
			out = append(out, tag)
			continue
		}
		out = append(out, util.Capitalize(specific))
	}
	return out
}

func planSummary(strengths, improvements []string, score float64) string {
	strengthText := "several areas"
	if len(strengths) > 0 {
		strengthText = strings.Join(strengths, ", ")
	}
	improvementText := "certain aspects"
	if len(improvements) > 0 {
		improvementText = strings.Join(improvements, ", ")
	}
	return fmt.Sprintf("Based on your interview performance, you've shown strengths in %s but could benefit from improvement in %s. Your overall performance score is %s/5. Focus on the recommended areas below to enhance your interview skills.",
		strengthText, improvementText, oneDecimal(score))
}

// oneDecimal 保留一位小数，.x5 向上进位
func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Floor(v*10+0.5)/10, 'f', 1, 64)
}
