package model

import (
	"time"

	"gorm.io/datatypes"
)

type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not-started"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
)

type PlanGoal struct {
	Area        string       `json:"area"`
	Description string       `json:"description"`
	Priority    GoalPriority `json:"priority"`
	Status      GoalStatus   `json:"status"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
}

type PlanResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type PlanRecommendation struct {
	Area        string         `json:"area"`
	Description string         `json:"description"`
	Resources   []PlanResource `json:"resources"`
}

// PlanProgress 弱项/强项集合只增不减
type PlanProgress struct {
	LatestInterviewScore    float64                     `gorm:"default:0" json:"latestInterviewScore"`
	ImprovementPercentage   float64                     `gorm:"default:0" json:"improvementPercentage"`
	ConsistentWeakAreas     datatypes.JSONSlice[string] `json:"consistentWeakAreas"`
	ConsistentStrengthAreas datatypes.JSONSlice[string] `json:"consistentStrengthAreas"`
}

// ImprovementPlan 每个用户唯一，Version 用于乐观锁
// swagger:model ImprovementPlan
type ImprovementPlan struct {
	BaseModel
	UserID          uint                                    `gorm:"uniqueIndex;not null" json:"user"`
	Goals           datatypes.JSONSlice[PlanGoal]           `json:"goals"`
	Recommendations datatypes.JSONSlice[PlanRecommendation] `json:"recommendations"`
	Progress        PlanProgress                            `gorm:"embedded;embeddedPrefix:progress_" json:"progress"`
	Version         int                                     `gorm:"not null;default:1" json:"version"`
}

func (ImprovementPlan) TableName() string {
	return "improvement_plans"
}

func NewImprovementPlan(userID uint) *ImprovementPlan {
	return &ImprovementPlan{
		UserID:          userID,
		Goals:           datatypes.JSONSlice[PlanGoal]{},
		Recommendations: datatypes.JSONSlice[PlanRecommendation]{},
		Progress: PlanProgress{
			ConsistentWeakAreas:     datatypes.JSONSlice[string]{},
			ConsistentStrengthAreas: datatypes.JSONSlice[string]{},
		},
		Version: 1,
	}
}
