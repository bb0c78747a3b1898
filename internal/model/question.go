package model

import "gorm.io/datatypes"

type QuestionType string

const (
	QuestionBehavioral  QuestionType = "behavioral"
	QuestionTechnical   QuestionType = "technical"
	QuestionSituational QuestionType = "situational"
	QuestionCaseStudy   QuestionType = "case-study"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// swagger:model Question
type Question struct {
	BaseModel
	Text         string                      `gorm:"type:text;not null" json:"text"`
	Industry     string                      `gorm:"size:100;index;not null" json:"industry"`
	JobTitle     string                      `gorm:"size:100;index;not null" json:"jobTitle"`
	Difficulty   string                      `gorm:"size:20;default:'intermediate'" json:"difficulty"`
	Type         QuestionType                `gorm:"type:varchar(20);not null" json:"type"`
	SampleAnswer string                      `gorm:"type:text" json:"sampleAnswer,omitempty"`
	Keywords     datatypes.JSONSlice[string] `json:"keywords"`
	CreatedBy    *uint                       `gorm:"index" json:"createdBy,omitempty"`
	IsPublic     bool                        `gorm:"index" json:"isPublic"`
}

func (Question) TableName() string {
	return "questions"
}
