package model

import (
	"sort"

	"gorm.io/datatypes"
)

type FeedbackType string

const (
	FeedbackAI   FeedbackType = "ai"
	FeedbackPeer FeedbackType = "peer"
	FeedbackSelf FeedbackType = "self"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackAI, FeedbackPeer, FeedbackSelf:
		return true
	}
	return false
}

// 评价大类，顺序决定分数提取与标签生成的顺序
const (
	CategoryContent   = "content"
	CategoryDelivery  = "delivery"
	CategoryTechnical = "technical"
)

var FeedbackCategories = []string{CategoryContent, CategoryDelivery, CategoryTechnical}

// knownSubcategories 各大类的既定子项，按表单顺序排列
var knownSubcategories = map[string][]string{
	CategoryContent:   {"clarity", "relevance", "depth", "structure"},
	CategoryDelivery:  {"confidence", "pacing", "articulation", "bodyLanguage"},
	CategoryTechnical: {"accuracy", "problemSolving", "domainKnowledge"},
}

// SubcategoryFeedback 单个子项的评分（0-5）与评语，Score 为空表示未评分
type SubcategoryFeedback struct {
	Score    *float64 `json:"score,omitempty"`
	Comments string   `json:"comments,omitempty"`
}

// Scored 零分与未评分同等对待
func (s SubcategoryFeedback) Scored() (float64, bool) {
	if s.Score == nil || *s.Score == 0 {
		return 0, false
	}
	return *s.Score, true
}

type CategoryFeedback map[string]SubcategoryFeedback

// OrderedKeys 先返回既定子项，其余键按字典序追加
func (c CategoryFeedback) OrderedKeys(category string) []string {
	keys := make([]string, 0, len(c))
	seen := make(map[string]bool, len(c))
	for _, k := range knownSubcategories[category] {
		if _, ok := c[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extra []string
	for k := range c {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// swagger:model Feedback
type Feedback struct {
	BaseModel
	InterviewID       uint                                 `gorm:"index;not null" json:"interview"`
	UserID            uint                                 `gorm:"index;not null" json:"userId"`
	User              *User                                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type              FeedbackType                         `gorm:"type:varchar(10);not null" json:"type"`
	OverallRating     float64                              `json:"overallRating"`
	ContentFeedback   datatypes.JSONType[CategoryFeedback] `json:"contentFeedback"`
	DeliveryFeedback  datatypes.JSONType[CategoryFeedback] `json:"deliveryFeedback"`
	TechnicalFeedback datatypes.JSONType[CategoryFeedback] `json:"technicalFeedback"`
	Strengths         datatypes.JSONSlice[string]          `json:"strengths"`
	Improvements      datatypes.JSONSlice[string]          `json:"improvements"`
	GeneralComments   string                               `gorm:"type:text" json:"generalComments"`
	FromAnalysis      bool                                 `gorm:"index;default:false" json:"fromAnalysis"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

// Section 返回指定大类的子项评分，未知大类返回空
func (f *Feedback) Section(category string) CategoryFeedback {
	switch category {
	case CategoryContent:
		return f.ContentFeedback.Data()
	case CategoryDelivery:
		return f.DeliveryFeedback.Data()
	case CategoryTechnical:
		return f.TechnicalFeedback.Data()
	}
	return nil
}
