package model

import (
	"time"

	"gorm.io/datatypes"
)

type InterviewStatus string

const (
	InterviewScheduled  InterviewStatus = "scheduled"
	InterviewInProgress InterviewStatus = "in-progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewCancelled  InterviewStatus = "cancelled"
)

// swagger:model Interview
type Interview struct {
	BaseModel
	Title               string          `gorm:"size:255;not null" json:"title"`
	Description         string          `gorm:"type:text" json:"description"`
	UserID              uint            `gorm:"index;not null" json:"user"`
	Owner               *User           `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Industry            string          `gorm:"size:100;not null" json:"industry"`
	JobTitle            string          `gorm:"size:100;not null" json:"jobTitle"`
	Difficulty          string          `gorm:"size:20;default:'intermediate'" json:"difficulty"`
	Questions           []Question      `gorm:"many2many:interview_questions" json:"questions"`
	InterviewDate       *time.Time      `json:"interviewDate"`
	Duration            int             `gorm:"default:30" json:"duration"`
	Status              InterviewStatus `gorm:"type:varchar(20);index;default:'scheduled'" json:"status"`
	ZoomMeetingID       string          `gorm:"size:64" json:"zoomMeetingId,omitempty"`
	ZoomStartURL        string          `gorm:"size:512" json:"zoomStartUrl,omitempty"`
	ZoomJoinURL         string          `gorm:"size:512" json:"zoomJoinUrl,omitempty"`
	RecordingURL        string          `gorm:"size:512" json:"recordingUrl,omitempty"`
	Transcript          string          `gorm:"type:text" json:"transcript,omitempty"`
	TranscriptCompleted bool            `json:"transcriptCompleted"`
	UseVoiceOver        bool            `json:"useVoiceOver"`
	VoiceType           string          `gorm:"size:20;default:'alloy'" json:"voiceType"`
	PeerReviewers       []User          `gorm:"many2many:interview_peer_reviewers" json:"peerReviewers"`
	Feedback            []Feedback      `gorm:"foreignKey:InterviewID" json:"feedback"`
	AnalysisResults     datatypes.JSON  `json:"analysisResults,omitempty"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) IsOwner(userID uint) bool {
	return i.UserID == userID
}

// IsPeerReviewer 需要预加载 PeerReviewers
func (i *Interview) IsPeerReviewer(userID uint) bool {
	for _, reviewer := range i.PeerReviewers {
		if reviewer.ID == userID {
			return true
		}
	}
	return false
}

func (i *Interview) HasAnalysis() bool {
	return len(i.AnalysisResults) > 0 && string(i.AnalysisResults) != "null"
}
