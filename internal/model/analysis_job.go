package model

import "time"

type AnalysisJobStatus string

const (
	JobQueued    AnalysisJobStatus = "queued"
	JobRunning   AnalysisJobStatus = "running"
	JobSucceeded AnalysisJobStatus = "succeeded"
	JobFailed    AnalysisJobStatus = "failed"
)

// AnalysisJob 面试结束后的转写分析任务，每场面试最多一条
// swagger:model AnalysisJob
type AnalysisJob struct {
	UUIDBase
	InterviewID uint              `gorm:"uniqueIndex;not null" json:"interviewId"`
	Status      AnalysisJobStatus `gorm:"type:varchar(20);index;default:'queued'" json:"status"`
	Attempts    int               `gorm:"default:0" json:"attempts"`
	LastError   string            `gorm:"type:text" json:"lastError,omitempty"`
	LastErrorAt *time.Time        `json:"lastErrorAt,omitempty"`
	LockedAt    *time.Time        `json:"lockedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}
