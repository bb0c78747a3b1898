package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Candidate UserRole = "candidate"
	Reviewer  UserRole = "reviewer"
	Admin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Candidate, Reviewer, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	FirstName         string                      `gorm:"size:100;not null" json:"firstName"`
	LastName          string                      `gorm:"size:100" json:"lastName"`
	Email             string                      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password          string                      `gorm:"size:100;not null" json:"-"`
	Role              UserRole                    `gorm:"type:varchar(20);default:'candidate'" json:"role"`
	ProfilePicture    string                      `gorm:"size:255" json:"profilePicture"`
	Industries        datatypes.JSONSlice[string] `json:"industries"`
	JobTitles         datatypes.JSONSlice[string] `json:"jobTitles"`
	SkillLevel        string                      `gorm:"size:20;default:'intermediate'" json:"skillLevel"`
	ImprovementPlanID *uint                       `gorm:"index" json:"improvementPlan,omitempty"`
	LastLogin         *time.Time                  `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary 嵌入反馈/邀请列表时只暴露的联系人字段
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}
