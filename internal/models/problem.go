package models

import (
	"time"

	"gorm.io/gorm"
)

type ProblemCategory string

const (
	CategoryWater       ProblemCategory = "water"
	CategoryElectricity ProblemCategory = "electricity"
	CategoryRoads       ProblemCategory = "roads"
	CategorySanitation  ProblemCategory = "sanitation"
	CategoryHealth      ProblemCategory = "health"
	CategoryEducation   ProblemCategory = "education"
	CategoryAgriculture ProblemCategory = "agriculture"
	CategoryOther       ProblemCategory = "other"
)

// ValidCategory reports whether c is a known problem category.
func ValidCategory(c ProblemCategory) bool {
	switch c {
	case CategoryWater, CategoryElectricity, CategoryRoads, CategorySanitation,
		CategoryHealth, CategoryEducation, CategoryAgriculture, CategoryOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type ProblemStatus string

const (
	ProblemStatusOpen       ProblemStatus = "open"
	ProblemStatusInProgress ProblemStatus = "in-progress"
	ProblemStatusResolved   ProblemStatus = "resolved"
	ProblemStatusClosed     ProblemStatus = "closed"
)

func ValidProblemStatus(s ProblemStatus) bool {
	switch s {
	case ProblemStatusOpen, ProblemStatusInProgress, ProblemStatusResolved, ProblemStatusClosed:
		return true
	}
	return false
}

type Problem struct {
	ID                    uint64          `gorm:"primarykey" json:"id"`
	Title                 string          `gorm:"type:varchar(255);not null" json:"title"`
	Description           string          `gorm:"type:text" json:"description"`
	Category              ProblemCategory `gorm:"type:varchar(30);not null" json:"category"`
	Location              string          `gorm:"type:varchar(255)" json:"location"`
	Priority              Priority        `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status                ProblemStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	IsVerified            bool            `gorm:"not null;default:false" json:"is_verified"`
	ReportedByID          uint64          `gorm:"not null" json:"reported_by_id"`
	AssignedToID          *uint64         `json:"assigned_to_id"`
	ResolvedAt            *time.Time      `json:"resolved_at"`
	CompletionMessage     string          `gorm:"type:text" json:"completion_message"`
	IsCompletedByVillager bool            `gorm:"not null;default:false" json:"is_completed_by_villager"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	ReportedBy User            `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
	AssignedTo *User           `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Solutions  []Solution      `gorm:"foreignKey:ProblemID" json:"solutions,omitempty"`
	Upvotes    []ProblemUpvote `gorm:"foreignKey:ProblemID" json:"upvotes,omitempty"`
}

// ProblemUpvote is one member of a problem's upvote toggle set.
type ProblemUpvote struct {
	ProblemID uint64    `gorm:"primarykey" json:"problem_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
