package models

import (
	"time"

	"gorm.io/gorm"
)

type SolutionStatus string

const (
	SolutionStatusPending     SolutionStatus = "pending"
	SolutionStatusApproved    SolutionStatus = "approved"
	SolutionStatusRejected    SolutionStatus = "rejected"
	SolutionStatusImplemented SolutionStatus = "implemented"
)

func ValidSolutionStatus(s SolutionStatus) bool {
	switch s {
	case SolutionStatusPending, SolutionStatusApproved, SolutionStatusRejected, SolutionStatusImplemented:
		return true
	}
	return false
}

type Solution struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	ProblemID     uint64         `gorm:"not null" json:"problem_id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	ProposedByID  uint64         `gorm:"not null" json:"proposed_by_id"`
	Status        SolutionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	EstimatedCost string         `gorm:"type:varchar(100)" json:"estimated_cost"`
	EstimatedTime string         `gorm:"type:varchar(100)" json:"estimated_time"`
	ImplementedAt *time.Time     `json:"implemented_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Problem    Problem           `gorm:"foreignKey:ProblemID" json:"problem,omitempty"`
	ProposedBy User              `gorm:"foreignKey:ProposedByID" json:"proposed_by,omitempty"`
	Upvotes    []SolutionUpvote  `gorm:"foreignKey:SolutionID" json:"upvotes,omitempty"`
	Comments   []SolutionComment `gorm:"foreignKey:SolutionID" json:"comments,omitempty"`
}

// SolutionUpvote is one member of a solution's upvote toggle set.
type SolutionUpvote struct {
	SolutionID uint64    `gorm:"primarykey" json:"solution_id"`
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type SolutionComment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	SolutionID uint64    `gorm:"not null;index" json:"solution_id"`
	UserID     uint64    `gorm:"not null" json:"user_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
