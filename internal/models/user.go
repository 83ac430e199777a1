package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleVillager  Role = "villager"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleVillager, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(100);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Village      string         `gorm:"type:varchar(100);not null" json:"village"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'villager'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	ReportedProblems []Problem   `gorm:"foreignKey:ReportedByID" json:"-"`
	Solutions        []Solution  `gorm:"foreignKey:ProposedByID" json:"-"`
	ForumPosts       []ForumPost `gorm:"foreignKey:AuthorID" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
