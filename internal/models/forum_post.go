package models

import (
	"time"

	"gorm.io/gorm"
)

type ForumPost struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Category  string         `gorm:"type:varchar(50)" json:"category"`
	AuthorID  uint64         `gorm:"not null" json:"author_id"`
	IsPinned  bool           `gorm:"not null;default:false" json:"is_pinned"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author   User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Upvotes  []ForumPostUpvote `gorm:"foreignKey:PostID" json:"upvotes,omitempty"`
	Comments []ForumComment    `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// ForumPostUpvote is one member of a forum post's upvote toggle set.
type ForumPostUpvote struct {
	PostID    uint64    `gorm:"primarykey" json:"post_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ForumComment carries its own upvote set, independent of the post's.
type ForumComment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"post_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`

	User    User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Upvotes []ForumCommentUpvote `gorm:"foreignKey:CommentID" json:"upvotes,omitempty"`
}

type ForumCommentUpvote struct {
	CommentID uint64    `gorm:"primarykey" json:"comment_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
