package dto

import (
	"time"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
)

// ForumPostDTO represents a forum post in API responses.
type ForumPostDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Category    string            `json:"category,omitempty"`
	AuthorID    uint64            `json:"author_id"`
	IsPinned    bool              `json:"is_pinned"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UpvoteCount int               `json:"upvote_count"`
	HasUpvoted  bool              `json:"has_upvoted"`
	Author      *UserDTO          `json:"author,omitempty"`
	Comments    []ForumCommentDTO `json:"comments,omitempty"`
}

// ForumCommentDTO is one entry of a post's comment list, with its own upvote set.
type ForumCommentDTO struct {
	ID          uint64    `json:"id"`
	Text        string    `json:"text"`
	UpvoteCount int       `json:"upvote_count"`
	HasUpvoted  bool      `json:"has_upvoted"`
	User        *UserDTO  `json:"user,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToForumPostDTO converts a ForumPost model to ForumPostDTO for the given viewer.
func ToForumPostDTO(post models.ForumPost, viewerID uint64) ForumPostDTO {
	dto := ForumPostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		Category:    post.Category,
		AuthorID:    post.AuthorID,
		IsPinned:    post.IsPinned,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		UpvoteCount: len(post.Upvotes),
	}

	for _, upvote := range post.Upvotes {
		if viewerID != 0 && upvote.UserID == viewerID {
			dto.HasUpvoted = true
			break
		}
	}

	if post.Author.ID != 0 {
		author := ToUserDTO(post.Author)
		dto.Author = &author
	}

	if len(post.Comments) > 0 {
		dto.Comments = make([]ForumCommentDTO, len(post.Comments))
		for i, comment := range post.Comments {
			dto.Comments[i] = toForumCommentDTO(comment, viewerID)
		}
	}

	return dto
}

func toForumCommentDTO(comment models.ForumComment, viewerID uint64) ForumCommentDTO {
	dto := ForumCommentDTO{
		ID:          comment.ID,
		Text:        comment.Text,
		UpvoteCount: len(comment.Upvotes),
		CreatedAt:   comment.CreatedAt,
	}

	for _, upvote := range comment.Upvotes {
		if viewerID != 0 && upvote.UserID == viewerID {
			dto.HasUpvoted = true
			break
		}
	}

	if comment.User.ID != 0 {
		user := ToUserDTO(comment.User)
		dto.User = &user
	}
	return dto
}

// ToForumPostDTOs converts a slice of posts for the given viewer.
func ToForumPostDTOs(posts []models.ForumPost, viewerID uint64) []ForumPostDTO {
	out := make([]ForumPostDTO, len(posts))
	for i, p := range posts {
		out[i] = ToForumPostDTO(p, viewerID)
	}
	return out
}
