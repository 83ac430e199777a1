package services

import (
	"errors"
	"fmt"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/repository"
	"github.com/saivarshithnaidu/village-connect-backend/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("forum post not found")
	ErrNotPostOwner    = errors.New("not allowed to modify this post")
	ErrCommentNotFound = errors.New("comment not found in this post")
)

// ForumService handles discussion-board business logic.
type ForumService struct {
	forumRepo repository.ForumRepository
}

// NewForumService creates a new ForumService.
func NewForumService(forumRepo repository.ForumRepository) *ForumService {
	return &ForumService{
		forumRepo: forumRepo,
	}
}

// CreateForumPostInput represents a new discussion post.
type CreateForumPostInput struct {
	Title    string
	Content  string
	Category string
}

func (s *ForumService) Create(authorID uint64, input CreateForumPostInput) (*models.ForumPost, error) {
	post := &models.ForumPost{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
		AuthorID: authorID,
	}

	if err := s.forumRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return s.reload(post.ID)
}

// ListForumInput holds the caller-supplied list filters.
type ListForumInput struct {
	Category   string
	Pagination utils.PaginationParams
}

// List returns one page of posts plus the unpaginated total.
func (s *ForumService) List(input ListForumInput) ([]models.ForumPost, int64, error) {
	filter := repository.ForumFilter{Pagination: input.Pagination}
	if input.Category != "" {
		filter.Category = &input.Category
	}
	return s.forumRepo.List(filter)
}

func (s *ForumService) Get(id uint64) (*models.ForumPost, error) {
	post, err := s.forumRepo.FindByID(id,
		"Author", "Upvotes", "Comments", "Comments.User", "Comments.Upvotes")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// UpdateForumPostInput holds the mutable post fields. Nil means "leave as is".
type UpdateForumPostInput struct {
	Title    *string
	Content  *string
	Category *string
}

// Update merges the allow-listed fields; owner or admin only.
func (s *ForumService) Update(actor *models.User, id uint64, input UpdateForumPostInput) (*models.ForumPost, error) {
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotPostOwner
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Category != nil {
		post.Category = *input.Category
	}

	if err := s.forumRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return s.reload(id)
}

// ToggleUpvote flips the caller's upvote on the post.
func (s *ForumService) ToggleUpvote(userID, id uint64) (bool, *models.ForumPost, error) {
	if _, err := s.find(id); err != nil {
		return false, nil, err
	}

	added, err := s.forumRepo.TogglePostUpvote(id, userID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle upvote: %w", err)
	}

	post, err := s.reload(id)
	return added, post, err
}

// AddComment appends a comment, which starts with an empty upvote set of its own.
func (s *ForumService) AddComment(userID, id uint64, text string) (*models.ForumPost, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}

	comment := &models.ForumComment{
		PostID: id,
		UserID: userID,
		Text:   text,
	}
	if err := s.forumRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.reload(id)
}

// ToggleCommentUpvote flips the caller's upvote on one comment of the post.
// The comment must belong to that post.
func (s *ForumService) ToggleCommentUpvote(userID, postID, commentID uint64) (bool, *models.ForumPost, error) {
	if _, err := s.find(postID); err != nil {
		return false, nil, err
	}

	if _, err := s.forumRepo.FindComment(postID, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, ErrCommentNotFound
		}
		return false, nil, fmt.Errorf("failed to find comment: %w", err)
	}

	added, err := s.forumRepo.ToggleCommentUpvote(commentID, userID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle comment upvote: %w", err)
	}

	post, err := s.reload(postID)
	return added, post, err
}

// TogglePin flips the pinned flag; no other side effects.
func (s *ForumService) TogglePin(id uint64) (*models.ForumPost, error) {
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}

	post.IsPinned = !post.IsPinned

	if err := s.forumRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to pin post: %w", err)
	}

	return s.reload(id)
}

// Delete removes the post; owner or admin only.
func (s *ForumService) Delete(actor *models.User, id uint64) error {
	post, err := s.find(id)
	if err != nil {
		return err
	}

	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return ErrNotPostOwner
	}

	if err := s.forumRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *ForumService) find(id uint64) (*models.ForumPost, error) {
	post, err := s.forumRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

func (s *ForumService) reload(id uint64) (*models.ForumPost, error) {
	post, err := s.forumRepo.FindByID(id,
		"Author", "Upvotes", "Comments", "Comments.User", "Comments.Upvotes")
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	return post, nil
}
