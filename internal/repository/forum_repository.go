package repository

import (
	"errors"

	"github.com/saivarshithnaidu/village-connect-backend/internal/database"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"gorm.io/gorm"
)

// GormForumRepository is a GORM implementation of ForumRepository
type GormForumRepository struct {
	db *gorm.DB
}

// NewForumRepository creates a new ForumRepository
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &GormForumRepository{db: db}
}

func (r *GormForumRepository) Create(post *models.ForumPost) error {
	return r.db.Create(post).Error
}

// FindByID finds a forum post by ID with optional preloading
func (r *GormForumRepository) FindByID(id uint64, preload ...string) (*models.ForumPost, error) {
	var post models.ForumPost
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&post, id).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// List returns one page of forum posts, pinned posts first, newest first
// within each group, along with the unpaginated total.
func (r *GormForumRepository) List(filter ForumFilter) ([]models.ForumPost, int64, error) {
	var posts []models.ForumPost

	query := r.db.Model(&models.ForumPost{})

	if filter.Category != nil {
		query = query.Where("forum_posts.category = ?", *filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("forum_posts.is_pinned DESC, forum_posts.created_at DESC")

	if filter.Pagination.Limit > 0 {
		query = query.Scopes(database.Paginate(filter.Pagination))
	}

	if err := query.
		Preload("Author").
		Preload("Upvotes").
		Preload("Comments").
		Preload("Comments.User").
		Preload("Comments.Upvotes").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *GormForumRepository) Update(post *models.ForumPost) error {
	return r.db.Save(post).Error
}

// Delete removes the post, its comments and every related upvote row in one
// transaction.
func (r *GormForumRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint64
		if err := tx.Model(&models.ForumComment{}).
			Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).
				Delete(&models.ForumCommentUpvote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).
				Delete(&models.ForumComment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("post_id = ?", id).
			Delete(&models.ForumPostUpvote{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.ForumPost{}, id).Error
	})
}

// TogglePostUpvote flips membership of the user in the post's upvote set.
func (r *GormForumRepository) TogglePostUpvote(postID, userID uint64) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var upvote models.ForumPostUpvote
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			First(&upvote).Error
		switch {
		case err == nil:
			return tx.Where("post_id = ? AND user_id = ?", postID, userID).
				Delete(&models.ForumPostUpvote{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			added = true
			return tx.Create(&models.ForumPostUpvote{PostID: postID, UserID: userID}).Error
		default:
			return err
		}
	})
	return added, err
}

func (r *GormForumRepository) AddComment(comment *models.ForumComment) error {
	return r.db.Create(comment).Error
}

// FindComment locates a comment within a specific post.
func (r *GormForumRepository) FindComment(postID, commentID uint64) (*models.ForumComment, error) {
	var comment models.ForumComment
	if err := r.db.Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleCommentUpvote flips membership of the user in the comment's own upvote set.
func (r *GormForumRepository) ToggleCommentUpvote(commentID, userID uint64) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var upvote models.ForumCommentUpvote
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			First(&upvote).Error
		switch {
		case err == nil:
			return tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&models.ForumCommentUpvote{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			added = true
			return tx.Create(&models.ForumCommentUpvote{CommentID: commentID, UserID: userID}).Error
		default:
			return err
		}
	})
	return added, err
}

func (r *GormForumRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ForumPost{}).Count(&count).Error
	return count, err
}
