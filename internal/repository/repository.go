package repository

import (
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List() ([]models.User, error)
	UpdateRole(id uint64, role models.Role) error

	// Delete soft deletes a user
	Delete(id uint64) error

	Count() (int64, error)
}

// ProblemFilter holds filtering options for listing problems
type ProblemFilter struct {
	Status       *models.ProblemStatus
	Category     *models.ProblemCategory
	Priority     *models.Priority
	ReportedByID *uint64
	AssignedToID *uint64

	// VerifiedOnly restricts the listing to verified problems; set for
	// volunteer callers.
	VerifiedOnly bool

	// Sort is one of "created" (default, newest first), "priority" or "upvotes".
	Sort  string
	Limit int
}

// ProblemRepository defines the interface for problem data access
type ProblemRepository interface {
	Create(problem *models.Problem) error

	// FindByID finds a problem by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Problem, error)

	List(filter ProblemFilter) ([]models.Problem, error)
	Update(problem *models.Problem) error

	// Delete removes a problem together with its solutions, their comments
	// and every related upvote row, in one transaction.
	Delete(id uint64) error

	// ToggleUpvote flips the caller's membership in the problem's upvote set.
	// Returns true when the vote was added, false when removed.
	ToggleUpvote(problemID, userID uint64) (bool, error)

	Count() (int64, error)
	CountByStatus() (map[models.ProblemStatus]int64, error)
	CountByCategory() (map[models.ProblemCategory]int64, error)
	Recent(limit int) ([]models.Problem, error)
}

// SolutionFilter holds filtering options for listing solutions
type SolutionFilter struct {
	ProblemID *uint64
	Status    *models.SolutionStatus
	Limit     int
}

// SolutionRepository defines the interface for solution data access
type SolutionRepository interface {
	// Create inserts the solution after re-checking its parent problem inside
	// the same transaction, so the problem link can never dangle.
	Create(solution *models.Solution) error

	FindByID(id uint64, preload ...string) (*models.Solution, error)
	List(filter SolutionFilter) ([]models.Solution, error)
	Update(solution *models.Solution) error

	// Delete removes the solution with its comments and upvotes in one
	// transaction, which detaches it from the parent problem's list.
	Delete(id uint64) error

	ToggleUpvote(solutionID, userID uint64) (bool, error)
	AddComment(comment *models.SolutionComment) error

	Count() (int64, error)
	Recent(limit int) ([]models.Solution, error)
}

// ForumFilter holds filtering options for listing forum posts
type ForumFilter struct {
	Category   *string
	Pagination utils.PaginationParams
}

// ForumRepository defines the interface for forum data access
type ForumRepository interface {
	Create(post *models.ForumPost) error
	FindByID(id uint64, preload ...string) (*models.ForumPost, error)

	// List returns one page of posts plus the unpaginated total.
	List(filter ForumFilter) ([]models.ForumPost, int64, error)
	Update(post *models.ForumPost) error
	Delete(id uint64) error

	TogglePostUpvote(postID, userID uint64) (bool, error)
	AddComment(comment *models.ForumComment) error

	// FindComment locates a comment within a specific post.
	FindComment(postID, commentID uint64) (*models.ForumComment, error)

	ToggleCommentUpvote(commentID, userID uint64) (bool, error)

	Count() (int64, error)
}
