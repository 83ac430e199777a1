package services

import (
	"errors"
	"fmt"

	"github.com/saivarshithnaidu/village-connect-backend/internal/constants"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSelfDelete          = errors.New("admins cannot delete their own account")
	ErrAssigneeNotFound    = errors.New("assignee not found")
	ErrAssigneeNotVillager = errors.New("problems can only be assigned to villagers")
)

// AdminService aggregates read-only rollups and user management. Role
// enforcement happens once at the route-group level, not here.
type AdminService struct {
	userRepo     repository.UserRepository
	problemRepo  repository.ProblemRepository
	solutionRepo repository.SolutionRepository
	forumRepo    repository.ForumRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repository.UserRepository,
	problemRepo repository.ProblemRepository,
	solutionRepo repository.SolutionRepository,
	forumRepo repository.ForumRepository,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		problemRepo:  problemRepo,
		solutionRepo: solutionRepo,
		forumRepo:    forumRepo,
	}
}

// Stats is the admin dashboard rollup.
type Stats struct {
	TotalUsers         int64
	TotalProblems      int64
	TotalSolutions     int64
	TotalForumPosts    int64
	ResolvedProblems   int64
	UnresolvedProblems int64
	ProblemsByStatus   map[models.ProblemStatus]int64
	ProblemsByCategory map[models.ProblemCategory]int64
	RecentProblems     []models.Problem
	RecentSolutions    []models.Solution
}

func (s *AdminService) GetStats() (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalProblems, err = s.problemRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count problems: %w", err)
	}
	if stats.TotalSolutions, err = s.solutionRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count solutions: %w", err)
	}
	if stats.TotalForumPosts, err = s.forumRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count forum posts: %w", err)
	}

	if stats.ProblemsByStatus, err = s.problemRepo.CountByStatus(); err != nil {
		return nil, fmt.Errorf("failed to group problems by status: %w", err)
	}
	if stats.ProblemsByCategory, err = s.problemRepo.CountByCategory(); err != nil {
		return nil, fmt.Errorf("failed to group problems by category: %w", err)
	}

	stats.ResolvedProblems = stats.ProblemsByStatus[models.ProblemStatusResolved]
	stats.UnresolvedProblems = stats.TotalProblems - stats.ResolvedProblems

	if stats.RecentProblems, err = s.problemRepo.Recent(constants.RecentItemsLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent problems: %w", err)
	}
	if stats.RecentSolutions, err = s.solutionRepo.Recent(constants.RecentItemsLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent solutions: %w", err)
	}

	return stats, nil
}

// ListUsers returns every account; the password hash never serializes out.
func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.userRepo.List()
}

// ChangeRole sets a user's role.
func (s *AdminService) ChangeRole(id uint64, role models.Role) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(id, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return s.userRepo.FindByID(id)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(actor *models.User, id uint64) error {
	if actor.ID == id {
		return ErrSelfDelete
	}

	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListProblems is the admin listing: no visibility restriction, with the same
// filters the public listing has plus an explicit verified flag.
type AdminProblemFilter struct {
	Status     string
	Category   string
	Priority   string
	Verified   *bool
	AssignedTo *uint64
	Limit      int
}

func (s *AdminService) ListProblems(input AdminProblemFilter) ([]models.Problem, error) {
	filter := repository.ProblemFilter{
		AssignedToID: input.AssignedTo,
		Limit:        input.Limit,
	}

	if input.Status != "" {
		status := models.ProblemStatus(input.Status)
		if !models.ValidProblemStatus(status) {
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if input.Category != "" {
		category := models.ProblemCategory(input.Category)
		if !models.ValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		filter.Category = &category
	}
	if input.Priority != "" {
		priority := models.Priority(input.Priority)
		if !models.ValidPriority(priority) {
			return nil, ErrInvalidPriority
		}
		filter.Priority = &priority
	}
	if input.Verified != nil && *input.Verified {
		filter.VerifiedOnly = true
	}

	return s.problemRepo.List(filter)
}

func (s *AdminService) ListSolutions(problemID *uint64, status string, limit int) ([]models.Solution, error) {
	filter := repository.SolutionFilter{ProblemID: problemID, Limit: limit}

	if status != "" {
		parsed := models.SolutionStatus(status)
		if !models.ValidSolutionStatus(parsed) {
			return nil, ErrInvalidSolutionStatus
		}
		filter.Status = &parsed
	}

	return s.solutionRepo.List(filter)
}

// AssignProblem assigns a problem to a villager and forces in-progress.
func (s *AdminService) AssignProblem(problemID, assigneeID uint64) (*models.Problem, error) {
	assignee, err := s.userRepo.FindByID(assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if assignee.Role != models.RoleVillager {
		return nil, ErrAssigneeNotVillager
	}

	problem, err := s.problemRepo.FindByID(problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}

	problem.AssignedToID = &assigneeID
	problem.Status = models.ProblemStatusInProgress

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to assign problem: %w", err)
	}

	return s.problemRepo.FindByID(problemID, "ReportedBy", "AssignedTo", "Upvotes")
}
