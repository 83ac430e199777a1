package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProblemNotFound      = errors.New("problem not found")
	ErrProblemNotVisible    = errors.New("problem not yet verified")
	ErrNotProblemOwner      = errors.New("not allowed to modify this problem")
	ErrInvalidCategory      = errors.New("invalid problem category")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrNotAssignedVillager  = errors.New("only the assigned villager can complete this problem")
	ErrCompletionNotClaimed = errors.New("problem has not been marked complete by the assigned villager")
)

// ProblemService handles reported-problem business logic.
type ProblemService struct {
	problemRepo repository.ProblemRepository
}

// NewProblemService creates a new ProblemService.
func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
	}
}

// ListProblemsInput holds the caller-supplied list filters.
type ListProblemsInput struct {
	Status   string
	Category string
	Priority string
	Sort     string
	Limit    int
}

// List returns problems visible to the viewer. Volunteers only see verified
// problems; everyone else sees all of them.
func (s *ProblemService) List(viewer *models.User, input ListProblemsInput) ([]models.Problem, error) {
	filter := repository.ProblemFilter{
		Sort:         input.Sort,
		Limit:        input.Limit,
		VerifiedOnly: viewer != nil && viewer.Role == models.RoleVolunteer,
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

	return s.problemRepo.List(filter)
}

// Get returns one problem, applying the volunteer visibility rule.
func (s *ProblemService) Get(viewer *models.User, id uint64) (*models.Problem, error) {
	problem, err := s.problemRepo.FindByID(id,
		"ReportedBy", "AssignedTo", "Upvotes",
		"Solutions", "Solutions.ProposedBy", "Solutions.Upvotes",
		"Solutions.Comments", "Solutions.Comments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}

	if viewer != nil && viewer.Role == models.RoleVolunteer && !problem.IsVerified {
		return nil, ErrProblemNotVisible
	}

	return problem, nil
}

// CreateProblemInput represents a new problem report.
type CreateProblemInput struct {
	Title       string
	Description string
	Category    models.ProblemCategory
	Location    string
	Priority    models.Priority
}

// Create stores a new problem owned by the reporter.
func (s *ProblemService) Create(reporterID uint64, input CreateProblemInput) (*models.Problem, error) {
	if !models.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	problem := &models.Problem{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Location:     input.Location,
		Priority:     priority,
		Status:       models.ProblemStatusOpen,
		ReportedByID: reporterID,
	}

	if err := s.problemRepo.Create(problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	return s.reload(problem.ID)
}

// UpdateProblemInput holds the mutable problem fields. Nil means "leave as is".
// Ownership, verification and workflow fields are only reachable through
// their dedicated operations.
type UpdateProblemInput struct {
	Title       *string
	Description *string
	Category    *models.ProblemCategory
	Location    *string
	Priority    *models.Priority
}

// Update merges the allow-listed fields; owner or admin only.
func (s *ProblemService) Update(actor *models.User, id uint64, input UpdateProblemInput) (*models.Problem, error) {
	problem, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if problem.ReportedByID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotProblemOwner
	}

	if input.Title != nil {
		problem.Title = *input.Title
	}
	if input.Description != nil {
		problem.Description = *input.Description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			return nil, ErrInvalidCategory
		}
		problem.Category = *input.Category
	}
	if input.Location != nil {
		problem.Location = *input.Location
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		problem.Priority = *input.Priority
	}

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}

	return s.reload(id)
}

// ToggleUpvote flips the caller's upvote and returns the refreshed problem.
func (s *ProblemService) ToggleUpvote(userID, id uint64) (bool, *models.Problem, error) {
	if _, err := s.find(id); err != nil {
		return false, nil, err
	}

	added, err := s.problemRepo.ToggleUpvote(id, userID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle upvote: %w", err)
	}

	problem, err := s.reload(id)
	return added, problem, err
}

// SetStatusInput is the admin status transition request.
type SetStatusInput struct {
	Status       models.ProblemStatus
	AssignedToID *uint64
}

// SetStatus applies an admin status transition; moving to resolved stamps
// ResolvedAt.
func (s *ProblemService) SetStatus(id uint64, input SetStatusInput) (*models.Problem, error) {
	if !models.ValidProblemStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	problem, err := s.find(id)
	if err != nil {
		return nil, err
	}

	problem.Status = input.Status
	if input.Status == models.ProblemStatusResolved && problem.ResolvedAt == nil {
		now := time.Now()
		problem.ResolvedAt = &now
	}
	if input.AssignedToID != nil {
		problem.AssignedToID = input.AssignedToID
	}

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to update problem status: %w", err)
	}

	return s.reload(id)
}

// Verify marks the problem as admin-verified. There is no un-verify.
func (s *ProblemService) Verify(id uint64) (*models.Problem, error) {
	problem, err := s.find(id)
	if err != nil {
		return nil, err
	}

	problem.IsVerified = true

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to verify problem: %w", err)
	}

	return s.reload(id)
}

// ListAssignedTo returns the problems assigned to the given villager.
func (s *ProblemService) ListAssignedTo(userID uint64) ([]models.Problem, error) {
	return s.problemRepo.List(repository.ProblemFilter{AssignedToID: &userID})
}

// Complete records the assigned villager's completion claim: the problem moves
// to resolved immediately and waits for admin verification.
func (s *ProblemService) Complete(actor *models.User, id uint64, message string) (*models.Problem, error) {
	problem, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if problem.AssignedToID == nil || *problem.AssignedToID != actor.ID {
		return nil, ErrNotAssignedVillager
	}

	now := time.Now()
	problem.IsCompletedByVillager = true
	problem.CompletionMessage = message
	problem.Status = models.ProblemStatusResolved
	problem.ResolvedAt = &now

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to complete problem: %w", err)
	}

	return s.reload(id)
}

// VerifyCompletion is the admin half of the two-step resolve/verify workflow.
func (s *ProblemService) VerifyCompletion(id uint64) (*models.Problem, error) {
	problem, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if !problem.IsCompletedByVillager {
		return nil, ErrCompletionNotClaimed
	}

	problem.IsVerified = true
	problem.Status = models.ProblemStatusResolved

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to verify completion: %w", err)
	}

	return s.reload(id)
}

// Delete removes the problem and all of its solutions.
func (s *ProblemService) Delete(id uint64) error {
	if _, err := s.find(id); err != nil {
		return err
	}

	if err := s.problemRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}
	return nil
}

func (s *ProblemService) find(id uint64) (*models.Problem, error) {
	problem, err := s.problemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) reload(id uint64) (*models.Problem, error) {
	problem, err := s.problemRepo.FindByID(id, "ReportedBy", "AssignedTo", "Upvotes")
	if err != nil {
		return nil, fmt.Errorf("failed to reload problem: %w", err)
	}
	return problem, nil
}
