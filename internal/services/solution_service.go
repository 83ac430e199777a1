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
	ErrSolutionNotFound       = errors.New("solution not found")
	ErrNotSolutionOwner       = errors.New("not allowed to modify this solution")
	ErrInvalidSolutionStatus  = errors.New("invalid solution status")
	ErrSolutionProblemMissing = errors.New("referenced problem not found")
)

// SolutionService handles proposed-solution business logic.
type SolutionService struct {
	solutionRepo repository.SolutionRepository
}

// NewSolutionService creates a new SolutionService.
func NewSolutionService(solutionRepo repository.SolutionRepository) *SolutionService {
	return &SolutionService{
		solutionRepo: solutionRepo,
	}
}

// CreateSolutionInput represents a new solution proposal.
type CreateSolutionInput struct {
	ProblemID     uint64
	Title         string
	Description   string
	EstimatedCost string
	EstimatedTime string
}

// Create stores a new solution linked to its problem. The link is written in
// the same transaction as the existence check, so it cannot dangle.
func (s *SolutionService) Create(proposerID uint64, input CreateSolutionInput) (*models.Solution, error) {
	solution := &models.Solution{
		ProblemID:     input.ProblemID,
		Title:         input.Title,
		Description:   input.Description,
		ProposedByID:  proposerID,
		Status:        models.SolutionStatusPending,
		EstimatedCost: input.EstimatedCost,
		EstimatedTime: input.EstimatedTime,
	}

	if err := s.solutionRepo.Create(solution); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolutionProblemMissing
		}
		return nil, fmt.Errorf("failed to create solution: %w", err)
	}

	return s.reload(solution.ID)
}

// ListSolutionsInput holds the caller-supplied list filters.
type ListSolutionsInput struct {
	ProblemID *uint64
	Status    string
	Limit     int
}

func (s *SolutionService) List(input ListSolutionsInput) ([]models.Solution, error) {
	filter := repository.SolutionFilter{
		ProblemID: input.ProblemID,
		Limit:     input.Limit,
	}

	if input.Status != "" {
		status := models.SolutionStatus(input.Status)
		if !models.ValidSolutionStatus(status) {
			return nil, ErrInvalidSolutionStatus
		}
		filter.Status = &status
	}

	return s.solutionRepo.List(filter)
}

func (s *SolutionService) Get(id uint64) (*models.Solution, error) {
	solution, err := s.solutionRepo.FindByID(id,
		"ProposedBy", "Upvotes", "Comments", "Comments.User", "Problem")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("failed to find solution: %w", err)
	}
	return solution, nil
}

// UpdateSolutionInput holds the mutable solution fields. Nil means "leave as is".
type UpdateSolutionInput struct {
	Title         *string
	Description   *string
	EstimatedCost *string
	EstimatedTime *string
}

// Update merges the allow-listed fields; owner or admin only.
func (s *SolutionService) Update(actor *models.User, id uint64, input UpdateSolutionInput) (*models.Solution, error) {
	solution, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if solution.ProposedByID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotSolutionOwner
	}

	if input.Title != nil {
		solution.Title = *input.Title
	}
	if input.Description != nil {
		solution.Description = *input.Description
	}
	if input.EstimatedCost != nil {
		solution.EstimatedCost = *input.EstimatedCost
	}
	if input.EstimatedTime != nil {
		solution.EstimatedTime = *input.EstimatedTime
	}

	if err := s.solutionRepo.Update(solution); err != nil {
		return nil, fmt.Errorf("failed to update solution: %w", err)
	}

	return s.reload(id)
}

// ToggleUpvote flips the caller's upvote and returns the refreshed solution.
func (s *SolutionService) ToggleUpvote(userID, id uint64) (bool, *models.Solution, error) {
	if _, err := s.find(id); err != nil {
		return false, nil, err
	}

	added, err := s.solutionRepo.ToggleUpvote(id, userID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle upvote: %w", err)
	}

	solution, err := s.reload(id)
	return added, solution, err
}

// AddComment appends a comment to the solution's ordered comment list.
func (s *SolutionService) AddComment(userID, id uint64, text string) (*models.Solution, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}

	comment := &models.SolutionComment{
		SolutionID: id,
		UserID:     userID,
		Text:       text,
	}
	if err := s.solutionRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.reload(id)
}

// SetStatus applies an admin status transition; moving to implemented stamps
// ImplementedAt.
func (s *SolutionService) SetStatus(id uint64, status models.SolutionStatus) (*models.Solution, error) {
	if !models.ValidSolutionStatus(status) {
		return nil, ErrInvalidSolutionStatus
	}

	solution, err := s.find(id)
	if err != nil {
		return nil, err
	}

	solution.Status = status
	if status == models.SolutionStatusImplemented && solution.ImplementedAt == nil {
		now := time.Now()
		solution.ImplementedAt = &now
	}

	if err := s.solutionRepo.Update(solution); err != nil {
		return nil, fmt.Errorf("failed to update solution status: %w", err)
	}

	return s.reload(id)
}

// Delete removes the solution; owner or admin only.
func (s *SolutionService) Delete(actor *models.User, id uint64) error {
	solution, err := s.find(id)
	if err != nil {
		return err
	}

	if solution.ProposedByID != actor.ID && !actor.IsAdmin() {
		return ErrNotSolutionOwner
	}

	if err := s.solutionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete solution: %w", err)
	}
	return nil
}

func (s *SolutionService) find(id uint64) (*models.Solution, error) {
	solution, err := s.solutionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("failed to find solution: %w", err)
	}
	return solution, nil
}

func (s *SolutionService) reload(id uint64) (*models.Solution, error) {
	solution, err := s.solutionRepo.FindByID(id,
		"ProposedBy", "Upvotes", "Comments", "Comments.User")
	if err != nil {
		return nil, fmt.Errorf("failed to reload solution: %w", err)
	}
	return solution, nil
}
