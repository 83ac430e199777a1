package dto

import (
	"time"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
)

// ProblemDTO represents a problem in API responses. UpvoteCount and HasUpvoted
// are derived from the upvote set for the requesting viewer (viewer id 0 means
// anonymous).
type ProblemDTO struct {
	ID                    uint64                 `json:"id"`
	Title                 string                 `json:"title"`
	Description           string                 `json:"description"`
	Category              models.ProblemCategory `json:"category"`
	Location              string                 `json:"location"`
	Priority              models.Priority        `json:"priority"`
	Status                models.ProblemStatus   `json:"status"`
	IsVerified            bool                   `json:"is_verified"`
	ReportedByID          uint64                 `json:"reported_by_id"`
	AssignedToID          *uint64                `json:"assigned_to_id"`
	ResolvedAt            *time.Time             `json:"resolved_at"`
	CompletionMessage     string                 `json:"completion_message,omitempty"`
	IsCompletedByVillager bool                   `json:"is_completed_by_villager"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
	UpvoteCount           int                    `json:"upvote_count"`
	HasUpvoted            bool                   `json:"has_upvoted"`
	ReportedBy            *UserDTO               `json:"reported_by,omitempty"`
	AssignedTo            *UserDTO               `json:"assigned_to,omitempty"`
	Solutions             []SolutionDTO          `json:"solutions,omitempty"`
}

// ToProblemDTO converts a Problem model to ProblemDTO for the given viewer.
func ToProblemDTO(problem models.Problem, viewerID uint64) ProblemDTO {
	dto := ProblemDTO{
		ID:                    problem.ID,
		Title:                 problem.Title,
		Description:           problem.Description,
		Category:              problem.Category,
		Location:              problem.Location,
		Priority:              problem.Priority,
		Status:                problem.Status,
		IsVerified:            problem.IsVerified,
		ReportedByID:          problem.ReportedByID,
		AssignedToID:          problem.AssignedToID,
		ResolvedAt:            problem.ResolvedAt,
		CompletionMessage:     problem.CompletionMessage,
		IsCompletedByVillager: problem.IsCompletedByVillager,
		CreatedAt:             problem.CreatedAt,
		UpdatedAt:             problem.UpdatedAt,
		UpvoteCount:           len(problem.Upvotes),
	}

	for _, upvote := range problem.Upvotes {
		if viewerID != 0 && upvote.UserID == viewerID {
			dto.HasUpvoted = true
			break
		}
	}

	// Related users are included only when preloaded
	if problem.ReportedBy.ID != 0 {
		reporter := ToUserDTO(problem.ReportedBy)
		dto.ReportedBy = &reporter
	}
	if problem.AssignedTo != nil && problem.AssignedTo.ID != 0 {
		assignee := ToUserDTO(*problem.AssignedTo)
		dto.AssignedTo = &assignee
	}

	if len(problem.Solutions) > 0 {
		dto.Solutions = make([]SolutionDTO, len(problem.Solutions))
		for i, solution := range problem.Solutions {
			dto.Solutions[i] = ToSolutionDTO(solution, viewerID)
		}
	}

	return dto
}

// ToProblemDTOs converts a slice of problems for the given viewer.
func ToProblemDTOs(problems []models.Problem, viewerID uint64) []ProblemDTO {
	out := make([]ProblemDTO, len(problems))
	for i, p := range problems {
		out[i] = ToProblemDTO(p, viewerID)
	}
	return out
}
