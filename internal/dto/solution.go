package dto

import (
	"time"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
)

// SolutionDTO represents a solution in API responses.
type SolutionDTO struct {
	ID            uint64                `json:"id"`
	ProblemID     uint64                `json:"problem_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	ProposedByID  uint64                `json:"proposed_by_id"`
	Status        models.SolutionStatus `json:"status"`
	EstimatedCost string                `json:"estimated_cost,omitempty"`
	EstimatedTime string                `json:"estimated_time,omitempty"`
	ImplementedAt *time.Time            `json:"implemented_at"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	UpvoteCount   int                   `json:"upvote_count"`
	HasUpvoted    bool                  `json:"has_upvoted"`
	ProposedBy    *UserDTO              `json:"proposed_by,omitempty"`
	Comments      []SolutionCommentDTO  `json:"comments,omitempty"`
}

// SolutionCommentDTO is one entry of a solution's comment list.
type SolutionCommentDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	User      *UserDTO  `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSolutionDTO converts a Solution model to SolutionDTO for the given viewer.
func ToSolutionDTO(solution models.Solution, viewerID uint64) SolutionDTO {
	dto := SolutionDTO{
		ID:            solution.ID,
		ProblemID:     solution.ProblemID,
		Title:         solution.Title,
		Description:   solution.Description,
		ProposedByID:  solution.ProposedByID,
		Status:        solution.Status,
		EstimatedCost: solution.EstimatedCost,
		EstimatedTime: solution.EstimatedTime,
		ImplementedAt: solution.ImplementedAt,
		CreatedAt:     solution.CreatedAt,
		UpdatedAt:     solution.UpdatedAt,
		UpvoteCount:   len(solution.Upvotes),
	}

	for _, upvote := range solution.Upvotes {
		if viewerID != 0 && upvote.UserID == viewerID {
			dto.HasUpvoted = true
			break
		}
	}

	if solution.ProposedBy.ID != 0 {
		proposer := ToUserDTO(solution.ProposedBy)
		dto.ProposedBy = &proposer
	}

	if len(solution.Comments) > 0 {
		dto.Comments = make([]SolutionCommentDTO, len(solution.Comments))
		for i, comment := range solution.Comments {
			dto.Comments[i] = toSolutionCommentDTO(comment)
		}
	}

	return dto
}

func toSolutionCommentDTO(comment models.SolutionComment) SolutionCommentDTO {
	dto := SolutionCommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User.ID != 0 {
		user := ToUserDTO(comment.User)
		dto.User = &user
	}
	return dto
}

// ToSolutionDTOs converts a slice of solutions for the given viewer.
func ToSolutionDTOs(solutions []models.Solution, viewerID uint64) []SolutionDTO {
	out := make([]SolutionDTO, len(solutions))
	for i, s := range solutions {
		out[i] = ToSolutionDTO(s, viewerID)
	}
	return out
}
