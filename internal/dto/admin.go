package dto

import (
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/services"
)

// StatsDTO is the admin dashboard rollup response.
type StatsDTO struct {
	TotalUsers         int64                            `json:"total_users"`
	TotalProblems      int64                            `json:"total_problems"`
	TotalSolutions     int64                            `json:"total_solutions"`
	TotalForumPosts    int64                            `json:"total_forum_posts"`
	ResolvedProblems   int64                            `json:"resolved_problems"`
	UnresolvedProblems int64                            `json:"unresolved_problems"`
	ProblemsByStatus   map[models.ProblemStatus]int64   `json:"problems_by_status"`
	ProblemsByCategory map[models.ProblemCategory]int64 `json:"problems_by_category"`
	RecentProblems     []ProblemDTO                     `json:"recent_problems"`
	RecentSolutions    []SolutionDTO                    `json:"recent_solutions"`
}

// ToStatsDTO converts the service rollup to its response shape.
func ToStatsDTO(stats *services.Stats, viewerID uint64) StatsDTO {
	return StatsDTO{
		TotalUsers:         stats.TotalUsers,
		TotalProblems:      stats.TotalProblems,
		TotalSolutions:     stats.TotalSolutions,
		TotalForumPosts:    stats.TotalForumPosts,
		ResolvedProblems:   stats.ResolvedProblems,
		UnresolvedProblems: stats.UnresolvedProblems,
		ProblemsByStatus:   stats.ProblemsByStatus,
		ProblemsByCategory: stats.ProblemsByCategory,
		RecentProblems:     ToProblemDTOs(stats.RecentProblems, viewerID),
		RecentSolutions:    ToSolutionDTOs(stats.RecentSolutions, viewerID),
	}
}
