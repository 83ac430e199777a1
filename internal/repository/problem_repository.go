package repository

import (
	"errors"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"gorm.io/gorm"
)

// GormProblemRepository is a GORM implementation of ProblemRepository
type GormProblemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new ProblemRepository
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &GormProblemRepository{db: db}
}

func (r *GormProblemRepository) Create(problem *models.Problem) error {
	return r.db.Create(problem).Error
}

// FindByID finds a problem by ID with optional preloading
func (r *GormProblemRepository) FindByID(id uint64, preload ...string) (*models.Problem, error) {
	var problem models.Problem
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&problem, id).Error; err != nil {
		return nil, err
	}

	return &problem, nil
}

func (r *GormProblemRepository) List(filter ProblemFilter) ([]models.Problem, error) {
	var problems []models.Problem

	query := r.db.Model(&models.Problem{})

	if filter.Status != nil {
		query = query.Where("problems.status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("problems.category = ?", *filter.Category)
	}
	if filter.Priority != nil {
		query = query.Where("problems.priority = ?", *filter.Priority)
	}
	if filter.ReportedByID != nil {
		query = query.Where("problems.reported_by_id = ?", *filter.ReportedByID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("problems.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.VerifiedOnly {
		query = query.Where("problems.is_verified = ?", true)
	}

	switch filter.Sort {
	case "priority":
		query = query.Order("CASE problems.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, problems.created_at DESC")
	case "upvotes":
		query = query.Order("(SELECT COUNT(*) FROM problem_upvotes WHERE problem_upvotes.problem_id = problems.id) DESC, problems.created_at DESC")
	default:
		query = query.Order("problems.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.
		Preload("ReportedBy").
		Preload("AssignedTo").
		Preload("Upvotes").
		Find(&problems).Error; err != nil {
		return nil, err
	}

	return problems, nil
}

func (r *GormProblemRepository) Update(problem *models.Problem) error {
	return r.db.Save(problem).Error
}

// Delete removes the problem and cascades over its solutions in a single
// transaction.
func (r *GormProblemRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var solutionIDs []uint64
		if err := tx.Model(&models.Solution{}).
			Where("problem_id = ?", id).
			Pluck("id", &solutionIDs).Error; err != nil {
			return err
		}

		if len(solutionIDs) > 0 {
			if err := tx.Where("solution_id IN ?", solutionIDs).
				Delete(&models.SolutionUpvote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("solution_id IN ?", solutionIDs).
				Delete(&models.SolutionComment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("problem_id = ?", id).
				Delete(&models.Solution{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("problem_id = ?", id).
			Delete(&models.ProblemUpvote{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Problem{}, id).Error
	})
}

// ToggleUpvote flips membership of the user in the problem's upvote set.
func (r *GormProblemRepository) ToggleUpvote(problemID, userID uint64) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var upvote models.ProblemUpvote
		err := tx.Where("problem_id = ? AND user_id = ?", problemID, userID).
			First(&upvote).Error
		switch {
		case err == nil:
			return tx.Where("problem_id = ? AND user_id = ?", problemID, userID).
				Delete(&models.ProblemUpvote{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			added = true
			return tx.Create(&models.ProblemUpvote{ProblemID: problemID, UserID: userID}).Error
		default:
			return err
		}
	})
	return added, err
}

func (r *GormProblemRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Problem{}).Count(&count).Error
	return count, err
}

func (r *GormProblemRepository) CountByStatus() (map[models.ProblemStatus]int64, error) {
	type row struct {
		Status models.ProblemStatus
		Count  int64
	}
	var rows []row
	if err := r.db.Model(&models.Problem{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ProblemStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *GormProblemRepository) CountByCategory() (map[models.ProblemCategory]int64, error) {
	type row struct {
		Category models.ProblemCategory
		Count    int64
	}
	var rows []row
	if err := r.db.Model(&models.Problem{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ProblemCategory]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Count
	}
	return counts, nil
}

func (r *GormProblemRepository) Recent(limit int) ([]models.Problem, error) {
	var problems []models.Problem
	if err := r.db.
		Preload("ReportedBy").
		Order("created_at DESC").
		Limit(limit).
		Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}
