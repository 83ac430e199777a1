package repository

import (
	"errors"

	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"gorm.io/gorm"
)

// GormSolutionRepository is a GORM implementation of SolutionRepository
type GormSolutionRepository struct {
	db *gorm.DB
}

// NewSolutionRepository creates a new SolutionRepository
func NewSolutionRepository(db *gorm.DB) SolutionRepository {
	return &GormSolutionRepository{db: db}
}

// Create inserts the solution after re-checking the parent problem inside the
// same transaction. Returns gorm.ErrRecordNotFound when the problem is absent.
func (r *GormSolutionRepository) Create(solution *models.Solution) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var problem models.Problem
		if err := tx.Select("id").First(&problem, solution.ProblemID).Error; err != nil {
			return err
		}
		return tx.Create(solution).Error
	})
}

// FindByID finds a solution by ID with optional preloading
func (r *GormSolutionRepository) FindByID(id uint64, preload ...string) (*models.Solution, error) {
	var solution models.Solution
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&solution, id).Error; err != nil {
		return nil, err
	}

	return &solution, nil
}

func (r *GormSolutionRepository) List(filter SolutionFilter) ([]models.Solution, error) {
	var solutions []models.Solution

	query := r.db.Model(&models.Solution{})

	if filter.ProblemID != nil {
		query = query.Where("solutions.problem_id = ?", *filter.ProblemID)
	}
	if filter.Status != nil {
		query = query.Where("solutions.status = ?", *filter.Status)
	}

	query = query.Order("solutions.created_at ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.
		Preload("ProposedBy").
		Preload("Upvotes").
		Preload("Comments").
		Preload("Comments.User").
		Find(&solutions).Error; err != nil {
		return nil, err
	}

	return solutions, nil
}

func (r *GormSolutionRepository) Update(solution *models.Solution) error {
	return r.db.Save(solution).Error
}

// Delete removes the solution with its comments and upvotes in one transaction.
func (r *GormSolutionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("solution_id = ?", id).
			Delete(&models.SolutionUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("solution_id = ?", id).
			Delete(&models.SolutionComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Solution{}, id).Error
	})
}

// ToggleUpvote flips membership of the user in the solution's upvote set.
func (r *GormSolutionRepository) ToggleUpvote(solutionID, userID uint64) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var upvote models.SolutionUpvote
		err := tx.Where("solution_id = ? AND user_id = ?", solutionID, userID).
			First(&upvote).Error
		switch {
		case err == nil:
			return tx.Where("solution_id = ? AND user_id = ?", solutionID, userID).
				Delete(&models.SolutionUpvote{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			added = true
			return tx.Create(&models.SolutionUpvote{SolutionID: solutionID, UserID: userID}).Error
		default:
			return err
		}
	})
	return added, err
}

func (r *GormSolutionRepository) AddComment(comment *models.SolutionComment) error {
	return r.db.Create(comment).Error
}

func (r *GormSolutionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Solution{}).Count(&count).Error
	return count, err
}

func (r *GormSolutionRepository) Recent(limit int) ([]models.Solution, error) {
	var solutions []models.Solution
	if err := r.db.
		Preload("ProposedBy").
		Order("created_at DESC").
		Limit(limit).
		Find(&solutions).Error; err != nil {
		return nil, err
	}
	return solutions, nil
}
