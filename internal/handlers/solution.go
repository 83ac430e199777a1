package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/saivarshithnaidu/village-connect-backend/internal/dto"
	apierrors "github.com/saivarshithnaidu/village-connect-backend/internal/errors"
	"github.com/saivarshithnaidu/village-connect-backend/internal/middleware"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/services"
)

// SolutionHandler coordinates proposed-solution HTTP handlers.
type SolutionHandler struct {
	solutionService *services.SolutionService
}

// NewSolutionHandler creates a new SolutionHandler.
func NewSolutionHandler(solutionService *services.SolutionService) *SolutionHandler {
	return &SolutionHandler{
		solutionService: solutionService,
	}
}

// List returns solutions, optionally filtered by problem or status.
func (h *SolutionHandler) List(c *gin.Context) {
	input := services.ListSolutionsInput{
		Status: c.Query("status"),
	}

	if problemIDStr := c.Query("problem_id"); problemIDStr != "" {
		problemID, err := strconv.ParseUint(problemIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid problem_id parameter")
			return
		}
		input.ProblemID = &problemID
	}
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	solutions, err := h.solutionService.List(input)
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"solutions": dto.ToSolutionDTOs(solutions, viewerID(c)),
		"count":     len(solutions),
	})
}

// Get returns one solution with its comments.
func (h *SolutionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	solution, err := h.solutionService.Get(id)
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDTO(*solution, viewerID(c)))
}

// Create proposes a new solution for an existing problem.
func (h *SolutionHandler) Create(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateSolutionRequest struct {
		ProblemID     uint64 `json:"problem_id" binding:"required"`
		Title         string `json:"title" binding:"required"`
		Description   string `json:"description" binding:"required"`
		EstimatedCost string `json:"estimated_cost"`
		EstimatedTime string `json:"estimated_time"`
	}

	var req CreateSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	solution, err := h.solutionService.Create(user.ID, services.CreateSolutionInput{
		ProblemID:     req.ProblemID,
		Title:         req.Title,
		Description:   req.Description,
		EstimatedCost: req.EstimatedCost,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSolutionDTO(*solution, user.ID))
}

// Update merges the allow-listed mutable fields; owner or admin only.
func (h *SolutionHandler) Update(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateSolutionRequest struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		EstimatedCost *string `json:"estimated_cost"`
		EstimatedTime *string `json:"estimated_time"`
	}

	var req UpdateSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	solution, err := h.solutionService.Update(user, id, services.UpdateSolutionInput{
		Title:         req.Title,
		Description:   req.Description,
		EstimatedCost: req.EstimatedCost,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDTO(*solution, user.ID))
}

// ToggleUpvote flips the caller's upvote on the solution.
func (h *SolutionHandler) ToggleUpvote(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	added, solution, err := h.solutionService.ToggleUpvote(user.ID, id)
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upvoted":  added,
		"solution": dto.ToSolutionDTO(*solution, user.ID),
	})
}

// AddComment appends a comment to the solution.
func (h *SolutionHandler) AddComment(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	solution, err := h.solutionService.AddComment(user.ID, id, req.Text)
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSolutionDTO(*solution, user.ID))
}

// SetStatus applies an admin status transition.
func (h *SolutionHandler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Status models.SolutionStatus `json:"status" binding:"required"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	solution, err := h.solutionService.SetStatus(id, req.Status)
	if err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDTO(*solution, viewerID(c)))
}

// Delete removes the solution; owner or admin only.
func (h *SolutionHandler) Delete(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.solutionService.Delete(user, id); err != nil {
		respondSolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Solution deleted"})
}

func respondSolutionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSolutionNotFound),
		errors.Is(err, services.ErrSolutionProblemMissing):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotSolutionOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidSolutionStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
