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

// ProblemHandler coordinates reported-problem HTTP handlers.
type ProblemHandler struct {
	problemService *services.ProblemService
	aiService      *services.AIService
}

// NewProblemHandler creates a new ProblemHandler. aiService may be nil when no
// API key is configured.
func NewProblemHandler(problemService *services.ProblemService, aiService *services.AIService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		aiService:      aiService,
	}
}

// List returns problems visible to the caller, with optional filters.
func (h *ProblemHandler) List(c *gin.Context) {
	viewer, _ := middleware.GetCurrentUser(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	problems, err := h.problemService.List(viewer, services.ListProblemsInput{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Sort:     c.Query("sort"),
		Limit:    limit,
	})
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": dto.ToProblemDTOs(problems, viewerID(c)),
		"count":    len(problems),
	})
}

// Get returns one problem with its solutions.
func (h *ProblemHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	viewer, _ := middleware.GetCurrentUser(c)

	problem, err := h.problemService.Get(viewer, id)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, viewerID(c)))
}

// Create reports a new problem owned by the caller.
func (h *ProblemHandler) Create(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProblemRequest struct {
		Title       string                 `json:"title" binding:"required"`
		Description string                 `json:"description" binding:"required"`
		Category    models.ProblemCategory `json:"category" binding:"required"`
		Location    string                 `json:"location"`
		Priority    models.Priority        `json:"priority"`
	}

	var req CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	problem, err := h.problemService.Create(user.ID, services.CreateProblemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Priority:    req.Priority,
	})
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProblemDTO(*problem, user.ID))
}

// Update merges the allow-listed mutable fields; owner or admin only.
func (h *ProblemHandler) Update(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProblemRequest struct {
		Title       *string                 `json:"title"`
		Description *string                 `json:"description"`
		Category    *models.ProblemCategory `json:"category"`
		Location    *string                 `json:"location"`
		Priority    *models.Priority        `json:"priority"`
	}

	var req UpdateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	problem, err := h.problemService.Update(user, id, services.UpdateProblemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Priority:    req.Priority,
	})
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, user.ID))
}

// ToggleUpvote flips the caller's upvote on the problem.
func (h *ProblemHandler) ToggleUpvote(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	added, problem, err := h.problemService.ToggleUpvote(user.ID, id)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upvoted": added,
		"problem": dto.ToProblemDTO(*problem, user.ID),
	})
}

// SetStatus applies an admin status transition.
func (h *ProblemHandler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Status       models.ProblemStatus `json:"status" binding:"required"`
		AssignedToID *uint64              `json:"assigned_to_id"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	problem, err := h.problemService.SetStatus(id, services.SetStatusInput{
		Status:       req.Status,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, viewerID(c)))
}

// Verify marks the problem as admin-verified.
func (h *ProblemHandler) Verify(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	problem, err := h.problemService.Verify(id)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, viewerID(c)))
}

// ListAssignedToMe returns the problems assigned to the calling villager.
func (h *ProblemHandler) ListAssignedToMe(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	problems, err := h.problemService.ListAssignedTo(user.ID)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": dto.ToProblemDTOs(problems, user.ID),
		"count":    len(problems),
	})
}

// Complete records the assigned villager's completion claim.
func (h *ProblemHandler) Complete(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CompleteRequest struct {
		Message string `json:"message"`
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	problem, err := h.problemService.Complete(user, id, req.Message)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, user.ID))
}

// VerifyCompletion is the admin confirmation of a villager's completion claim.
func (h *ProblemHandler) VerifyCompletion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	problem, err := h.problemService.VerifyCompletion(id)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, viewerID(c)))
}

// Delete removes the problem and all of its solutions.
func (h *ProblemHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.problemService.Delete(id); err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Problem deleted"})
}

// SuggestTriage asks the AI service for a category and priority suggestion.
func (h *ProblemHandler) SuggestTriage(c *gin.Context) {
	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "Triage suggestions are not configured")
		return
	}

	type SuggestTriageRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
	}

	var req SuggestTriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestion, err := h.aiService.SuggestTriage(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		apierrors.InternalError(c, "Failed to generate suggestion")
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

func respondProblemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProblemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProblemNotVisible),
		errors.Is(err, services.ErrNotProblemOwner),
		errors.Is(err, services.ErrNotAssignedVillager):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrCompletionNotClaimed):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
