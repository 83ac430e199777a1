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

// AdminHandler coordinates the admin aggregation and user-management handlers.
// The whole route group runs behind the admin role middleware.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GetStats returns the dashboard rollup.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats()
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsDTO(stats, viewerID(c)))
}

// ListUsers returns every account.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
		"count": len(users),
	})
}

// ChangeRole sets a user's role.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role models.Role `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.adminService.ChangeRole(id, req.Role)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes an account; self-deletion is rejected.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(actor, id); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListProblems is the unrestricted admin listing.
func (h *AdminHandler) ListProblems(c *gin.Context) {
	filter := services.AdminProblemFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	if verifiedStr := c.Query("verified"); verifiedStr != "" {
		verified, err := strconv.ParseBool(verifiedStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid verified parameter")
			return
		}
		filter.Verified = &verified
	}
	if assignedStr := c.Query("assigned_to"); assignedStr != "" {
		assignedTo, err := strconv.ParseUint(assignedStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to parameter")
			return
		}
		filter.AssignedTo = &assignedTo
	}

	problems, err := h.adminService.ListProblems(filter)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": dto.ToProblemDTOs(problems, viewerID(c)),
		"count":    len(problems),
	})
}

// ListSolutions is the unrestricted admin listing.
func (h *AdminHandler) ListSolutions(c *gin.Context) {
	var problemID *uint64
	if problemIDStr := c.Query("problem_id"); problemIDStr != "" {
		parsed, err := strconv.ParseUint(problemIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid problem_id parameter")
			return
		}
		problemID = &parsed
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	solutions, err := h.adminService.ListSolutions(problemID, c.Query("status"), limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"solutions": dto.ToSolutionDTOs(solutions, viewerID(c)),
		"count":     len(solutions),
	})
}

// AssignProblem assigns a problem to a villager and forces in-progress.
func (h *AdminHandler) AssignProblem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AssignRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	problem, err := h.adminService.AssignProblem(id, req.UserID)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem, viewerID(c)))
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProblemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSelfDelete),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrAssigneeNotVillager),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidSolutionStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
