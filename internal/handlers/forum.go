package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saivarshithnaidu/village-connect-backend/internal/dto"
	apierrors "github.com/saivarshithnaidu/village-connect-backend/internal/errors"
	"github.com/saivarshithnaidu/village-connect-backend/internal/middleware"
	"github.com/saivarshithnaidu/village-connect-backend/internal/services"
	"github.com/saivarshithnaidu/village-connect-backend/internal/utils"
)

// ForumHandler coordinates discussion-board HTTP handlers.
type ForumHandler struct {
	forumService *services.ForumService
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(forumService *services.ForumService) *ForumHandler {
	return &ForumHandler{
		forumService: forumService,
	}
}

// List returns one page of forum posts, pinned first.
func (h *ForumHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	posts, total, err := h.forumService.List(services.ListForumInput{
		Category:   c.Query("category"),
		Pagination: params,
	})
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": dto.ToForumPostDTOs(posts, viewerID(c)),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Get returns one post with its comments.
func (h *ForumHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.forumService.Get(id)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToForumPostDTO(*post, viewerID(c)))
}

// Create starts a new discussion.
func (h *ForumHandler) Create(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreatePostRequest struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category"`
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.forumService.Create(user.ID, services.CreateForumPostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToForumPostDTO(*post, user.ID))
}

// Update merges the allow-listed mutable fields; owner or admin only.
func (h *ForumHandler) Update(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdatePostRequest struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Category *string `json:"category"`
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.forumService.Update(user, id, services.UpdateForumPostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToForumPostDTO(*post, user.ID))
}

// ToggleUpvote flips the caller's upvote on the post.
func (h *ForumHandler) ToggleUpvote(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	added, post, err := h.forumService.ToggleUpvote(user.ID, id)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upvoted": added,
		"post":    dto.ToForumPostDTO(*post, user.ID),
	})
}

// AddComment appends a comment to the post.
func (h *ForumHandler) AddComment(c *gin.Context) {
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

	post, err := h.forumService.AddComment(user.ID, id, req.Text)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToForumPostDTO(*post, user.ID))
}

// ToggleCommentUpvote flips the caller's upvote on one comment of the post.
func (h *ForumHandler) ToggleCommentUpvote(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	added, post, err := h.forumService.ToggleCommentUpvote(user.ID, postID, commentID)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upvoted": added,
		"post":    dto.ToForumPostDTO(*post, user.ID),
	})
}

// TogglePin flips the pinned flag; admin only.
func (h *ForumHandler) TogglePin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.forumService.TogglePin(id)
	if err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToForumPostDTO(*post, viewerID(c)))
}

// Delete removes the post; owner or admin only.
func (h *ForumHandler) Delete(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.forumService.Delete(user, id); err != nil {
		respondForumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func respondForumError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotPostOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
