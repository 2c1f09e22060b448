package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/comment"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/view"
)

// CommentRequest represents a request to add or update a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse represents a comment owned by the caller in API responses
type CommentResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentHandler handles comment-related API requests
type CommentHandler struct {
	commentService *comment.Service
}

// NewCommentHandler creates a new comment handler instance
func NewCommentHandler(commentService *comment.Service) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// toCommentResponse converts a comment model to API response format
func toCommentResponse(m *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        m.ID.String(),
		VideoID:   m.VideoID.String(),
		OwnerID:   m.OwnerID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ListComments handles GET /api/videos/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, limit := parsePageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.commentService.ListByVideo(ctx, videoID, page, limit, middleware.ActorFrom(c))
	if err != nil {
		if comment.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("video_id", videoID.String()).
			Msg("Failed to list comments")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve comments",
		})
		return
	}

	resp, err := toPageResponse(p, view.KindComment)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to project comment page")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddComment handles POST /api/videos/:id/comments
func (h *CommentHandler) AddComment(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m, err := h.commentService.Add(ctx, middleware.ActorFrom(c), videoID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ownership.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: "Authentication required",
			})
		case comment.IsVideoNotFound(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
		case comment.IsEmptyContent(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_input",
				Message: "Comment content is required",
			})
		default:
			if respondIfTransient(c, err, "add comment") {
				return
			}
			logger.Log.Error().
				Err(err).
				Str("video_id", videoID.String()).
				Msg("Failed to add comment")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "create_failed",
				Message: "Failed to add comment",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(m))
}

// UpdateComment handles PUT /api/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m, err := h.commentService.Update(ctx, middleware.ActorFrom(c), id, req.Content)
	if err != nil {
		h.respondMutationError(c, id, err, "update")
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(m))
}

// DeleteComment handles DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.commentService.Delete(ctx, middleware.ActorFrom(c), id); err != nil {
		h.respondMutationError(c, id, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondMutationError maps the shared failure modes of comment mutations
func (h *CommentHandler) respondMutationError(c *gin.Context, id uuid.UUID, err error, op string) {
	switch {
	case comment.IsCommentNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Comment not found",
		})
	case errors.Is(err, ownership.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "Authentication required",
		})
	case errors.Is(err, ownership.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Only the author can modify this comment",
		})
	case comment.IsEmptyContent(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: "Comment content is required",
		})
	default:
		if respondIfTransient(c, err, op+" comment") {
			return
		}
		logger.Log.Error().
			Err(err).
			Str("comment_id", id.String()).
			Msg("Failed to " + op + " comment")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "mutation_failed",
			Message: "Failed to " + op + " comment",
		})
	}
}

// SetupCommentRoutes registers comment routes
func SetupCommentRoutes(apiGroup *gin.RouterGroup, commentService *comment.Service) {
	handler := NewCommentHandler(commentService)

	apiGroup.GET("/videos/:id/comments", handler.ListComments)
	apiGroup.POST("/videos/:id/comments", handler.AddComment)
	apiGroup.PUT("/comments/:id", handler.UpdateComment)
	apiGroup.DELETE("/comments/:id", handler.DeleteComment)
}
