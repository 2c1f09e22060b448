package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/query"
	"github.com/videotube/videotube/internal/video"
	"github.com/videotube/videotube/internal/view"
)

// Request/Response DTOs

// PublishVideoRequest represents a request to publish a new video
type PublishVideoRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	VideoURL     string `json:"video_url" binding:"required"`
	ThumbnailURL string `json:"thumbnail_url" binding:"required"`
	Duration     int64  `json:"duration" binding:"required,gt=0"`
}

// UpdateVideoRequest represents a request to update video metadata
type UpdateVideoRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// VideoResponse represents a video owned by the caller in API responses
type VideoResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     int64     `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VideoHandler handles video-related API requests
type VideoHandler struct {
	videoService *video.Service
}

// NewVideoHandler creates a new video handler instance
func NewVideoHandler(videoService *video.Service) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// toVideoResponse converts a video model to API response format
func toVideoResponse(v *models.Video) *VideoResponse {
	return &VideoResponse{
		ID:           v.ID.String(),
		OwnerID:      v.OwnerID.String(),
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// ListVideos handles GET /api/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	page, limit := parsePageParams(c)

	params := video.ListParams{
		Query:     c.Query("query"),
		SortField: c.Query("sort_by"),
		SortDir:   c.Query("sort_dir"),
		Page:      page,
		Limit:     limit,
	}
	if raw := c.Query("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid owner_id format",
			})
			return
		}
		params.OwnerID = ownerID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.videoService.List(ctx, params, middleware.ActorFrom(c))
	if err != nil {
		if query.IsInvalidSort(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_sort",
				Message: "Sort field must be one of created_at, views, duration",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Msg("Failed to list videos")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve video feed",
		})
		return
	}

	resp, err := toPageResponse(p, view.KindVideo)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to project video page")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetVideo handles GET /api/videos/:id
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	v, err := h.videoService.GetByID(ctx, id, middleware.ActorFrom(c))
	if err != nil {
		if video.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to get video")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve video",
		})
		return
	}

	respondProjected(c, http.StatusOK, view.KindVideo, v)
}

// PublishVideo handles POST /api/videos
func (h *VideoHandler) PublishVideo(c *gin.Context) {
	var req PublishVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	v, err := h.videoService.Publish(ctx, middleware.ActorFrom(c), video.PublishParams{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
	})
	if err != nil {
		if errors.Is(err, ownership.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: "Authentication required",
			})
			return
		}
		if video.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_input",
				Message: err.Error(),
			})
			return
		}
		if video.IsPublishConfirm(err) {
			// the row exists; report the degraded write with what we have
			logger.Log.Warn().
				Err(err).
				Str("video_id", v.ID.String()).
				Msg("Video created but confirmation failed")
			c.JSON(http.StatusCreated, toVideoResponse(v))
			return
		}

		logger.Log.Error().
			Err(err).
			Msg("Failed to publish video")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to publish video",
		})
		return
	}

	c.JSON(http.StatusCreated, toVideoResponse(v))
}

// UpdateVideo handles PUT /api/videos/:id
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	v, err := h.videoService.Update(ctx, middleware.ActorFrom(c), id, video.UpdateParams{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		h.respondMutationError(c, id, err, "update")
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(v))
}

// TogglePublish handles POST /api/videos/:id/toggle-publish
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	v, err := h.videoService.TogglePublish(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		h.respondMutationError(c, id, err, "toggle publish")
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(v))
}

// DeleteVideo handles DELETE /api/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.videoService.Delete(ctx, middleware.ActorFrom(c), id); err != nil {
		h.respondMutationError(c, id, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondMutationError maps the shared failure modes of video mutations
func (h *VideoHandler) respondMutationError(c *gin.Context, id uuid.UUID, err error, op string) {
	switch {
	case video.IsVideoNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Video not found",
		})
	case errors.Is(err, ownership.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "Authentication required",
		})
	case errors.Is(err, ownership.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Only the owner can modify this video",
		})
	case video.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	default:
		if respondIfTransient(c, err, op+" video") {
			return
		}
		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to " + op + " video")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "mutation_failed",
			Message: "Failed to " + op + " video",
		})
	}
}

// SetupVideoRoutes registers video routes
func SetupVideoRoutes(apiGroup *gin.RouterGroup, videoService *video.Service) {
	handler := NewVideoHandler(videoService)

	apiGroup.GET("/videos", handler.ListVideos)
	apiGroup.POST("/videos", handler.PublishVideo)
	apiGroup.GET("/videos/:id", handler.GetVideo)
	apiGroup.PUT("/videos/:id", handler.UpdateVideo)
	apiGroup.DELETE("/videos/:id", handler.DeleteVideo)
	apiGroup.POST("/videos/:id/toggle-publish", handler.TogglePublish)
}
