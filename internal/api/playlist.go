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
	"github.com/videotube/videotube/internal/playlist"
	"github.com/videotube/videotube/internal/view"
)

// PlaylistRequest represents a request to create or update a playlist
type PlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// PlaylistResponse represents a playlist owned by the caller in API
// responses
type PlaylistResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistHandler handles playlist-related API requests
type PlaylistHandler struct {
	playlistService *playlist.Service
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(playlistService *playlist.Service) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// toPlaylistResponse converts a playlist model to API response format
func toPlaylistResponse(p *models.Playlist) *PlaylistResponse {
	return &PlaylistResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreatePlaylist handles POST /api/playlists
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.playlistService.Create(ctx, middleware.ActorFrom(c), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ownership.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: "Authentication required",
			})
		case playlist.IsInvalidInput(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_input",
				Message: err.Error(),
			})
		default:
			if respondIfTransient(c, err, "create playlist") {
				return
			}
			logger.Log.Error().
				Err(err).
				Msg("Failed to create playlist")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "create_failed",
				Message: "Failed to create playlist",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, toPlaylistResponse(p))
}

// GetPlaylist handles GET /api/playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	v, err := h.playlistService.GetByID(ctx, id, middleware.ActorFrom(c))
	if err != nil {
		if playlist.IsPlaylistNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Playlist not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to get playlist")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve playlist",
		})
		return
	}

	respondProjected(c, http.StatusOK, view.KindPlaylist, v)
}

// ListUserPlaylists handles GET /api/users/:id/playlists
func (h *PlaylistHandler) ListUserPlaylists(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	views, err := h.playlistService.ListByUser(ctx, userID, middleware.ActorFrom(c))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list playlists")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve playlists",
		})
		return
	}

	projected, err := view.ProjectSlice(view.KindPlaylist, views)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to project playlists")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"playlists": projected})
}

// UpdatePlaylist handles PUT /api/playlists/:id
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.playlistService.Update(ctx, middleware.ActorFrom(c), id, req.Name, req.Description)
	if err != nil {
		h.respondMutationError(c, id, err, "update")
		return
	}

	c.JSON(http.StatusOK, toPlaylistResponse(p))
}

// DeletePlaylist handles DELETE /api/playlists/:id
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.Delete(ctx, middleware.ActorFrom(c), id); err != nil {
		h.respondMutationError(c, id, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddVideo handles POST /api/playlists/:id/videos/:video_id
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.AddVideo(ctx, middleware.ActorFrom(c), id, videoID); err != nil {
		if playlist.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
			return
		}
		h.respondMutationError(c, id, err, "add video to")
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveVideo handles DELETE /api/playlists/:id/videos/:video_id
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.RemoveVideo(ctx, middleware.ActorFrom(c), id, videoID); err != nil {
		h.respondMutationError(c, id, err, "remove video from")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondMutationError maps the shared failure modes of playlist mutations
func (h *PlaylistHandler) respondMutationError(c *gin.Context, id uuid.UUID, err error, op string) {
	switch {
	case playlist.IsPlaylistNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist not found",
		})
	case errors.Is(err, ownership.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "Authentication required",
		})
	case errors.Is(err, ownership.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Only the owner can modify this playlist",
		})
	case playlist.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	default:
		if respondIfTransient(c, err, op+" playlist") {
			return
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to " + op + " playlist")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "mutation_failed",
			Message: "Failed to " + op + " playlist",
		})
	}
}

// SetupPlaylistRoutes registers playlist routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, playlistService *playlist.Service) {
	handler := NewPlaylistHandler(playlistService)

	apiGroup.POST("/playlists", handler.CreatePlaylist)
	apiGroup.GET("/playlists/:id", handler.GetPlaylist)
	apiGroup.PUT("/playlists/:id", handler.UpdatePlaylist)
	apiGroup.DELETE("/playlists/:id", handler.DeletePlaylist)
	apiGroup.GET("/users/:id/playlists", handler.ListUserPlaylists)
	apiGroup.POST("/playlists/:id/videos/:video_id", handler.AddVideo)
	apiGroup.DELETE("/playlists/:id/videos/:video_id", handler.RemoveVideo)
}
