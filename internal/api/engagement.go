package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/videotube/videotube/internal/engagement"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/ownership"
	"github.com/videotube/videotube/internal/toggle"
	"github.com/videotube/videotube/internal/view"
)

// ToggleResponse reports the state a toggle settled on
type ToggleResponse struct {
	State string `json:"state"`
}

// EngagementHandler handles like and subscription API requests
type EngagementHandler struct {
	likeService *engagement.LikeService
	subService  *engagement.SubscriptionService
}

// NewEngagementHandler creates a new engagement handler instance
func NewEngagementHandler(likeService *engagement.LikeService, subService *engagement.SubscriptionService) *EngagementHandler {
	return &EngagementHandler{
		likeService: likeService,
		subService:  subService,
	}
}

// ToggleVideoLike handles POST /api/videos/:id/like
func (h *EngagementHandler) ToggleVideoLike(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	state, err := h.likeService.ToggleVideoLike(ctx, middleware.ActorFrom(c), videoID)
	if err != nil {
		h.respondToggleError(c, err, "Video")
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{State: string(state)})
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (h *EngagementHandler) ToggleCommentLike(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	state, err := h.likeService.ToggleCommentLike(ctx, middleware.ActorFrom(c), commentID)
	if err != nil {
		h.respondToggleError(c, err, "Comment")
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{State: string(state)})
}

// ToggleSubscription handles POST /api/channels/:id/subscribe
func (h *EngagementHandler) ToggleSubscription(c *gin.Context) {
	channelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	state, err := h.subService.Toggle(ctx, middleware.ActorFrom(c), channelID)
	if err != nil {
		if engagement.IsSelfSubscribe(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_input",
				Message: "Cannot subscribe to your own channel",
			})
			return
		}
		h.respondToggleError(c, err, "Channel")
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{State: string(state)})
}

// ListLikedVideos handles GET /api/likes/videos
func (h *EngagementHandler) ListLikedVideos(c *gin.Context) {
	page, limit := parsePageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.likeService.LikedVideos(ctx, middleware.ActorFrom(c), page, limit)
	if err != nil {
		if errors.Is(err, ownership.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: "Authentication required",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Msg("Failed to list liked videos")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve liked videos",
		})
		return
	}

	resp, err := toPageResponse(p, view.KindVideo)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to project liked video page")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSubscribers handles GET /api/channels/:id/subscribers
func (h *EngagementHandler) ListSubscribers(c *gin.Context) {
	channelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, limit := parsePageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.subService.ChannelSubscribers(ctx, channelID, page, limit, middleware.ActorFrom(c))
	if err != nil {
		if engagement.IsChannelNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Channel not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("channel_id", channelID.String()).
			Msg("Failed to list subscribers")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve subscribers",
		})
		return
	}

	resp, err := toPageResponse(p, view.KindSubscriber)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to project subscriber page")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSubscribedChannels handles GET /api/users/:id/subscriptions
func (h *EngagementHandler) ListSubscribedChannels(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, limit := parsePageParams(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.subService.SubscribedChannels(ctx, userID, page, limit)
	if err != nil {
		if errors.Is(err, ownership.ErrUnauthenticated) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid user id",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list subscribed channels")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve subscribed channels",
		})
		return
	}

	resp, err := toPageResponse(p, view.KindChannel)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to project channel page")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondToggleError maps the shared failure modes of toggles
func (h *EngagementHandler) respondToggleError(c *gin.Context, err error, target string) {
	switch {
	case errors.Is(err, ownership.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "Authentication required",
		})
	case engagement.IsVideoNotFound(err), engagement.IsCommentNotFound(err), engagement.IsChannelNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: target + " not found",
		})
	case toggle.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "Concurrent toggle in progress, retry",
		})
	default:
		if respondIfTransient(c, err, "toggle "+target) {
			return
		}
		logger.Log.Error().
			Err(err).
			Msg("Failed to toggle " + target)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "mutation_failed",
			Message: "Failed to toggle " + target,
		})
	}
}

// SetupEngagementRoutes registers like and subscription routes
func SetupEngagementRoutes(apiGroup *gin.RouterGroup, likeService *engagement.LikeService, subService *engagement.SubscriptionService) {
	handler := NewEngagementHandler(likeService, subService)

	apiGroup.POST("/videos/:id/like", handler.ToggleVideoLike)
	apiGroup.POST("/comments/:id/like", handler.ToggleCommentLike)
	apiGroup.GET("/likes/videos", handler.ListLikedVideos)

	apiGroup.POST("/channels/:id/subscribe", handler.ToggleSubscription)
	apiGroup.GET("/channels/:id/subscribers", handler.ListSubscribers)
	apiGroup.GET("/users/:id/subscriptions", handler.ListSubscribedChannels)
}
