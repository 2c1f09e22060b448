// Package api implements the HTTP handlers and routing for the service.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/pagination"
	"github.com/videotube/videotube/internal/view"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PageResponse wraps a page of projected views with its metadata
type PageResponse struct {
	Items      []map[string]any `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalItems int64            `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	HasNext    bool             `json:"has_next"`
	HasPrev    bool             `json:"has_prev"`
}

// toPageResponse projects a page of views and carries its metadata over
func toPageResponse[T any](p *pagination.Page[T], kind view.Kind) (*PageResponse, error) {
	items, err := view.ProjectSlice(kind, p.Items)
	if err != nil {
		return nil, err
	}
	return &PageResponse{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}, nil
}

// parseIDParam parses a UUID path parameter, writing a 400 response on
// failure
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parsePageParams reads page and limit query parameters. Malformed values
// fall back to the defaults rather than failing the request.
func parsePageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// respondIfTransient writes a 503 when the store itself misbehaved rather
// than rejecting the request, so clients know the failure is retryable.
// Sentinel-mapped errors are left to the caller; returns true when it
// responded.
func respondIfTransient(c *gin.Context, err error, what string) bool {
	if !db.IsTransient(err) {
		return false
	}
	logger.Log.Error().
		Err(err).
		Msg("Transient store failure: " + what)
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:   "store_unavailable",
		Message: "Storage temporarily unavailable, retry the request",
	})
	return true
}

// respondProjected projects a single view and writes it with the given
// status
func respondProjected(c *gin.Context, status int, kind view.Kind, v any) {
	projected, err := view.Project(kind, v)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("kind", string(kind)).
			Msg("Failed to project view")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "projection_failed",
			Message: "Failed to render response",
		})
		return
	}
	c.JSON(status, projected)
}
