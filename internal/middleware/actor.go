package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/logger"
)

// actorKey is the gin context key the resolved actor id is stored under
const actorKey = "actor_id"

// ActorHeader carries the authenticated user id, set by the gateway that
// terminates authentication upstream of this service.
const ActorHeader = "X-Actor-ID"

// ActorExtractor returns a Gin middleware that resolves the acting user
// from the request. A missing or malformed header leaves the request
// anonymous; each operation decides whether anonymous is acceptable.
func ActorExtractor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ActorHeader)
		if raw == "" {
			c.Next()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Log.Warn().
				Str("header", raw).
				Str("path", c.Request.URL.Path).
				Msg("Malformed actor header, treating request as anonymous")
			c.Next()
			return
		}

		c.Set(actorKey, id)
		c.Next()
	}
}

// ActorFrom returns the acting user id for a request, or uuid.Nil for an
// anonymous caller
func ActorFrom(c *gin.Context) uuid.UUID {
	v, ok := c.Get(actorKey)
	if !ok {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
