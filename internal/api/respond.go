package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/auth"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/rs/zerolog"
)

// respondError writes err as {message} with its mapped status. Unclassified
// errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// bindJSON decodes the request body into dst
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// actorOf returns the authenticated actor. The authenticate middleware
// guarantees its presence on protected routes.
func actorOf(c *gin.Context) (policy.Actor, error) {
	actor, ok := auth.ActorFrom(c.Request.Context())
	if !ok {
		return policy.Actor{}, apperr.Unauthenticated("authentication required")
	}
	return actor, nil
}
