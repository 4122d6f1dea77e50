package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"mrp/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto status codes. Storage faults are
// logged and reported without detail.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrInvalidStarValue),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrSelfLike):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNameInUse),
		errors.Is(err, service.ErrAlreadyFavorite):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "request timed out"
		log.Warn().Str("path", c.Request.URL.Path).Msg("request timed out")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// pathID parses a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
