package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-ai/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	requestIDCtxKey = "request_id"

	requestIDHeader = "X-Request-ID"
)

// HandleRequestLogger tags the request with an id, echoed in X-Request-ID,
// and logs the outcome once the chain has run.
func (h *handlerImpl) HandleRequestLogger(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to generate request id")
		} else {
			requestID = id.String()
		}
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	started := time.Now()
	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = h.logger.Error()
	case status >= http.StatusBadRequest:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Dur("latency", time.Since(started)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError("authorization header required"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError("invalid authorization header"))
		return
	}

	userID, err := h.auth.VerifyAccessToken(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify access token")
		if errors.Is(err, services.ErrTokenExpired) {
			abort(c, newUnauthorizedError(services.ErrTokenExpired.Error()))
			return
		}
		abort(c, newUnauthorizedError(services.ErrInvalidToken.Error()))
		return
	}

	c.Set(userIDCtxKey, userID)
	c.Next()
}

// mustUserID returns the caller's id set by HandleAuthMiddleware, aborting
// with 401 when it is absent.
func (h *handlerImpl) mustUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDCtxKey)
	if userID == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return "", false
	}
	return userID, true
}
