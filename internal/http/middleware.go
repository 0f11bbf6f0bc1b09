package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"calc-service/internal/domain"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxRequestID   = "request_id"
	ctxCurrentUser = "current_user"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func (h *Handler) requestLog(c *gin.Context) logrus.FieldLogger {
	return h.log.WithField("request_id", c.GetString(ctxRequestID))
}

// requireAuth rejects the request unless it carries a valid bearer token for an active user.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "Not authenticated")
			return
		}
		h.authenticate(c, token)
	}
}

// optionalAuth resolves the caller when a bearer token is present. A request
// without a token passes through anonymously; a bad token is still rejected.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		h.authenticate(c, token)
	}
}

func (h *Handler) authenticate(c *gin.Context, token string) {
	claims, err := h.tokens.Verify(token)
	if err != nil {
		unauthorized(c, "Could not validate credentials")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		unauthorized(c, "Could not validate credentials")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			unauthorized(c, "User not found")
			return
		}
		h.respondError(c, err)
		return
	}
	if !user.Active {
		abortWithDetail(c, http.StatusForbidden, "User account is inactive")
		return
	}

	c.Set(ctxCurrentUser, user)
	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	abortWithDetail(c, http.StatusUnauthorized, detail)
}

// currentUser returns the user resolved by requireAuth or optionalAuth, or nil.
func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxCurrentUser)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
