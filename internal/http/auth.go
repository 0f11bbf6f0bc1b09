package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calc-service/internal/domain"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondToken(c, http.StatusOK, user)
}

func (h *Handler) respondToken(c *gin.Context, status int, user *domain.User) {
	token, expiresAt, err := h.tokens.Issue(user.ID, 0)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		User:        userToResponse(*user),
	})
}
