package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"calc-service/internal/domain"
)

type profileUpdateRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(*currentUser(c)))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req.Email, req.Username)
	if err != nil {
		h.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUser(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully. Please login again with your new password.",
	})
}

func (h *Handler) respondProfileError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		abortWithDetail(c, http.StatusNotFound, "User not found")
		return
	}
	h.respondError(c, err)
}
