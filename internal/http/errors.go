package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"calc-service/internal/calc"
	"calc-service/internal/domain"
	"calc-service/internal/service"
	"calc-service/internal/validation"
)

const internalErrorDetail = "Internal server error"

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// respondError maps service, store and validation errors onto HTTP statuses.
// Anything unrecognised is logged and hidden behind a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr) && (errors.Is(err, validation.ErrInvalidOperationType) || errors.Is(err, validation.ErrDomainViolation)):
		abortWithDetail(c, http.StatusUnprocessableEntity, verr.Error())
	case errors.As(err, &verr):
		abortWithDetail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, calc.ErrDivisionByZero):
		abortWithDetail(c, http.StatusBadRequest, "Division by zero")
	case errors.Is(err, calc.ErrModulusByZero):
		abortWithDetail(c, http.StatusBadRequest, "Modulus by zero")
	case errors.Is(err, calc.ErrNonFiniteResult):
		abortWithDetail(c, http.StatusBadRequest, "Result is not a finite number")
	case errors.Is(err, calc.ErrUnsupportedOperation):
		abortWithDetail(c, http.StatusBadRequest, "Unsupported operation")
	case errors.Is(err, domain.ErrEmailTaken):
		abortWithDetail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrUsernameTaken):
		abortWithDetail(c, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		abortWithDetail(c, http.StatusUnauthorized, "Incorrect username/email or password")
	case errors.Is(err, service.ErrIncorrectPassword):
		abortWithDetail(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, service.ErrInactiveUser):
		abortWithDetail(c, http.StatusForbidden, "User account is inactive")
	case errors.Is(err, domain.ErrNotFound):
		abortWithDetail(c, http.StatusNotFound, "Not found")
	default:
		h.requestLog(c).WithError(err).Error("request failed")
		abortWithDetail(c, http.StatusInternalServerError, internalErrorDetail)
	}
}
