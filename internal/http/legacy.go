package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"calc-service/internal/calc"
	"calc-service/internal/domain"
)

var legacyOps = map[string]domain.OperationType{
	"add": domain.OperationAdd,
	"sub": domain.OperationSub,
	"mul": domain.OperationMultiply,
	"div": domain.OperationDivide,
	"pow": domain.OperationPower,
	"mod": domain.OperationModulus,
}

func (h *Handler) legacyBinary(op domain.OperationType) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, b, ok := operands(c)
		if !ok {
			return
		}
		result, err := calc.Compute(a, b, op)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func (h *Handler) legacyCalc(c *gin.Context) {
	name := strings.ToLower(strings.TrimSpace(c.Query("op")))
	a, b, ok := operands(c)
	if !ok {
		return
	}

	op, found := legacyOps[name]
	if !found {
		abortWithDetail(c, http.StatusBadRequest, "Unsupported operation")
		return
	}
	result, err := calc.Compute(a, b, op)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"op": name, "result": result})
}

// operands parses the a and b query parameters. NaN and ±Inf are rejected.
func operands(c *gin.Context) (float64, float64, bool) {
	a, errA := strconv.ParseFloat(c.Query("a"), 64)
	b, errB := strconv.ParseFloat(c.Query("b"), 64)
	if errA != nil || errB != nil || !finite(a) || !finite(b) {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Query parameters a and b must be finite numbers")
		return 0, 0, false
	}
	return a, b, true
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
