package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"calc-service/internal/domain"
	"calc-service/internal/validation"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

type calculationRequest struct {
	A    *float64 `json:"a" binding:"required"`
	B    *float64 `json:"b" binding:"required"`
	Type string   `json:"type" binding:"required"`
}

func (r calculationRequest) input() validation.CalculationInput {
	return validation.CalculationInput{A: *r.A, B: *r.B, Type: r.Type}
}

func bindError(c *gin.Context, err error) {
	abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
}

func (h *Handler) createCalculation(c *gin.Context) {
	var req calculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var ownerID *int64
	if user := currentUser(c); user != nil {
		ownerID = &user.ID
	}

	record, err := h.calcs.Create(c.Request.Context(), req.input(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.RecordCalculation(record.Type)

	c.JSON(http.StatusCreated, calculationToResponse(*record))
}

func (h *Handler) listCalculations(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}

	records, err := h.calcs.ListByOwner(c.Request.Context(), currentUser(c).ID, skip, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]CalculationResponse, len(records))
	for i := range records {
		resp[i] = calculationToResponse(records[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCalculation(c *gin.Context) {
	id, ok := calculationID(c)
	if !ok {
		return
	}

	record, err := h.calcs.GetOwned(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		h.respondCalculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, calculationToResponse(*record))
}

func (h *Handler) updateCalculation(c *gin.Context) {
	id, ok := calculationID(c)
	if !ok {
		return
	}

	var req calculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.calcs.GetOwned(ctx, id, currentUser(c).ID); err != nil {
		h.respondCalculationError(c, err)
		return
	}

	record, err := h.calcs.Update(ctx, id, req.input())
	if err != nil {
		h.respondCalculationError(c, err)
		return
	}
	c.JSON(http.StatusOK, calculationToResponse(*record))
}

func (h *Handler) deleteCalculation(c *gin.Context) {
	id, ok := calculationID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.calcs.GetOwned(ctx, id, currentUser(c).ID); err != nil {
		h.respondCalculationError(c, err)
		return
	}

	deleted, err := h.calcs.Delete(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		abortWithDetail(c, http.StatusNotFound, "Calculation not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.calcs.Stats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statsToResponse(*stats))
}

func (h *Handler) respondCalculationError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		abortWithDetail(c, http.StatusNotFound, "Calculation not found")
		return
	}
	h.respondError(c, err)
}

func calculationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithDetail(c, http.StatusUnprocessableEntity, "invalid calculation id")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (skip, limit int, ok bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		abortWithDetail(c, http.StatusUnprocessableEntity, "skip must be a non-negative integer")
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 0 || limit > maxPageLimit {
		abortWithDetail(c, http.StatusUnprocessableEntity, "limit must be between 0 and 1000")
		return 0, 0, false
	}
	return skip, limit, true
}
