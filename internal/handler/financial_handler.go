package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/service"
	"github.com/noah-isme/aiws-admin-api/pkg/response"
)

type financialService interface {
	List(ctx context.Context, scope string) ([]models.FinancialPeriod, error)
	Get(ctx context.Context, id int64) (*models.FinancialPeriod, error)
	Create(ctx context.Context, req service.FinancialPeriodRequest) (*models.FinancialPeriod, error)
	Update(ctx context.Context, id int64, req service.FinancialPeriodRequest) (*models.FinancialPeriod, error)
	Delete(ctx context.Context, id int64) error
}

// FinancialHandler exposes monthly financial period endpoints.
type FinancialHandler struct {
	periods financialService
}

// NewFinancialHandler constructs FinancialHandler.
func NewFinancialHandler(periods financialService) *FinancialHandler {
	return &FinancialHandler{periods: periods}
}

// List godoc
// @Summary List financial periods
// @Tags Financials
// @Produce json
// @Param scope query string false "all, actual or forecast"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /financial-periods [get]
func (h *FinancialHandler) List(c *gin.Context) {
	periods, err := h.periods.List(c.Request.Context(), strings.TrimSpace(c.Query("scope")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, periods, response.Total(len(periods)))
}

// Get godoc
// @Summary Get financial period
// @Tags Financials
// @Produce json
// @Param id path int true "Period ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /financial-periods/{id} [get]
func (h *FinancialHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	period, err := h.periods.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, period)
}

// Create godoc
// @Summary Create financial period
// @Tags Financials
// @Accept json
// @Produce json
// @Param payload body service.FinancialPeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /financial-periods [post]
func (h *FinancialHandler) Create(c *gin.Context) {
	var req service.FinancialPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	period, err := h.periods.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Update godoc
// @Summary Update financial period
// @Tags Financials
// @Accept json
// @Produce json
// @Param id path int true "Period ID"
// @Param payload body service.FinancialPeriodRequest true "Period payload"
// @Success 200 {object} response.Envelope
// @Router /financial-periods/{id} [put]
func (h *FinancialHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.FinancialPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	period, err := h.periods.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, period)
}

// Delete godoc
// @Summary Delete financial period
// @Tags Financials
// @Param id path int true "Period ID"
// @Success 204
// @Router /financial-periods/{id} [delete]
func (h *FinancialHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.periods.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
