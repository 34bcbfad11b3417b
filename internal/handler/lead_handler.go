package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/service"
	"github.com/noah-isme/aiws-admin-api/pkg/response"
)

type leadService interface {
	List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error)
	Get(ctx context.Context, id int64) (*models.Lead, error)
	Create(ctx context.Context, req service.LeadRequest) (*models.Lead, error)
	Update(ctx context.Context, id int64, req service.LeadRequest) (*models.Lead, error)
	Delete(ctx context.Context, id int64) error
}

// LeadHandler exposes sales pipeline endpoints.
type LeadHandler struct {
	leads leadService
}

// NewLeadHandler constructs LeadHandler.
func NewLeadHandler(leads leadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// List godoc
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param stage query string false "Pipeline stage or all"
// @Param source query string false "Lead source or all"
// @Param search query string false "Search by company, contact, phone or email"
// @Success 200 {object} response.Envelope
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	filter := models.LeadFilter{
		Stage:  strings.TrimSpace(c.Query("stage")),
		Source: strings.TrimSpace(c.Query("source")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	items, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, response.Total(len(items)))
}

// Get godoc
// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leads/{id} [get]
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	lead, err := h.leads.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lead)
}

// Create godoc
// @Summary Create lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param payload body service.LeadRequest true "Lead payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req service.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	lead, err := h.leads.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lead)
}

// Update godoc
// @Summary Update lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param payload body service.LeadRequest true "Lead payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	lead, err := h.leads.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lead)
}

// Delete godoc
// @Summary Delete lead
// @Tags Leads
// @Param id path int true "Lead ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.leads.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
