package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aiws-admin-api/internal/dto"
	"github.com/noah-isme/aiws-admin-api/internal/middleware"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
	"github.com/noah-isme/aiws-admin-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context) (*dto.OverviewResponse, bool, error)
	StudentStats(ctx context.Context) (*dto.StudentDashboardResponse, bool, error)
	Pipeline(ctx context.Context) (*dto.PipelineDashboardResponse, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview godoc
// @Summary Business overview dashboard
// @Description KPIs, distributions, sales funnel and financial split
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, summary, middleware.ResponseMeta(c))
}

// Students godoc
// @Summary Student payment dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/students [get]
func (h *DashboardHandler) Students(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.StudentStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, summary, middleware.ResponseMeta(c))
}

// Pipeline godoc
// @Summary Sales pipeline dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/pipeline [get]
func (h *DashboardHandler) Pipeline(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Pipeline(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, summary, middleware.ResponseMeta(c))
}
