package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/aiws-admin-api/internal/service"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	r := gin.New()
	r.GET("/ready", NewMetricsHandler(nil, stubPinger{}).Ready)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ready", nil).Code)

	down := gin.New()
	down.GET("/ready", NewMetricsHandler(nil, stubPinger{err: errors.New("refused")}).Ready)
	assert.Equal(t, http.StatusServiceUnavailable, perform(down, http.MethodGet, "/ready", nil).Code)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordExport("students", "xlsx")

	r := gin.New()
	h := NewMetricsHandler(metrics, nil)
	r.GET("/metrics", h.Prometheus)
	r.GET("/health", h.Health)

	rec := perform(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "students")

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", nil).Code)
}

func TestMetricsHandlerWithoutRegistry(t *testing.T) {
	r := gin.New()
	r.GET("/metrics", NewMetricsHandler(nil, nil).Prometheus)
	assert.Equal(t, http.StatusServiceUnavailable, perform(r, http.MethodGet, "/metrics", nil).Code)
}
