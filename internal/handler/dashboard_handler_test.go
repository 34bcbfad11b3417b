package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/dto"
	"github.com/noah-isme/aiws-admin-api/internal/middleware"
)

type fakeDashboardSrv struct {
	overview    *dto.OverviewResponse
	overviewHit bool
	students    *dto.StudentDashboardResponse
	pipeline    *dto.PipelineDashboardResponse
	err         error
}

func (f *fakeDashboardSrv) Overview(context.Context) (*dto.OverviewResponse, bool, error) {
	return f.overview, f.overviewHit, f.err
}

func (f *fakeDashboardSrv) StudentStats(context.Context) (*dto.StudentDashboardResponse, bool, error) {
	return f.students, false, f.err
}

func (f *fakeDashboardSrv) Pipeline(context.Context) (*dto.PipelineDashboardResponse, bool, error) {
	return f.pipeline, false, f.err
}

func TestDashboardHandlerOverviewCacheMeta(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		overview:    &dto.OverviewResponse{KPIs: dto.OverviewKPIs{TotalEmployees: 3}},
		overviewHit: true,
	})
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.GET("/dashboard", handler.Overview)

	rec := perform(r, http.MethodGet, "/dashboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env.Meta[middleware.MetaCacheHit])
	assert.Contains(t, env.Meta, middleware.MetaProcessingTime)

	var overview dto.OverviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &overview))
	assert.Equal(t, 3, overview.KPIs.TotalEmployees)
}

func TestDashboardHandlerStudents(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		students: &dto.StudentDashboardResponse{Stats: derived.StudentStats{Total: 5}},
	})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/students", nil)

	handler.Students(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, false, env.Meta[middleware.MetaCacheHit])
}

func TestDashboardHandlerPipelineError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/pipeline", nil)

	handler.Pipeline(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDashboardHandlerNilService(t *testing.T) {
	handler := NewDashboardHandler(nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
