package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aiws-admin-api/internal/service"
	"github.com/noah-isme/aiws-admin-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, entity, format string) (*service.ExportFile, error)
	ExportAll(ctx context.Context) (*service.ExportFile, error)
}

// ExportHandler streams generated export files.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Export an entity table
// @Description entity "all" returns the multi-sheet summary workbook and ignores format
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity path string true "employees, courses, leads, students or all"
// @Param format query string false "xlsx (default), csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/{entity} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	entity := strings.ToLower(strings.TrimSpace(c.Param("entity")))
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))

	var (
		file *service.ExportFile
		err  error
	)
	if entity == "all" {
		file, err = h.exports.ExportAll(c.Request.Context())
	} else {
		file, err = h.exports.Export(c.Request.Context(), entity, format)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
