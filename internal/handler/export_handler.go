package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/service"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type rosterExporter interface {
	Students(ctx context.Context, req service.ExportRequest) (*service.ExportFile, error)
	Staff(ctx context.Context, req service.ExportRequest) (*service.ExportFile, error)
}

// ExportHandler streams roster exports.
type ExportHandler struct {
	exports rosterExporter
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports rosterExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students godoc
// @Summary Export the student roster
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param grade query string false "Grade"
// @Param section query string false "Section"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /exports/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	h.serve(c, h.exports.Students)
}

// Staff godoc
// @Summary Export staff assignments
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param grade query string false "Grade"
// @Param section query string false "Section"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /exports/staff [get]
func (h *ExportHandler) Staff(c *gin.Context) {
	h.serve(c, h.exports.Staff)
}

func (h *ExportHandler) serve(c *gin.Context, build func(context.Context, service.ExportRequest) (*service.ExportFile, error)) {
	var req service.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "parámetros de consulta inválidos"))
		return
	}
	file, err := build(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("X-Export-Rows", strconv.Itoa(file.Rows))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
