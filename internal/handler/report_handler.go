package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

type reportService interface {
	Generate(ctx context.Context, classID string) (*dto.ClassReport, error)
	Export(ctx context.Context, classID string, format dto.ReportExportFormat) (*service.ExportResult, error)
}

// ReportHandler exposes class report endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ClassReport godoc
// @Summary Class performance report
// @Tags Reports
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope{data=dto.ClassReport}
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /classes/{classId}/report [get]
func (h *ReportHandler) ClassReport(c *gin.Context) {
	report, err := h.reports.Generate(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportClassReport godoc
// @Summary Download class performance report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param classId path string true "Class ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /classes/{classId}/report/export [get]
func (h *ReportHandler) ExportClassReport(c *gin.Context) {
	format := dto.ReportExportFormat(strings.ToLower(c.DefaultQuery("format", string(dto.ReportFormatCSV))))
	result, err := h.reports.Export(c.Request.Context(), c.Param("classId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Content)
}
