package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

type reportServiceMock struct {
	report    *dto.ClassReport
	err       error
	export    *service.ExportResult
	gotFormat dto.ReportExportFormat
}

func (m *reportServiceMock) Generate(ctx context.Context, classID string) (*dto.ClassReport, error) {
	return m.report, m.err
}

func (m *reportServiceMock) Export(ctx context.Context, classID string, format dto.ReportExportFormat) (*service.ExportResult, error) {
	m.gotFormat = format
	return m.export, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestReportHandlerClassReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{report: &dto.ClassReport{
		ClassID:               "compilers-2024-2",
		TotalEnrolled:         1,
		PendingCount:          1,
		EvaluationPerformance: []dto.EvaluationPerformance{},
		Students:              []dto.StudentReport{{StudentID: "11111111111", Name: "Alice", Status: models.StatusPending}},
		GeneratedAt:           time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/classes/compilers-2024-2/report", nil)
	c.Params = gin.Params{{Key: "classId", Value: "compilers-2024-2"}}
	handler.ClassReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Nil(t, env.Error)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "compilers-2024-2", body["classId"])
	assert.Contains(t, body, "studentsAverage")
	assert.Nil(t, body["studentsAverage"])
	assert.Equal(t, []interface{}{}, body["evaluationPerformance"])
	students := body["students"].([]interface{})
	require.Len(t, students, 1)
	assert.Nil(t, students[0].(map[string]interface{})["average"])
}

func TestReportHandlerUnknownClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{err: appErrors.Clone(appErrors.ErrClassNotFound, "class nope-2024-1 not found")}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/classes/nope-2024-1/report", nil)
	c.Params = gin.Params{{Key: "classId", Value: "nope-2024-1"}}
	handler.ClassReport(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CLASS_NOT_FOUND", env.Error.Code)
	assert.Equal(t, "class nope-2024-1 not found", env.Error.Message)
}

func TestReportHandlerDataIntegrity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{err: appErrors.Clone(appErrors.ErrDataIntegrity, "enrollment enr-1 references unknown student")}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/classes/compilers-2024-2/report", nil)
	c.Params = gin.Params{{Key: "classId", Value: "compilers-2024-2"}}
	handler.ClassReport(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DATA_INTEGRITY", decodeEnvelope(t, w).Error.Code)
}

func TestReportHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{export: &service.ExportResult{
		Filename:    "compilers-2024-2-report.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.3"),
	}}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/classes/compilers-2024-2/report/export?format=PDF", nil)
	c.Params = gin.Params{{Key: "classId", Value: "compilers-2024-2"}}
	handler.ExportClassReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ReportFormatPDF, mockSvc.gotFormat)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="compilers-2024-2-report.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}

func TestReportHandlerExportDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{export: &service.ExportResult{Filename: "x.csv", ContentType: "text/csv", Content: []byte("a\n")}}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/classes/x/report/export", nil)
	c.Params = gin.Params{{Key: "classId", Value: "x"}}
	handler.ExportClassReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ReportFormatCSV, mockSvc.gotFormat)
}
