package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

func seedScenario(svc *services) string {
	classID := svc.store.addClass("Software Engineering", 2024, 1)
	svc.store.addStudent("11111111111", "Alice")
	svc.store.addStudent("22222222222", "Bob")
	svc.store.addStudent("33333333333", "Carol")
	svc.store.enroll(classID, "11111111111", rec("Requirements", models.GradeMA), rec("Design", models.GradeMA), rec("Tests", models.GradeMA))
	svc.store.enroll(classID, "22222222222", rec("Requirements", models.GradeMPA), rec("Design", models.GradeMPA), rec("Tests", models.GradeMPA))
	svc.store.enroll(classID, "33333333333", rec("Requirements", models.GradeMANA), rec("Design", models.GradeMANA), rec("Tests", models.GradeMANA))
	return classID
}

func TestReportServiceGenerate(t *testing.T) {
	svc := newServices(false)
	classID := seedScenario(svc)

	result, err := svc.reports.Generate(context.Background(), classID)
	require.NoError(t, err)
	assert.Equal(t, classID, result.ClassID)
	assert.Equal(t, 3, result.TotalEnrolled)
	assert.Equal(t, 2, result.ApprovedCount)
	assert.Equal(t, 1, result.NotApprovedCount)
	require.NotNil(t, result.StudentsAverage)
	assert.InDelta(t, 5.67, *result.StudentsAverage, 1e-9)

	require.Len(t, result.EvaluationPerformance, 3)
	assert.Equal(t, "Design", result.EvaluationPerformance[0].Goal)
	assert.Equal(t, dto.GradeDistribution{MANA: 1, MPA: 1, MA: 1}, result.EvaluationPerformance[0].Distribution)

	statuses := map[string]models.StudentStatus{}
	for _, student := range result.Students {
		statuses[student.Name] = student.Status
	}
	assert.Equal(t, models.StatusApproved, statuses["Alice"])
	assert.Equal(t, models.StatusApproved, statuses["Bob"])
	assert.Equal(t, models.StatusFailed, statuses["Carol"])
}

func TestReportServiceUnknownClass(t *testing.T) {
	svc := newServices(false)

	_, err := svc.reports.Generate(context.Background(), "nope-2024-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrClassNotFound)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.NotEmpty(t, appErr.Message)
}

func TestReportServiceLoadFailure(t *testing.T) {
	svc := newServices(false)
	classID := seedScenario(svc)
	svc.store.loadErr = errors.New("connection reset")

	_, err := svc.reports.Generate(context.Background(), classID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestReportServiceOrphanedEnrollment(t *testing.T) {
	svc := newServices(false)
	classID := svc.store.addClass("Compilers", 2024, 2)
	svc.store.addStudent("11111111111", "Alice")
	svc.store.enroll(classID, "11111111111", rec("Design", models.GradeMA))
	svc.store.enroll(classID, "99999999999", rec("Design", models.GradeMANA))

	result, err := svc.reports.Generate(context.Background(), classID)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDataIntegrity)
	assert.Equal(t, uint64(1), svc.metrics.Snapshot().ReportsFailed)
}

func TestReportServiceReadAfterWrite(t *testing.T) {
	for _, cacheEnabled := range []bool{false, true} {
		svc := newServices(cacheEnabled)
		ctx := context.Background()
		classID := seedScenario(svc)
		svc.store.addStudent("44444444444", "Dave")

		before, err := svc.reports.Generate(ctx, classID)
		require.NoError(t, err)

		_, err = svc.enrollments.Enroll(ctx, classID, EnrollStudentRequest{StudentID: "44444444444"})
		require.NoError(t, err)

		afterEnroll, err := svc.reports.Generate(ctx, classID)
		require.NoError(t, err)
		assert.Equal(t, before.TotalEnrolled+1, afterEnroll.TotalEnrolled)
		assert.Equal(t, before.PendingCount+1, afterEnroll.PendingCount)
		assert.Contains(t, studentNames(afterEnroll), "Dave")

		_, err = svc.evaluations.Set(ctx, classID, "44444444444", "Design", SetEvaluationRequest{Grade: "MA"})
		require.NoError(t, err)
		afterGrade, err := svc.reports.Generate(ctx, classID)
		require.NoError(t, err)
		assert.Equal(t, before.ApprovedCount+1, afterGrade.ApprovedCount)
		assert.Equal(t, 0, afterGrade.PendingCount)

		require.NoError(t, svc.enrollments.Unenroll(ctx, classID, "44444444444"))
		afterUnenroll, err := svc.reports.Generate(ctx, classID)
		require.NoError(t, err)
		assert.Equal(t, before.TotalEnrolled, afterUnenroll.TotalEnrolled)
		assert.NotContains(t, studentNames(afterUnenroll), "Dave")
		assert.Equal(t, before.StudentsAverage, afterUnenroll.StudentsAverage)
	}
}

func TestReportServiceServesCachedReport(t *testing.T) {
	svc := newServices(true)
	ctx := context.Background()
	classID := seedScenario(svc)

	first, err := svc.reports.Generate(ctx, classID)
	require.NoError(t, err)
	second, err := svc.reports.Generate(ctx, classID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalEnrolled, second.TotalEnrolled)
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt))

	snapshot := svc.metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.ReportsGenerated)
	assert.Equal(t, 2, snapshot.StudentsClassified[string(models.StatusApproved)])
}

func TestReportServiceExportCSV(t *testing.T) {
	svc := newServices(false)
	classID := seedScenario(svc)

	result, err := svc.reports.Export(context.Background(), classID, dto.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, classID+"-report.csv", result.Filename)

	records, err := csv.NewReader(bytes.NewReader(result.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"student_id", "name", "average", "status"}, records[0])
	assert.Equal(t, []string{"11111111111", "Alice", "10.00", "APPROVED"}, records[1])
	assert.Equal(t, []string{"33333333333", "Carol", "0.00", "FAILED"}, records[3])
}

func TestReportServiceExportCSVWithDelimiter(t *testing.T) {
	svc := newServices(false)
	classID := seedScenario(svc)
	cache := NewCacheService(newMemCache(), nil, 0, nil, false)
	reports := NewReportService(svc.store, nil, cache, nil, ReportConfig{CSVDelimiter: ';'}, nil)

	result, err := reports.Export(context.Background(), classID, dto.ReportFormatCSV)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(result.Content))
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"11111111111", "Alice", "10.00", "APPROVED"}, records[1])
	assert.True(t, strings.HasPrefix(string(result.Content), "student_id;name;average;status\n"))
}

func TestReportServiceExportPDF(t *testing.T) {
	svc := newServices(false)
	classID := seedScenario(svc)

	result, err := svc.reports.Export(context.Background(), classID, dto.ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestReportServiceExportRejectsUnknownFormat(t *testing.T) {
	svc := newServices(false)
	classID := seedScenario(svc)

	_, err := svc.reports.Export(context.Background(), classID, dto.ReportExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func studentNames(result *dto.ClassReport) []string {
	names := make([]string, 0, len(result.Students))
	for _, student := range result.Students {
		names = append(names, student.Name)
	}
	return names
}
