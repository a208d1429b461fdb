package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

func TestClassServiceCreateDerivesIdentifier(t *testing.T) {
	svc := newServices(false)

	class, err := svc.classes.Create(context.Background(), CreateClassRequest{Topic: "  Software Engineering ", Year: 2024, Semester: 1})
	require.NoError(t, err)
	assert.Equal(t, "software-engineering-2024-1", class.ID)
	assert.Equal(t, "Software Engineering", class.Topic)

	_, err = svc.classes.Create(context.Background(), CreateClassRequest{Topic: "Software Engineering", Year: 2024, Semester: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestClassServiceCreateValidation(t *testing.T) {
	svc := newServices(false)

	_, err := svc.classes.Create(context.Background(), CreateClassRequest{Topic: "Databases", Year: 2024, Semester: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.classes.Create(context.Background(), CreateClassRequest{Topic: "   ", Year: 2024, Semester: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassServiceGetUnknown(t *testing.T) {
	svc := newServices(false)

	_, err := svc.classes.Get(context.Background(), "missing-2024-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrClassNotFound)
	assert.Contains(t, err.Error(), "missing-2024-1")
}

func TestClassServiceListPagination(t *testing.T) {
	svc := newServices(false)
	classID := svc.store.addClass("Compilers", 2024, 2)
	svc.store.addStudent("11111111111", "Alice")
	svc.store.enroll(classID, "11111111111")

	classes, pagination, err := svc.classes.List(context.Background(), models.ClassFilter{PageSize: 500})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, 1, classes[0].EnrolledCount)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, pagination)
}

func TestClassServiceDeleteEvictsReport(t *testing.T) {
	svc := newServices(true)
	classID := svc.store.addClass("Compilers", 2024, 2)

	_, err := svc.reports.Generate(context.Background(), classID)
	require.NoError(t, err)
	assert.Contains(t, svc.cache.entries, ReportCacheKey(classID))

	require.NoError(t, svc.classes.Delete(context.Background(), classID))
	assert.NotContains(t, svc.cache.entries, ReportCacheKey(classID))

	_, err = svc.reports.Generate(context.Background(), classID)
	assert.ErrorIs(t, err, appErrors.ErrClassNotFound)
}

func TestClassServiceValidationDetails(t *testing.T) {
	svc := newServices(false)

	_, err := svc.classes.Create(context.Background(), CreateClassRequest{Topic: "Databases", Year: 2024, Semester: 5})
	require.Error(t, err)
	details := appErrors.FromError(err).Details
	require.Contains(t, details, "semester")
	assert.NotContains(t, details, "topic")
}
