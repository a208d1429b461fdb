package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{ *memCache }

func (f failingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis down")
}

func (f failingCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("redis down")
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", "v", 0))
	assert.Empty(t, repo.entries)

	var dest string
	hit, err := svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var dest string
	hit, err := svc.Get(ctx, ReportCacheKey("c-2024-1"), &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, ReportCacheKey("c-2024-1"), "payload", 0))
	hit, err = svc.Get(ctx, ReportCacheKey("c-2024-1"), &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "payload", dest)

	require.NoError(t, svc.EvictReports(ctx, "c-2024-1"))
	assert.Empty(t, repo.entries)
	assert.Equal(t, []string{"report:class:c-2024-1"}, repo.deleted)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
}

func TestCacheServiceInvalidateReports(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, 0, nil, true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, ReportCacheKey("a"), 1, 0))
	require.NoError(t, svc.Set(ctx, ReportCacheKey("b"), 2, 0))
	require.NoError(t, svc.Set(ctx, "other", 3, 0))

	require.NoError(t, svc.InvalidateReports(ctx))
	assert.Len(t, repo.entries, 1)
	assert.Contains(t, repo.entries, "other")
}

func TestCacheServiceFailures(t *testing.T) {
	svc := NewCacheService(failingCache{newMemCache()}, nil, 0, nil, true)
	ctx := context.Background()

	var dest string
	hit, err := svc.Get(ctx, "k", &dest)
	assert.Error(t, err)
	assert.False(t, hit)

	assert.Error(t, svc.EvictReports(ctx, "c-2024-1"))
}

func TestEnrollFailsWhenCacheCannotBeInvalidated(t *testing.T) {
	svc := newServices(true)
	classID := svc.store.addClass("Compilers", 2024, 2)
	svc.store.addStudent("11111111111", "Alice")
	cache := NewCacheService(failingCache{newMemCache()}, nil, 0, nil, true)
	enrollments := NewEnrollmentService(memEnrollments{svc.store}, memClasses{svc.store}, memStudents{svc.store}, memEvaluations{svc.store}, cache, nil, nil)

	_, err := enrollments.Enroll(context.Background(), classID, EnrollStudentRequest{StudentID: "11111111111"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalidate")
}
