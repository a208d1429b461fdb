package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/report"
	"github.com/noah-isme/gradebook-api/pkg/export"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context, classID string) (*models.ClassSnapshot, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ReportConfig tunes report caching and export rendering.
type ReportConfig struct {
	CacheTTL     time.Duration
	ExportTitle  string
	// CSVDelimiter separates CSV fields; zero means a comma.
	CSVDelimiter rune
}

// ExportResult is a rendered report ready to be streamed to a client.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService turns the current state of a class into a report.
type ReportService struct {
	snapshots snapshotLoader
	generator *report.Generator
	cache     *CacheService
	metrics   *MetricsService
	csv       csvRenderer
	pdf       pdfRenderer
	cfg       ReportConfig
	logger    *zap.Logger
}

// NewReportService wires the report service. A nil generator uses the default policy.
func NewReportService(snapshots snapshotLoader, generator *report.Generator, cache *CacheService, metrics *MetricsService, cfg ReportConfig, logger *zap.Logger) *ReportService {
	if generator == nil {
		generator = report.NewGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExportTitle == "" {
		cfg.ExportTitle = "Class performance report"
	}
	if cfg.CSVDelimiter == 0 {
		cfg.CSVDelimiter = ','
	}
	return &ReportService{
		snapshots: snapshots,
		generator: generator,
		cache:     cache,
		metrics:   metrics,
		csv:       export.NewCSVExporter(export.WithDelimiter(cfg.CSVDelimiter)),
		pdf:       export.NewPDFExporter(),
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate builds the report of a class from a freshly loaded snapshot. When the
// report cache is on, a cached copy is served until the next write to the class evicts it.
func (s *ReportService) Generate(ctx context.Context, classID string) (*dto.ClassReport, error) {
	start := time.Now()
	key := ReportCacheKey(classID)

	var cached dto.ClassReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		s.metrics.ObserveReport(ReportOutcomeCacheHit, time.Since(start), &cached)
		return &cached, nil
	}

	loadStart := time.Now()
	snapshot, err := s.snapshots.LoadSnapshot(ctx, classID)
	s.metrics.ObserveDBQuery("class_snapshot", time.Since(loadStart))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.ObserveReport(ReportOutcomeNotFound, time.Since(start), nil)
			return nil, classNotFound(classID)
		}
		s.metrics.ObserveReport(ReportOutcomeError, time.Since(start), nil)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class snapshot")
	}

	result, err := s.generator.Generate(*snapshot)
	if err != nil {
		if errors.Is(err, appErrors.ErrDataIntegrity) {
			s.logger.Error("class snapshot failed integrity check", zap.String("class_id", classID), zap.Error(err))
			s.metrics.ObserveReport(ReportOutcomeIntegrity, time.Since(start), nil)
			return nil, err
		}
		s.metrics.ObserveReport(ReportOutcomeError, time.Since(start), nil)
		return nil, appErrors.FromError(err)
	}
	s.metrics.ObserveReport(ReportOutcomeSuccess, time.Since(start), result)

	_ = s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	return result, nil
}

// Export renders the class report in the requested format.
func (s *ReportService) Export(ctx context.Context, classID string, format dto.ReportExportFormat) (*ExportResult, error) {
	if format != dto.ReportFormatCSV && format != dto.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	result, err := s.Generate(ctx, classID)
	if err != nil {
		return nil, err
	}

	var (
		content     []byte
		contentType string
	)
	switch format {
	case dto.ReportFormatCSV:
		content, err = s.csv.Render(studentDataset(result))
		contentType = "text/csv"
	case dto.ReportFormatPDF:
		content, err = s.pdf.Render(reportDocument(s.cfg.ExportTitle, result))
		contentType = "application/pdf"
	}
	if err != nil {
		s.logger.Error("failed to render class report", zap.String("class_id", classID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	return &ExportResult{
		Filename:    classID + "-report." + string(format),
		ContentType: contentType,
		Content:     content,
	}, nil
}
