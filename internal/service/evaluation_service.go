package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/report"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/validation"
)

type evaluationRepository interface {
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Evaluation, error)
	Upsert(ctx context.Context, evaluation *models.Evaluation) error
	Delete(ctx context.Context, enrollmentID, goal string) error
}

type enrollmentFinder interface {
	Find(ctx context.Context, classID, studentID string) (*models.Enrollment, error)
}

// SetEvaluationRequest carries the grade for one goal.
type SetEvaluationRequest struct {
	Grade string `json:"grade" validate:"required"`
}

// EvaluationService records and clears per-goal grades.
type EvaluationService struct {
	repo        evaluationRepository
	enrollments enrollmentFinder
	classes     classLookup
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(repo evaluationRepository, enrollments enrollmentFinder, classes classLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validation.Validator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{repo: repo, enrollments: enrollments, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns the evaluations of a student in a class ordered by goal.
func (s *EvaluationService) List(ctx context.Context, classID, studentID string) ([]models.Evaluation, error) {
	enrollment, err := s.enrollment(ctx, classID, studentID)
	if err != nil {
		return nil, err
	}
	evaluations, err := s.repo.ListByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	if evaluations == nil {
		evaluations = []models.Evaluation{}
	}
	return evaluations, nil
}

// Set records the grade for a goal, overwriting any earlier grade for that goal.
func (s *EvaluationService) Set(ctx context.Context, classID, studentID, goal string, req SetEvaluationRequest) (*models.Evaluation, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "goal is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid evaluation payload")
	}
	grade, err := report.ParseGrade(req.Grade)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollment(ctx, classID, studentID)
	if err != nil {
		return nil, err
	}
	evaluation := &models.Evaluation{
		EnrollmentID:     enrollment.ID,
		EvaluationRecord: models.EvaluationRecord{Goal: goal, Grade: grade},
	}
	if err := s.repo.Upsert(ctx, evaluation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record evaluation")
	}
	if err := evictReports(ctx, s.cache, classID); err != nil {
		return nil, err
	}
	return evaluation, nil
}

// Clear removes the grade of a goal.
func (s *EvaluationService) Clear(ctx context.Context, classID, studentID, goal string) error {
	goal = strings.TrimSpace(goal)
	enrollment, err := s.enrollment(ctx, classID, studentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, enrollment.ID, goal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear evaluation")
	}
	return evictReports(ctx, s.cache, classID)
}

func (s *EvaluationService) enrollment(ctx context.Context, classID, studentID string) (*models.Enrollment, error) {
	if err := requireClass(ctx, s.classes, classID); err != nil {
		return nil, err
	}
	enrollment, err := s.enrollments.Find(ctx, classID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}
