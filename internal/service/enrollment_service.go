package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/validation"
)

type enrollmentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error)
	Find(ctx context.Context, classID, studentID string) (*models.Enrollment, error)
	Exists(ctx context.Context, classID, studentID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, classID, studentID string) error
}

type classLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type studentLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type classEvaluationLister interface {
	ListByClass(ctx context.Context, classID string) (map[string][]models.Evaluation, error)
}

// EnrollStudentRequest contains the payload for enrolling a student.
type EnrollStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

// EnrollmentService manages class membership.
type EnrollmentService struct {
	repo        enrollmentRepository
	classes     classLookup
	students    studentLookup
	evaluations classEvaluationLister
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService builds the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, classes classLookup, students studentLookup, evaluations classEvaluationLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validation.Validator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:        repo,
		classes:     classes,
		students:    students,
		evaluations: evaluations,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns the enrollments of a class with their recorded evaluations.
func (s *EnrollmentService) List(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	if err := s.requireClass(ctx, classID); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	grouped, err := s.evaluations.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	if enrollments == nil {
		enrollments = []models.EnrollmentDetail{}
	}
	for i := range enrollments {
		evaluations := grouped[enrollments[i].ID]
		if evaluations == nil {
			evaluations = []models.Evaluation{}
		}
		enrollments[i].Evaluations = evaluations
	}
	return enrollments, nil
}

// Enroll adds a student to a class.
func (s *EnrollmentService) Enroll(ctx context.Context, classID string, req EnrollStudentRequest) (*models.Enrollment, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	if err := s.requireClass(ctx, classID); err != nil {
		return nil, err
	}

	studentExists, err := s.students.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if !studentExists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	enrolled, err := s.repo.Exists(ctx, classID, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, duplicateEnrollment(classID, req.StudentID)
	}

	enrollment := &models.Enrollment{ClassID: classID, StudentID: req.StudentID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, duplicateEnrollment(classID, req.StudentID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	if err := evictReports(ctx, s.cache, classID); err != nil {
		return nil, err
	}
	s.logger.Info("student enrolled", zap.String("class_id", classID), zap.String("student_id", req.StudentID))
	return enrollment, nil
}

// Unenroll removes a student, and their evaluations, from a class.
func (s *EnrollmentService) Unenroll(ctx context.Context, classID, studentID string) error {
	if err := s.requireClass(ctx, classID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, classID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll student")
	}
	if err := evictReports(ctx, s.cache, classID); err != nil {
		return err
	}
	s.logger.Info("student unenrolled", zap.String("class_id", classID), zap.String("student_id", studentID))
	return nil
}

func (s *EnrollmentService) requireClass(ctx context.Context, classID string) error {
	return requireClass(ctx, s.classes, classID)
}

func requireClass(ctx context.Context, classes classLookup, classID string) error {
	exists, err := classes.Exists(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class")
	}
	if !exists {
		return classNotFound(classID)
	}
	return nil
}

func duplicateEnrollment(classID, studentID string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrDuplicateEnrollment, "student "+studentID+" is already enrolled in class "+classID)
}
