package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context, classID string) ([]models.EnrollmentDetail, error)
	Enroll(ctx context.Context, classID string, req service.EnrollStudentRequest) (*models.Enrollment, error)
	Unenroll(ctx context.Context, classID, studentID string) error
}

type evaluationService interface {
	List(ctx context.Context, classID, studentID string) ([]models.Evaluation, error)
	Set(ctx context.Context, classID, studentID, goal string, req service.SetEvaluationRequest) (*models.Evaluation, error)
	Clear(ctx context.Context, classID, studentID, goal string) error
}

// EnrollmentHandler exposes class membership and grading endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
	evaluations evaluationService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(enrollments enrollmentService, evaluations evaluationService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, evaluations: evaluations}
}

// List godoc
// @Summary List class enrollments
// @Tags Enrollments
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.enrollments.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Enroll godoc
// @Summary Enroll student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.EnrollStudentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes/{classId}/enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll godoc
// @Summary Remove student from class
// @Tags Enrollments
// @Param classId path string true "Class ID"
// @Param studentId path string true "Student ID"
// @Success 204
// @Router /classes/{classId}/enrollments/{studentId} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	if err := h.enrollments.Unenroll(c.Request.Context(), c.Param("classId"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEvaluations godoc
// @Summary List a student's evaluations in a class
// @Tags Evaluations
// @Produce json
// @Param classId path string true "Class ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/enrollments/{studentId}/evaluations [get]
func (h *EnrollmentHandler) ListEvaluations(c *gin.Context) {
	evaluations, err := h.evaluations.List(c.Request.Context(), c.Param("classId"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluations, nil)
}

// SetEvaluation godoc
// @Summary Record a goal grade
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param studentId path string true "Student ID"
// @Param goal path string true "Goal"
// @Param payload body service.SetEvaluationRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{classId}/enrollments/{studentId}/evaluations/{goal} [put]
func (h *EnrollmentHandler) SetEvaluation(c *gin.Context) {
	var req service.SetEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	evaluation, err := h.evaluations.Set(c.Request.Context(), c.Param("classId"), c.Param("studentId"), c.Param("goal"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation, nil)
}

// ClearEvaluation godoc
// @Summary Clear a goal grade
// @Tags Evaluations
// @Param classId path string true "Class ID"
// @Param studentId path string true "Student ID"
// @Param goal path string true "Goal"
// @Success 204
// @Router /classes/{classId}/enrollments/{studentId}/evaluations/{goal} [delete]
func (h *EnrollmentHandler) ClearEvaluation(c *gin.Context) {
	if err := h.evaluations.Clear(c.Request.Context(), c.Param("classId"), c.Param("studentId"), c.Param("goal")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
