package report

import (
	"github.com/noah-isme/gradebook-api/internal/models"
)

// FinalPolicy decides the make-up exam and absence outcomes of an enrollment.
// ApprovedFinal is consulted only for students below PassingAverage.
// FailedByAbsence takes precedence over any grade-based outcome.
type FinalPolicy interface {
	ApprovedFinal(enrollment models.SnapshotEnrollment, average float64) bool
	FailedByAbsence(enrollment models.SnapshotEnrollment, average float64) bool
}

// NoFinalPolicy is used until make-up exam and absence rules exist.
// It never yields APPROVED_FINAL or FAILED_BY_ABSENCE.
type NoFinalPolicy struct{}

func (NoFinalPolicy) ApprovedFinal(models.SnapshotEnrollment, float64) bool   { return false }
func (NoFinalPolicy) FailedByAbsence(models.SnapshotEnrollment, float64) bool { return false }

// Classification is the status of one enrollment and its unrounded average.
// Average is nil for pending enrollments.
type Classification struct {
	Status  models.StudentStatus
	Average *float64
}

// Classifier derives a student status from recorded evaluations.
type Classifier struct {
	policy FinalPolicy
}

// NewClassifier builds a classifier. A nil policy means NoFinalPolicy.
func NewClassifier(policy FinalPolicy) *Classifier {
	if policy == nil {
		policy = NoFinalPolicy{}
	}
	return &Classifier{policy: policy}
}

// Classify evaluates one enrollment from scratch.
func (c *Classifier) Classify(enrollment models.SnapshotEnrollment) (Classification, error) {
	if len(enrollment.Evaluations) == 0 {
		return Classification{Status: models.StatusPending}, nil
	}
	values := make([]*float64, 0, len(enrollment.Evaluations))
	for _, evaluation := range enrollment.Evaluations {
		value, err := ValueOf(evaluation.Grade)
		if err != nil {
			return Classification{}, err
		}
		values = append(values, &value)
	}
	average := Average(values)
	result := Classification{Average: &average}
	switch {
	case c.policy.FailedByAbsence(enrollment, average):
		result.Status = models.StatusFailedByAbsence
	case average >= PassingAverage:
		result.Status = models.StatusApproved
	case c.policy.ApprovedFinal(enrollment, average):
		result.Status = models.StatusApprovedFinal
	default:
		result.Status = models.StatusFailed
	}
	return result, nil
}
