package report

import (
	"fmt"
	"time"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// Option customises a Generator.
type Option func(*Generator)

// WithClock overrides the clock stamped into GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithFinalPolicy installs make-up exam and absence rules.
func WithFinalPolicy(policy FinalPolicy) Option {
	return func(g *Generator) {
		g.classifier = NewClassifier(policy)
	}
}

// Generator builds class reports from snapshots.
type Generator struct {
	classifier *Classifier
	now        func() time.Time
}

// NewGenerator constructs a Generator with the default policy and wall clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{classifier: NewClassifier(nil), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate computes the report for snapshot. It never returns a partial report:
// any integrity problem in the snapshot fails the whole call.
func (g *Generator) Generate(snapshot models.ClassSnapshot) (*dto.ClassReport, error) {
	if err := checkIntegrity(snapshot); err != nil {
		return nil, err
	}

	report := &dto.ClassReport{
		ClassID:               snapshot.ClassID,
		Topic:                 snapshot.Topic,
		Semester:              snapshot.Semester,
		Year:                  snapshot.Year,
		TotalEnrolled:         len(snapshot.Enrollments),
		EvaluationPerformance: []dto.EvaluationPerformance{},
		Students:              make([]dto.StudentReport, 0, len(snapshot.Enrollments)),
	}

	var averages []*float64
	for _, enrollment := range snapshot.Enrollments {
		classification, err := g.classifier.Classify(enrollment)
		if err != nil {
			return nil, err
		}
		if err := tally(report, classification.Status); err != nil {
			return nil, err
		}
		row := dto.StudentReport{
			StudentID: enrollment.StudentID,
			Name:      enrollment.Student.Name,
			Status:    classification.Status,
		}
		if classification.Average != nil {
			averages = append(averages, classification.Average)
			row.Average = roundedPtr(*classification.Average)
		}
		report.Students = append(report.Students, row)
	}
	if len(averages) > 0 {
		report.StudentsAverage = roundedPtr(Average(averages))
	}

	performance, err := AggregatePerformance(snapshot.Enrollments)
	if err != nil {
		return nil, err
	}
	report.EvaluationPerformance = performance
	report.GeneratedAt = g.now().UTC()
	return report, nil
}

func tally(report *dto.ClassReport, status models.StudentStatus) error {
	switch status {
	case models.StatusApproved:
		report.ApprovedCount++
	case models.StatusApprovedFinal:
		report.ApprovedFinalCount++
	case models.StatusFailed:
		report.NotApprovedCount++
	case models.StatusFailedByAbsence:
		report.FailedByAbsenceCount++
	case models.StatusPending:
		report.PendingCount++
	default:
		return appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unknown student status %q", status))
	}
	return nil
}

func checkIntegrity(snapshot models.ClassSnapshot) error {
	students := make(map[string]struct{}, len(snapshot.Enrollments))
	for _, enrollment := range snapshot.Enrollments {
		if enrollment.Student == nil || enrollment.Student.ID != enrollment.StudentID {
			return integrityError("enrollment %s references unknown student %q", enrollment.EnrollmentID, enrollment.StudentID)
		}
		if _, dup := students[enrollment.StudentID]; dup {
			return integrityError("student %q enrolled more than once in class %s", enrollment.StudentID, snapshot.ClassID)
		}
		students[enrollment.StudentID] = struct{}{}

		goals := make(map[string]struct{}, len(enrollment.Evaluations))
		for _, evaluation := range enrollment.Evaluations {
			if _, dup := goals[evaluation.Goal]; dup {
				return integrityError("goal %q graded twice for student %q", evaluation.Goal, enrollment.StudentID)
			}
			goals[evaluation.Goal] = struct{}{}
		}
	}
	return nil
}

func integrityError(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrDataIntegrity, fmt.Sprintf(format, args...))
}
