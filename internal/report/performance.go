package report

import (
	"sort"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
)

type goalAccumulator struct {
	values       []*float64
	distribution dto.GradeDistribution
}

func (a *goalAccumulator) add(grade models.Grade, value float64) {
	a.values = append(a.values, &value)
	switch grade {
	case models.GradeMANA:
		a.distribution.MANA++
	case models.GradeMPA:
		a.distribution.MPA++
	case models.GradeMA:
		a.distribution.MA++
	}
}

// AggregatePerformance groups every evaluation in the snapshot by goal.
// The result is sorted by goal name and omits goals nobody was graded on.
func AggregatePerformance(enrollments []models.SnapshotEnrollment) ([]dto.EvaluationPerformance, error) {
	byGoal := make(map[string]*goalAccumulator)
	for _, enrollment := range enrollments {
		for _, evaluation := range enrollment.Evaluations {
			value, err := ValueOf(evaluation.Grade)
			if err != nil {
				return nil, err
			}
			acc, ok := byGoal[evaluation.Goal]
			if !ok {
				acc = &goalAccumulator{}
				byGoal[evaluation.Goal] = acc
			}
			acc.add(evaluation.Grade, value)
		}
	}

	result := make([]dto.EvaluationPerformance, 0, len(byGoal))
	for goal, acc := range byGoal {
		result = append(result, dto.EvaluationPerformance{
			Goal:           goal,
			EvaluatedCount: len(acc.values),
			Distribution:   acc.distribution,
			Average:        Round2(Average(acc.values)),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Goal < result[j].Goal })
	return result, nil
}
