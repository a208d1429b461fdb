package report

import (
	"fmt"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// PassingAverage is the lowest average that still approves a student.
const PassingAverage = 7.0

var gradeValues = map[models.Grade]float64{
	models.GradeMA:   10,
	models.GradeMPA:  7,
	models.GradeMANA: 0,
}

// Grades lists the grade symbols from lowest to highest.
var Grades = []models.Grade{models.GradeMANA, models.GradeMPA, models.GradeMA}

// ValueOf maps a grade symbol to its numeric value.
func ValueOf(grade models.Grade) (float64, error) {
	value, ok := gradeValues[grade]
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrInvalidGrade, fmt.Sprintf("invalid grade %q: must be one of MA, MPA, MANA", string(grade)))
	}
	return value, nil
}

// ParseGrade validates a raw symbol. Matching is exact; "ma" or " MA" are rejected.
func ParseGrade(raw string) (models.Grade, error) {
	grade := models.Grade(raw)
	if _, err := ValueOf(grade); err != nil {
		return "", err
	}
	return grade, nil
}
