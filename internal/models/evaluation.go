package models

import "time"

// Grade is a mastery symbol recorded against a goal.
type Grade string

const (
	// GradeMA means the goal was mastered.
	GradeMA Grade = "MA"
	// GradeMPA means the goal was partially mastered.
	GradeMPA Grade = "MPA"
	// GradeMANA means the goal was not mastered.
	GradeMANA Grade = "MANA"
)

// EvaluationRecord is the grade given for one goal.
type EvaluationRecord struct {
	Goal  string `db:"goal" json:"goal"`
	Grade Grade  `db:"grade" json:"grade"`
}

// Evaluation is a persisted EvaluationRecord bound to an enrollment.
type Evaluation struct {
	EnrollmentID string `db:"enrollment_id" json:"enrollment_id"`
	EvaluationRecord
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
