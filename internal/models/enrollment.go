package models

import "time"

// Enrollment captures one student's participation in one class.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentDetail enriches Enrollment with student info and recorded evaluations.
type EnrollmentDetail struct {
	Enrollment
	StudentName *string      `db:"student_name" json:"student_name,omitempty"`
	Evaluations []Evaluation `db:"-" json:"evaluations"`
}
