package models

// ClassSnapshot is the full state of a class at the moment a report is requested.
// Consumers treat it as read-only.
type ClassSnapshot struct {
	ClassID     string
	Topic       string
	Year        int
	Semester    int
	Enrollments []SnapshotEnrollment
}

// SnapshotEnrollment pairs an enrollment with its resolved student and evaluations.
// Student is nil when the referenced student no longer exists.
type SnapshotEnrollment struct {
	EnrollmentID string
	StudentID    string
	Student      *Student
	Evaluations  []EvaluationRecord
}
