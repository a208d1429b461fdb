package models

// StudentStatus is the outcome of classifying an enrollment.
type StudentStatus string

const (
	StatusPending         StudentStatus = "PENDING"
	StatusApproved        StudentStatus = "APPROVED"
	StatusApprovedFinal   StudentStatus = "APPROVED_FINAL"
	StatusFailed          StudentStatus = "FAILED"
	StatusFailedByAbsence StudentStatus = "FAILED_BY_ABSENCE"
)

// StudentStatuses lists every status a report can contain.
var StudentStatuses = []StudentStatus{
	StatusApproved,
	StatusApprovedFinal,
	StatusFailed,
	StatusFailedByAbsence,
	StatusPending,
}
