package dto

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// ClassReport is the computed performance summary of one class.
// StudentsAverage is null until at least one student has been evaluated.
type ClassReport struct {
	ClassID               string                  `json:"classId"`
	Topic                 string                  `json:"topic"`
	Semester              int                     `json:"semester"`
	Year                  int                     `json:"year"`
	TotalEnrolled         int                     `json:"totalEnrolled"`
	StudentsAverage       *float64                `json:"studentsAverage"`
	ApprovedCount         int                     `json:"approvedCount"`
	ApprovedFinalCount    int                     `json:"approvedFinalCount"`
	NotApprovedCount      int                     `json:"notApprovedCount"`
	FailedByAbsenceCount  int                     `json:"failedByAbsenceCount"`
	PendingCount          int                     `json:"pendingCount"`
	EvaluationPerformance []EvaluationPerformance `json:"evaluationPerformance"`
	Students              []StudentReport         `json:"students"`
	GeneratedAt           time.Time               `json:"generatedAt"`
}

// EvaluationPerformance summarises every grade recorded for one goal.
type EvaluationPerformance struct {
	Goal           string            `json:"goal"`
	EvaluatedCount int               `json:"evaluatedCount"`
	Distribution   GradeDistribution `json:"distribution"`
	Average        float64           `json:"average"`
}

// GradeDistribution counts grades per symbol.
type GradeDistribution struct {
	MANA int `json:"MANA"`
	MPA  int `json:"MPA"`
	MA   int `json:"MA"`
}

// StudentReport is one student's line in a class report.
type StudentReport struct {
	StudentID string               `json:"studentId"`
	Name      string               `json:"name"`
	Average   *float64             `json:"average"`
	Status    models.StudentStatus `json:"status"`
}

// ReportExportFormat enumerates rendered report formats.
type ReportExportFormat string

const (
	ReportFormatCSV ReportExportFormat = "csv"
	ReportFormatPDF ReportExportFormat = "pdf"
)
