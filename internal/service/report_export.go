package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/pkg/export"
)

func studentDataset(result *dto.ClassReport) export.Dataset {
	data := export.Dataset{
		Headers: []string{"student_id", "name", "average", "status"},
		Rows:    make([]map[string]string, 0, len(result.Students)),
	}
	for _, student := range result.Students {
		data.Rows = append(data.Rows, map[string]string{
			"student_id": student.StudentID,
			"name":       student.Name,
			"average":    formatAverage(student.Average),
			"status":     string(student.Status),
		})
	}
	return data
}

func performanceDataset(result *dto.ClassReport) export.Dataset {
	data := export.Dataset{
		Headers: []string{"goal", "evaluated", "MANA", "MPA", "MA", "average"},
		Rows:    make([]map[string]string, 0, len(result.EvaluationPerformance)),
	}
	for _, goal := range result.EvaluationPerformance {
		data.Rows = append(data.Rows, map[string]string{
			"goal":      goal.Goal,
			"evaluated": strconv.Itoa(goal.EvaluatedCount),
			"MANA":      strconv.Itoa(goal.Distribution.MANA),
			"MPA":       strconv.Itoa(goal.Distribution.MPA),
			"MA":        strconv.Itoa(goal.Distribution.MA),
			"average":   fmt.Sprintf("%.2f", goal.Average),
		})
	}
	return data
}

func reportDocument(title string, result *dto.ClassReport) export.Document {
	average := formatAverage(result.StudentsAverage)
	if average == "" {
		average = "-"
	}
	return export.Document{
		Title: title,
		Summary: []export.Field{
			{Label: "Class", Value: result.ClassID},
			{Label: "Topic", Value: result.Topic},
			{Label: "Term", Value: fmt.Sprintf("%d / semester %d", result.Year, result.Semester)},
			{Label: "Enrolled", Value: strconv.Itoa(result.TotalEnrolled)},
			{Label: "Class average", Value: average},
			{Label: "Approved", Value: strconv.Itoa(result.ApprovedCount)},
			{Label: "Approved after final", Value: strconv.Itoa(result.ApprovedFinalCount)},
			{Label: "Not approved", Value: strconv.Itoa(result.NotApprovedCount)},
			{Label: "Failed by absence", Value: strconv.Itoa(result.FailedByAbsenceCount)},
			{Label: "Pending", Value: strconv.Itoa(result.PendingCount)},
			{Label: "Generated at", Value: result.GeneratedAt.UTC().Format(time.RFC3339)},
		},
		Tables: []export.Table{
			{Caption: "Students", Data: studentDataset(result)},
			{Caption: "Goals", Data: performanceDataset(result)},
		},
	}
}

func formatAverage(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
