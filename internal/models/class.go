package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Class is a course offering identified by topic, year and semester.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Topic     string    `db:"topic" json:"topic"`
	Year      int       `db:"year" json:"year"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSummary extends Class with its current enrollment count.
type ClassSummary struct {
	Class
	EnrolledCount int `db:"enrolled_count" json:"enrolled_count"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search    string
	Year      int
	Semester  int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ClassID derives the stable class identity from topic, year and semester.
// The same triple always yields the same identifier.
func ClassID(topic string, year, semester int) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "class"
	}
	return fmt.Sprintf("%s-%d-%d", slug, year, semester)
}
