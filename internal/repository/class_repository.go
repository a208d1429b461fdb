package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filter criteria along with their enrollment counts.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassSummary, int, error) {
	base := "FROM classes c WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("c.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("c.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.topic) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"topic":      "c.topic",
		"year":       "c.year",
		"semester":   "c.semester",
		"created_at": "c.created_at",
	}
	orderBy, ok := allowedSorts[filter.SortBy]
	if !ok {
		orderBy = "c.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT c.id, c.topic, c.year, c.semester, c.created_at, c.updated_at,
        (SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.id) AS enrolled_count
        %s ORDER BY %s %s, c.id ASC LIMIT %d OFFSET %d`, base, orderBy, order, size, offset)
	var classes []models.ClassSummary
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, topic, year, semester, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Exists reports whether a class with the ID exists.
func (r *ClassRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM classes WHERE id = $1 LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class: %w", err)
	}
	return true, nil
}

// Create persists a class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, topic, year, semester, created_at, updated_at) VALUES (:id, :topic, :year, :semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return translateWriteError("create class", err)
	}
	return nil
}

// Delete removes a class and, through cascading keys, its enrollments and evaluations.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

type snapshotEnrollmentRow struct {
	ID                string  `db:"id"`
	StudentID         string  `db:"student_id"`
	ResolvedStudentID *string `db:"resolved_student_id"`
	StudentName       *string `db:"student_name"`
	StudentEmail      *string `db:"student_email"`
}

// LoadSnapshot reads a class with every enrollment and evaluation inside one
// repeatable-read transaction. It returns sql.ErrNoRows when the class is unknown.
// Enrollments whose student row is gone keep a nil Student.
func (r *ClassRepository) LoadSnapshot(ctx context.Context, classID string) (*models.ClassSnapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var class models.Class
	if err := tx.GetContext(ctx, &class, `SELECT id, topic, year, semester, created_at, updated_at FROM classes WHERE id = $1`, classID); err != nil {
		return nil, err
	}

	const enrollmentQuery = `SELECT e.id, e.student_id, s.id AS resolved_student_id, s.name AS student_name, s.email AS student_email
        FROM enrollments e
        LEFT JOIN students s ON s.id = e.student_id
        WHERE e.class_id = $1
        ORDER BY e.created_at ASC, e.id ASC`
	var rows []snapshotEnrollmentRow
	if err := tx.SelectContext(ctx, &rows, enrollmentQuery, classID); err != nil {
		return nil, fmt.Errorf("load snapshot enrollments: %w", err)
	}

	const evaluationQuery = `SELECT ev.enrollment_id, ev.goal, ev.grade, ev.updated_at
        FROM evaluations ev
        JOIN enrollments e ON e.id = ev.enrollment_id
        WHERE e.class_id = $1
        ORDER BY ev.enrollment_id ASC, ev.goal ASC`
	var evaluations []models.Evaluation
	if err := tx.SelectContext(ctx, &evaluations, evaluationQuery, classID); err != nil {
		return nil, fmt.Errorf("load snapshot evaluations: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}

	byEnrollment := make(map[string][]models.EvaluationRecord, len(rows))
	for _, evaluation := range evaluations {
		byEnrollment[evaluation.EnrollmentID] = append(byEnrollment[evaluation.EnrollmentID], evaluation.EvaluationRecord)
	}

	snapshot := &models.ClassSnapshot{
		ClassID:     class.ID,
		Topic:       class.Topic,
		Year:        class.Year,
		Semester:    class.Semester,
		Enrollments: make([]models.SnapshotEnrollment, 0, len(rows)),
	}
	for _, row := range rows {
		enrollment := models.SnapshotEnrollment{
			EnrollmentID: row.ID,
			StudentID:    row.StudentID,
			Evaluations:  byEnrollment[row.ID],
		}
		if row.ResolvedStudentID != nil {
			student := &models.Student{ID: *row.ResolvedStudentID, Email: row.StudentEmail}
			if row.StudentName != nil {
				student.Name = *row.StudentName
			}
			enrollment.Student = student
		}
		snapshot.Enrollments = append(snapshot.Enrollments, enrollment)
	}
	return snapshot, nil
}
