package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// EvaluationRepository persists per-goal grades.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// ListByEnrollment returns the evaluations of one enrollment ordered by goal.
func (r *EvaluationRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Evaluation, error) {
	const query = `SELECT enrollment_id, goal, grade, updated_at FROM evaluations WHERE enrollment_id = $1 ORDER BY goal ASC`
	var evaluations []models.Evaluation
	if err := r.db.SelectContext(ctx, &evaluations, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evaluations, nil
}

// ListByClass returns evaluations keyed by enrollment ID.
func (r *EvaluationRepository) ListByClass(ctx context.Context, classID string) (map[string][]models.Evaluation, error) {
	const query = `SELECT ev.enrollment_id, ev.goal, ev.grade, ev.updated_at
        FROM evaluations ev
        JOIN enrollments e ON e.id = ev.enrollment_id
        WHERE e.class_id = $1
        ORDER BY ev.enrollment_id ASC, ev.goal ASC`
	rows, err := r.db.QueryxContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("list class evaluations: %w", err)
	}
	defer rows.Close()
	result := make(map[string][]models.Evaluation)
	for rows.Next() {
		var evaluation models.Evaluation
		if err := rows.StructScan(&evaluation); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		result[evaluation.EnrollmentID] = append(result[evaluation.EnrollmentID], evaluation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return result, nil
}

// Upsert records a grade for a goal, replacing any previous grade for the same goal.
func (r *EvaluationRepository) Upsert(ctx context.Context, evaluation *models.Evaluation) error {
	evaluation.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO evaluations (enrollment_id, goal, grade, updated_at)
        VALUES (:enrollment_id, :goal, :grade, :updated_at)
        ON CONFLICT (enrollment_id, goal)
        DO UPDATE SET grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	return nil
}

// Delete clears the grade of one goal. It returns sql.ErrNoRows when the goal was never graded.
func (r *EvaluationRepository) Delete(ctx context.Context, enrollmentID, goal string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM evaluations WHERE enrollment_id = $1 AND goal = $2`, enrollmentID, goal)
	if err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
