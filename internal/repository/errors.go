package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrUniqueViolation is returned when an insert collides with an existing key.
var ErrUniqueViolation = errors.New("unique constraint violation")

const pqUniqueViolation = pq.ErrorCode("23505")

// translateWriteError tags unique-key collisions so services can report conflicts.
func translateWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, ErrUniqueViolation, pqErr.Constraint)
	}
	return fmt.Errorf("%s: %w", op, err)
}
