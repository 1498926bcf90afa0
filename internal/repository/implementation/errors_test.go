package implementation

import (
	"errors"
	"fmt"
	"testing"

	"learnhub-be/internal/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_enrollment_user_course"}

	err := translate(fmt.Errorf("insert: %w", pgErr), "Already enrolled in this course")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translate(plain, "ignored"))
	assert.NoError(t, translate(nil, "ignored"))
}
