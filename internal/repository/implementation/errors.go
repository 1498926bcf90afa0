package implementation

import (
	"errors"

	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// translate maps constraint violations onto a Conflict carrying message.
func translate(err error, message string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperror.Wrap(apperror.KindConflict, message, err)
	}
	return err
}

func applySpecs(db *gorm.DB, specs []specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
