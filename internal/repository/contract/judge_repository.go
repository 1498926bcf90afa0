package contract

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProblemRepository interface {
	// FindOne loads the problem with its test cases.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Problem, error)
	RecordSubmission(ctx context.Context, problemID uuid.UUID, solved bool) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.JudgeSubmission) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JudgeSubmission, error)
}
