package contract

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RewardTypeStat struct {
	TransactionType entity.RewardTransactionType
	Count           int64
	TotalPoints     int64
}

type RewardRepository interface {
	CreateTransaction(ctx context.Context, tx *entity.RewardTransaction) error
	FindTransaction(ctx context.Context, specs ...specification.Specification) (*entity.RewardTransaction, error)
	FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.RewardTransaction, error)
	CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error)
	StatsByType(ctx context.Context, userID uuid.UUID) ([]RewardTypeStat, error)

	FindConfig(ctx context.Context, key string) (*entity.RewardConfig, error)

	FindStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
	// AddPoints upserts the user's stats row and returns the new balance, floored at zero.
	AddPoints(ctx context.Context, userID uuid.UUID, delta int, solvedProblem bool) (int, error)
}
