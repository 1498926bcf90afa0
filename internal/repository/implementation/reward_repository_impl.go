package implementation

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/mapper"
	"learnhub-be/internal/model"
	"learnhub-be/internal/repository/contract"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type rewardRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RewardMapper
}

func NewRewardRepository(db *gorm.DB) contract.RewardRepository {
	return &rewardRepositoryImpl{db: db, mapper: mapper.NewRewardMapper()}
}

func (r *rewardRepositoryImpl) CreateTransaction(ctx context.Context, tx *entity.RewardTransaction) error {
	m := r.mapper.TransactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.Id = m.Id
	tx.CreatedAt = m.CreatedAt
	return nil
}

func (r *rewardRepositoryImpl) FindTransaction(ctx context.Context, specs ...specification.Specification) (*entity.RewardTransaction, error) {
	var m model.RewardTransaction
	if err := applySpecs(r.db.WithContext(ctx), specs).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TransactionToEntity(&m), nil
}

func (r *rewardRepositoryImpl) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.RewardTransaction, error) {
	var models []*model.RewardTransaction
	if err := applySpecs(r.db.WithContext(ctx), specs).Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.RewardTransaction, 0, len(models))
	for _, m := range models {
		out = append(out, r.mapper.TransactionToEntity(m))
	}
	return out, nil
}

func (r *rewardRepositoryImpl) CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := applySpecs(r.db.WithContext(ctx).Model(&model.RewardTransaction{}), specs).Count(&count).Error
	return count, err
}

func (r *rewardRepositoryImpl) StatsByType(ctx context.Context, userID uuid.UUID) ([]contract.RewardTypeStat, error) {
	var rows []struct {
		TransactionType string
		Count           int64
		TotalPoints     int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.RewardTransaction{}).
		Select("transaction_type, COUNT(*) AS count, COALESCE(SUM(points), 0) AS total_points").
		Where("user_id = ?", userID).
		Group("transaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]contract.RewardTypeStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, contract.RewardTypeStat{
			TransactionType: entity.RewardTransactionType(row.TransactionType),
			Count:           row.Count,
			TotalPoints:     row.TotalPoints,
		})
	}
	return stats, nil
}

func (r *rewardRepositoryImpl) FindConfig(ctx context.Context, key string) (*entity.RewardConfig, error) {
	var m model.RewardConfig
	err := r.db.WithContext(ctx).Where("config_key = ? AND is_active = ?", key, true).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConfigToEntity(&m), nil
}

func (r *rewardRepositoryImpl) FindStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	var m model.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StatsToEntity(&m), nil
}

func (r *rewardRepositoryImpl) AddPoints(ctx context.Context, userID uuid.UUID, delta int, solvedProblem bool) (int, error) {
	solved := 0
	if solvedProblem {
		solved = 1
	}
	initial := delta
	if initial < 0 {
		initial = 0
	}

	row := &model.UserStats{UserId: userID, RewardPoints: initial, ProblemsSolved: solved}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reward_points":   gorm.Expr("GREATEST(user_stats.reward_points + ?, 0)", delta),
			"problems_solved": gorm.Expr("user_stats.problems_solved + ?", solved),
			"updated_at":      gorm.Expr("NOW()"),
		}),
	}).Create(row).Error
	if err != nil {
		return 0, err
	}

	var balance int
	err = r.db.WithContext(ctx).Model(&model.UserStats{}).
		Where("user_id = ?", userID).
		Select("reward_points").
		Scan(&balance).Error
	return balance, err
}
