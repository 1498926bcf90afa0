package mapper

import (
	"learnhub-be/internal/entity"
	"learnhub-be/internal/model"
)

type RewardMapper struct{}

func NewRewardMapper() *RewardMapper {
	return &RewardMapper{}
}

func (m *RewardMapper) TransactionToModel(t *entity.RewardTransaction) *model.RewardTransaction {
	return &model.RewardTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		Points:          t.Points,
		TransactionType: string(t.TransactionType),
		ReferenceType:   t.ReferenceType,
		ReferenceId:     t.ReferenceId,
		Metadata:        toJSON(t.Metadata),
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *RewardMapper) TransactionToEntity(t *model.RewardTransaction) *entity.RewardTransaction {
	if t == nil {
		return nil
	}
	return &entity.RewardTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		Points:          t.Points,
		TransactionType: entity.RewardTransactionType(t.TransactionType),
		ReferenceType:   t.ReferenceType,
		ReferenceId:     t.ReferenceId,
		Metadata:        jsonToMap(t.Metadata),
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *RewardMapper) ConfigToEntity(c *model.RewardConfig) *entity.RewardConfig {
	if c == nil {
		return nil
	}
	return &entity.RewardConfig{
		Id:          c.Id,
		ConfigKey:   c.ConfigKey,
		ConfigValue: c.ConfigValue,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}

func (m *RewardMapper) StatsToEntity(s *model.UserStats) *entity.UserStats {
	if s == nil {
		return nil
	}
	return &entity.UserStats{
		Id:             s.Id,
		UserId:         s.UserId,
		ProblemsSolved: s.ProblemsSolved,
		RewardPoints:   s.RewardPoints,
	}
}
