package service

import (
	"context"
	"fmt"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"

	"github.com/google/uuid"
)

type IRewardService interface {
	RewardProblemSolved(ctx context.Context, userId uuid.UUID, problem *entity.Problem, meta map[string]interface{}) (*dto.RewardGrantResponse, error)
	HasReceivedReward(ctx context.Context, userId uuid.UUID, referenceType string, referenceId uuid.UUID, txType entity.RewardTransactionType) (bool, error)
	GetRewardHistory(ctx context.Context, userId uuid.UUID, query *dto.RewardHistoryQuery) (*dto.RewardHistoryResponse, error)
}

type rewardService struct {
	uowFactory unitofwork.RepositoryFactory
	events     *eventEmitter
	logger     logger.ILogger
	now        func() time.Time
}

func NewRewardService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IRewardService {
	return &rewardService{
		uowFactory: uowFactory,
		events:     newEventEmitter(publisher, log),
		logger:     log,
		now:        time.Now,
	}
}

func rewardReference(referenceType string, referenceId uuid.UUID, txType entity.RewardTransactionType) []specification.Specification {
	return []specification.Specification{
		specification.Filter("reference_type", referenceType),
		specification.Filter("reference_id", referenceId),
		specification.Filter("transaction_type", string(txType)),
	}
}

func (s *rewardService) HasReceivedReward(ctx context.Context, userId uuid.UUID, referenceType string, referenceId uuid.UUID, txType entity.RewardTransactionType) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := append([]specification.Specification{specification.ByUser(userId)}, rewardReference(referenceType, referenceId, txType)...)
	tx, err := uow.RewardRepository().FindTransaction(ctx, specs...)
	if err != nil {
		return false, err
	}
	return tx != nil, nil
}

// RewardProblemSolved grants the configured points once per problem. A missing
// or zero config entry grants nothing.
func (s *rewardService) RewardProblemSolved(ctx context.Context, userId uuid.UUID, problem *entity.Problem, meta map[string]interface{}) (*dto.RewardGrantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	rewards := uow.RewardRepository()

	specs := append([]specification.Specification{specification.ByUser(userId)},
		rewardReference(entity.ReferenceTypeProblem, problem.Id, entity.RewardProblemSolved)...)
	previous, err := rewards.FindTransaction(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		return &dto.RewardGrantResponse{Granted: false}, nil
	}

	cfg, err := rewards.FindConfig(ctx, problem.RewardKey())
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.ConfigValue <= 0 {
		return &dto.RewardGrantResponse{Granted: false}, nil
	}

	metadata := map[string]interface{}{"difficulty": problem.Difficulty}
	for k, v := range meta {
		metadata[k] = v
	}
	problemId := problem.Id
	tx := &entity.RewardTransaction{
		Id:              uuid.New(),
		UserId:          userId,
		Points:          cfg.ConfigValue,
		TransactionType: entity.RewardProblemSolved,
		ReferenceType:   entity.ReferenceTypeProblem,
		ReferenceId:     &problemId,
		Metadata:        metadata,
		Description:     fmt.Sprintf("Solved %s problem", problem.Difficulty),
		CreatedAt:       s.now(),
	}
	if err := rewards.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	balance, err := rewards.AddPoints(ctx, userId, tx.Points, true)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("REWARD", "Problem reward granted", map[string]interface{}{
		"user_id":    userId,
		"problem_id": problem.Id,
		"points":     tx.Points,
	})
	s.events.emit(ctx, events.RewardGranted, map[string]interface{}{
		"user_id":     userId.String(),
		"points":      tx.Points,
		"new_balance": balance,
		"reason":      string(tx.TransactionType),
	})

	return &dto.RewardGrantResponse{Points: tx.Points, NewBalance: balance, Granted: true}, nil
}

func (s *rewardService) GetRewardHistory(ctx context.Context, userId uuid.UUID, query *dto.RewardHistoryQuery) (*dto.RewardHistoryResponse, error) {
	q := dto.RewardHistoryQuery{}
	if query != nil {
		q = *query
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rewards := uow.RewardRepository()

	filters := []specification.Specification{specification.ByUser(userId)}
	if q.Type != "" {
		filters = append(filters, specification.Filter("transaction_type", q.Type))
	}

	total, err := rewards.CountTransactions(ctx, filters...)
	if err != nil {
		return nil, err
	}
	txs, err := rewards.FindTransactions(ctx, append(filters, specification.NewestFirst(), specification.Page(q.Page, q.Limit))...)
	if err != nil {
		return nil, err
	}
	stats, err := rewards.FindStats(ctx, userId)
	if err != nil {
		return nil, err
	}
	byType, err := rewards.StatsByType(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := &dto.RewardHistoryResponse{
		Transactions: make([]dto.RewardTransactionResponse, 0, len(txs)),
		Stats:        make(map[string]dto.RewardTypeStatResponse, len(byType)),
		Total:        total,
		Page:         q.Page,
		Limit:        q.Limit,
	}
	if stats != nil {
		res.Balance = stats.RewardPoints
	}
	for _, t := range txs {
		res.Transactions = append(res.Transactions, dto.RewardTransactionResponse{
			Id:              t.Id,
			Points:          t.Points,
			TransactionType: string(t.TransactionType),
			ReferenceType:   t.ReferenceType,
			ReferenceId:     t.ReferenceId,
			Description:     t.Description,
			Metadata:        t.Metadata,
			CreatedAt:       t.CreatedAt,
		})
	}
	for _, st := range byType {
		res.Stats[string(st.TransactionType)] = dto.RewardTypeStatResponse{Count: st.Count, TotalPoints: st.TotalPoints}
	}
	return res, nil
}
