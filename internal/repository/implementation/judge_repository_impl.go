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
)

type problemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JudgeMapper
}

func NewProblemRepository(db *gorm.DB) contract.ProblemRepository {
	return &problemRepositoryImpl{db: db, mapper: mapper.NewJudgeMapper()}
}

func (r *problemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Problem, error) {
	var m model.Problem
	query := applySpecs(r.db.WithContext(ctx).Preload("TestCases"), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProblemToEntity(&m), nil
}

func (r *problemRepositoryImpl) RecordSubmission(ctx context.Context, problemID uuid.UUID, solved bool) error {
	updates := map[string]interface{}{
		"total_submissions": gorm.Expr("total_submissions + 1"),
	}
	if solved {
		updates["solved_count"] = gorm.Expr("solved_count + 1")
	}
	return r.db.WithContext(ctx).Model(&model.Problem{}).Where("id = ?", problemID).Updates(updates).Error
}

type submissionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JudgeMapper
}

func NewSubmissionRepository(db *gorm.DB) contract.SubmissionRepository {
	return &submissionRepositoryImpl{db: db, mapper: mapper.NewJudgeMapper()}
}

func (r *submissionRepositoryImpl) Create(ctx context.Context, submission *entity.JudgeSubmission) error {
	m := r.mapper.SubmissionToModel(submission)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	submission.Id = m.Id
	submission.CreatedAt = m.CreatedAt
	return nil
}

func (r *submissionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JudgeSubmission, error) {
	var models []*model.JudgeSubmission
	if err := applySpecs(r.db.WithContext(ctx), specs).Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.JudgeSubmission, 0, len(models))
	for _, m := range models {
		out = append(out, r.mapper.SubmissionToEntity(m))
	}
	return out, nil
}
