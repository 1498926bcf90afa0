package service

import (
	"context"
	"errors"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/judge"

	"github.com/google/uuid"
)

type ISubmissionService interface {
	SubmitSolution(ctx context.Context, userId, problemId uuid.UUID, req *dto.SubmitSolutionRequest) (*dto.SubmissionResponse, error)
	GetMySubmissions(ctx context.Context, userId, problemId uuid.UUID) ([]*dto.SubmissionResponse, error)
}

type submissionService struct {
	uowFactory unitofwork.RepositoryFactory
	judge      judge.IJudge
	rewards    IRewardService
	logger     logger.ILogger
	now        func() time.Time
}

func NewSubmissionService(uowFactory unitofwork.RepositoryFactory, judgeClient judge.IJudge, rewards IRewardService, log logger.ILogger) ISubmissionService {
	return &submissionService{
		uowFactory: uowFactory,
		judge:      judgeClient,
		rewards:    rewards,
		logger:     log,
		now:        time.Now,
	}
}

func (s *submissionService) SubmitSolution(ctx context.Context, userId, problemId uuid.UUID, req *dto.SubmitSolutionRequest) (*dto.SubmissionResponse, error) {
	if _, ok := judge.LanguageID(req.Language); !ok {
		return nil, apperror.Validation("Unsupported language: " + req.Language)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	problem, err := uow.ProblemRepository().FindOne(ctx, specification.ByID{ID: problemId})
	if err != nil {
		return nil, err
	}
	if problem == nil || problem.IsDeleted {
		return nil, apperror.NotFound("Problem not found")
	}
	if len(problem.TestCases) == 0 {
		return nil, apperror.Validation("Problem has no test cases")
	}

	cases := make([]judge.TestCase, 0, len(problem.TestCases))
	for _, tc := range problem.TestCases {
		cases = append(cases, judge.TestCase{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput})
	}

	verdict, err := s.judge.Submit(ctx, req.SourceCode, req.Language, cases)
	if err != nil {
		return nil, apperror.Upstream("Code judge is unavailable", err)
	}

	submission := &entity.JudgeSubmission{
		Id:              uuid.New(),
		UserId:          userId,
		ProblemId:       problem.Id,
		SourceCode:      req.SourceCode,
		Language:        req.Language,
		Status:          submissionStatus(ctx, verdict),
		Score:           verdict.Score,
		ExecutionTimeMs: verdict.ExecutionTimeMs,
		MemoryKB:        verdict.MemoryKB,
		TestCasesPassed: verdict.TestCasesPassed,
		TotalTestCases:  verdict.TotalTestCases,
		Results:         caseResultsToMaps(verdict.Results),
		CreatedAt:       s.now(),
	}
	accepted := submission.Status == entity.SubmissionStatusAccepted

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SubmissionRepository().Create(ctx, submission); err != nil {
		return nil, err
	}
	if err := uow.ProblemRepository().RecordSubmission(ctx, problem.Id, accepted); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := toSubmissionResponse(submission)
	if accepted {
		grant, err := s.rewards.RewardProblemSolved(ctx, userId, problem, map[string]interface{}{
			"submission_id": submission.Id.String(),
			"language":      req.Language,
		})
		if err != nil {
			// The verdict is already stored, a reward failure must not hide it.
			s.logger.Error("SUBMISSION", "Failed to grant problem reward", map[string]interface{}{
				"user_id":    userId,
				"problem_id": problem.Id,
				"error":      err.Error(),
			})
		} else {
			res.Reward = grant
		}
	}
	return res, nil
}

func (s *submissionService) GetMySubmissions(ctx context.Context, userId, problemId uuid.UUID) ([]*dto.SubmissionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubmissionRepository().FindAll(ctx,
		specification.ByUser(userId),
		specification.Filter("problem_id", problemId),
		specification.NewestFirst(),
	)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, toSubmissionResponse(sub))
	}
	return res, nil
}

func submissionStatus(ctx context.Context, v *judge.Verdict) entity.SubmissionStatus {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return entity.SubmissionStatusTimeout
	}
	switch v.Status {
	case judge.StatusAccepted:
		return entity.SubmissionStatusAccepted
	case judge.StatusWrong:
		return entity.SubmissionStatusWrong
	default:
		return entity.SubmissionStatusError
	}
}

func caseResultsToMaps(results []judge.CaseResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		m := map[string]interface{}{
			"input":          r.Input,
			"expectedOutput": r.ExpectedOutput,
			"actualOutput":   r.ActualOutput,
			"passed":         r.Passed,
			"executionTime":  r.ExecutionTimeMs,
		}
		if r.Error != "" {
			m["error"] = r.Error
		}
		out = append(out, m)
	}
	return out
}

func toSubmissionResponse(sub *entity.JudgeSubmission) *dto.SubmissionResponse {
	res := &dto.SubmissionResponse{
		Id:              sub.Id,
		ProblemId:       sub.ProblemId,
		Language:        sub.Language,
		Status:          string(sub.Status),
		Score:           sub.Score,
		ExecutionTimeMs: sub.ExecutionTimeMs,
		MemoryKB:        sub.MemoryKB,
		TestCasesPassed: sub.TestCasesPassed,
		TotalTestCases:  sub.TotalTestCases,
		CreatedAt:       sub.CreatedAt,
	}
	for _, m := range sub.Results {
		r := dto.TestCaseResultResponse{}
		r.Input, _ = m["input"].(string)
		r.ExpectedOutput, _ = m["expectedOutput"].(string)
		r.ActualOutput, _ = m["actualOutput"].(string)
		r.Passed, _ = m["passed"].(bool)
		r.Error, _ = m["error"].(string)
		switch t := m["executionTime"].(type) {
		case float64:
			r.ExecutionTimeMs = t
		case int:
			r.ExecutionTimeMs = float64(t)
		}
		res.Results = append(res.Results, r)
	}
	return res
}
