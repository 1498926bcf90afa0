package mapper

import (
	"encoding/json"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/model"
)

type JudgeMapper struct{}

func NewJudgeMapper() *JudgeMapper {
	return &JudgeMapper{}
}

func (m *JudgeMapper) ProblemToEntity(p *model.Problem) *entity.Problem {
	if p == nil {
		return nil
	}
	cases := make([]entity.TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		cases = append(cases, entity.TestCase{
			Id:             tc.Id,
			ProblemId:      tc.ProblemId,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			IsSample:       tc.IsSample,
		})
	}
	return &entity.Problem{
		Id:         p.Id,
		Title:      p.Title,
		Difficulty: p.Difficulty,
		IsDeleted:  p.IsDeleted,
		TestCases:  cases,
	}
}

func (m *JudgeMapper) SubmissionToModel(s *entity.JudgeSubmission) *model.JudgeSubmission {
	return &model.JudgeSubmission{
		Id:              s.Id,
		UserId:          s.UserId,
		ProblemId:       s.ProblemId,
		SourceCode:      s.SourceCode,
		Language:        s.Language,
		Status:          string(s.Status),
		Score:           s.Score,
		ExecutionTimeMs: s.ExecutionTimeMs,
		MemoryKB:        s.MemoryKB,
		TestCasesPassed: s.TestCasesPassed,
		TotalTestCases:  s.TotalTestCases,
		Results:         toJSON(s.Results),
	}
}

func (m *JudgeMapper) SubmissionToEntity(s *model.JudgeSubmission) *entity.JudgeSubmission {
	var results []map[string]interface{}
	if len(s.Results) > 0 {
		_ = json.Unmarshal(s.Results, &results)
	}
	return &entity.JudgeSubmission{
		Id:              s.Id,
		UserId:          s.UserId,
		ProblemId:       s.ProblemId,
		SourceCode:      s.SourceCode,
		Language:        s.Language,
		Status:          entity.SubmissionStatus(s.Status),
		Score:           s.Score,
		ExecutionTimeMs: s.ExecutionTimeMs,
		MemoryKB:        s.MemoryKB,
		TestCasesPassed: s.TestCasesPassed,
		TotalTestCases:  s.TotalTestCases,
		Results:         results,
		CreatedAt:       s.CreatedAt,
	}
}
