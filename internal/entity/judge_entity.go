package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Problem struct {
	Id         uuid.UUID
	Title      string
	Difficulty string
	IsDeleted  bool
	TestCases  []TestCase
}

// RewardKey is the reward_config key for solving a problem of this difficulty.
func (p *Problem) RewardKey() string {
	return "problem_" + strings.ToLower(p.Difficulty)
}

type TestCase struct {
	Id             uuid.UUID
	ProblemId      uuid.UUID
	Input          string
	ExpectedOutput string
	IsSample       bool
}

type SubmissionStatus string

const (
	SubmissionStatusAccepted SubmissionStatus = "accepted"
	SubmissionStatusWrong    SubmissionStatus = "wrong"
	SubmissionStatusError    SubmissionStatus = "error"
	SubmissionStatusTimeout  SubmissionStatus = "timeout"
)

type JudgeSubmission struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	ProblemId       uuid.UUID
	SourceCode      string
	Language        string
	Status          SubmissionStatus
	Score           int
	ExecutionTimeMs int
	MemoryKB        int
	TestCasesPassed int
	TotalTestCases  int
	Results         []map[string]interface{}
	CreatedAt       time.Time
}
