package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitSolutionRequest struct {
	Language   string `json:"language" validate:"required,oneof=python javascript java cpp c"`
	SourceCode string `json:"source_code" validate:"required,max=65536"`
}

type TestCaseResultResponse struct {
	Input           string  `json:"input"`
	ExpectedOutput  string  `json:"expected_output"`
	ActualOutput    string  `json:"actual_output"`
	Passed          bool    `json:"passed"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	Error           string  `json:"error,omitempty"`
}

type SubmissionResponse struct {
	Id              uuid.UUID                `json:"id"`
	ProblemId       uuid.UUID                `json:"problem_id"`
	Language        string                   `json:"language"`
	Status          string                   `json:"status"`
	Score           int                      `json:"score"`
	ExecutionTimeMs int                      `json:"execution_time_ms"`
	MemoryKB        int                      `json:"memory_kb"`
	TestCasesPassed int                      `json:"test_cases_passed"`
	TotalTestCases  int                      `json:"total_test_cases"`
	Results         []TestCaseResultResponse `json:"test_case_results,omitempty"`
	Reward          *RewardGrantResponse     `json:"reward,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

type RewardGrantResponse struct {
	Points     int  `json:"points"`
	NewBalance int  `json:"new_balance"`
	Granted    bool `json:"granted"`
}

type RewardHistoryQuery struct {
	Type  string `query:"type" validate:"omitempty,oneof=problem_solved sudoku_completed achievement_earned daily_login course_completed manual_adjustment purchase bonus"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type RewardTransactionResponse struct {
	Id              uuid.UUID              `json:"id"`
	Points          int                    `json:"points"`
	TransactionType string                 `json:"transaction_type"`
	ReferenceType   string                 `json:"reference_type,omitempty"`
	ReferenceId     *uuid.UUID             `json:"reference_id,omitempty"`
	Description     string                 `json:"description,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

type RewardTypeStatResponse struct {
	Count       int64 `json:"count"`
	TotalPoints int64 `json:"total_points"`
}

type RewardHistoryResponse struct {
	Transactions []RewardTransactionResponse       `json:"transactions"`
	Balance      int                               `json:"balance"`
	Stats        map[string]RewardTypeStatResponse `json:"stats"`
	Total        int64                             `json:"total"`
	Page         int                               `json:"page"`
	Limit        int                               `json:"limit"`
}
