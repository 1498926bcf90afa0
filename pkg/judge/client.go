// Package judge runs source code against test cases on a Judge0 instance.
package judge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var languageIDs = map[string]int{
	"python":     71,
	"javascript": 63,
	"java":       62,
	"cpp":        54,
	"c":          50,
}

const statusAccepted = 3

type Config struct {
	BaseURL string
	Host    string
	APIKey  string
	Timeout time.Duration
}

type TestCase struct {
	Input          string
	ExpectedOutput string
}

type ExecutionResult struct {
	Success         bool
	Stdout          string
	Stderr          string
	Error           string
	ExecutionTimeMs float64
	MemoryKB        int
}

type CaseResult struct {
	Input           string  `json:"input"`
	ExpectedOutput  string  `json:"expectedOutput"`
	ActualOutput    string  `json:"actualOutput"`
	Passed          bool    `json:"passed"`
	ExecutionTimeMs float64 `json:"executionTime"`
	Error           string  `json:"error,omitempty"`
}

type Verdict struct {
	Status          string       `json:"status"`
	Score           int          `json:"score"`
	ExecutionTimeMs int          `json:"executionTime"`
	MemoryKB        int          `json:"memoryUsed"`
	TestCasesPassed int          `json:"testCasesPassed"`
	TotalTestCases  int          `json:"totalTestCases"`
	Results         []CaseResult `json:"testCaseResults"`
}

type IJudge interface {
	Execute(ctx context.Context, sourceCode, language, stdin, expectedOutput string) (*ExecutionResult, error)
	Submit(ctx context.Context, sourceCode, language string, cases []TestCase) (*Verdict, error)
}

type client struct {
	http *resty.Client
}

func NewClient(cfg Config) IJudge {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-RapidAPI-Host", cfg.Host).
		SetHeader("X-RapidAPI-Key", cfg.APIKey)
	return &client{http: http}
}

func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(language)]
	return id, ok
}

type submissionRequest struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output,omitempty"`
}

type submissionResponse struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Time          string `json:"time"`
	Memory        int    `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func (c *client) Execute(ctx context.Context, sourceCode, language, stdin, expectedOutput string) (*ExecutionResult, error) {
	langID, ok := LanguageID(language)
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	var out submissionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"base64_encoded": "false", "wait": "true"}).
		SetBody(submissionRequest{
			SourceCode:     sourceCode,
			LanguageID:     langID,
			Stdin:          stdin,
			ExpectedOutput: expectedOutput,
		}).
		SetResult(&out).
		Post("/submissions")
	if err != nil {
		return nil, fmt.Errorf("judge0 request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("judge0 returned %d: %s", resp.StatusCode(), resp.String())
	}

	return formatResult(out), nil
}

func formatResult(data submissionResponse) *ExecutionResult {
	res := &ExecutionResult{
		Stdout:   data.Stdout,
		Stderr:   data.Stderr,
		MemoryKB: data.Memory,
	}
	if secs, err := strconv.ParseFloat(data.Time, 64); err == nil {
		res.ExecutionTimeMs = secs * 1000
	}

	switch id := data.Status.ID; {
	case id == 1 || id == 2:
		res.Error = "Execution in progress"
	case id == statusAccepted:
		res.Success = true
	case id == 4:
		res.Error = "Wrong Answer"
	case id == 5:
		res.Error = "Time Limit Exceeded"
	case id == 6:
		res.Error = firstNonEmpty(data.CompileOutput, "Compilation Error")
	case id >= 7 && id <= 12:
		res.Error = firstNonEmpty(data.Stderr, "Runtime Error")
	case id == 13:
		res.Error = "Internal Error"
	case id == 14:
		res.Error = "Exec Format Error"
	default:
		res.Error = firstNonEmpty(data.Status.Description, "Unknown error")
	}
	return res
}

// Submit runs every case sequentially. A transport failure on one case is
// recorded as that case's error rather than aborting the whole run.
func (c *client) Submit(ctx context.Context, sourceCode, language string, cases []TestCase) (*Verdict, error) {
	if _, ok := LanguageID(language); !ok {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	results := make([]CaseResult, 0, len(cases))
	maxMemory := 0
	for _, tc := range cases {
		exec, err := c.Execute(ctx, sourceCode, language, tc.Input, tc.ExpectedOutput)
		if err != nil {
			exec = &ExecutionResult{Error: err.Error()}
		}

		passed := exec.Success && exec.Stdout != "" &&
			strings.TrimSpace(exec.Stdout) == strings.TrimSpace(tc.ExpectedOutput)

		errMsg := exec.Error
		if errMsg == "" {
			errMsg = exec.Stderr
		}
		if exec.MemoryKB > maxMemory {
			maxMemory = exec.MemoryKB
		}

		results = append(results, CaseResult{
			Input:           tc.Input,
			ExpectedOutput:  tc.ExpectedOutput,
			ActualOutput:    exec.Stdout,
			Passed:          passed,
			ExecutionTimeMs: exec.ExecutionTimeMs,
			Error:           errMsg,
		})
	}

	v := Grade(results)
	v.MemoryKB = maxMemory
	return v, nil
}

// Grade turns per case results into a verdict. Any failing case that also
// errored makes the whole submission an error.
func Grade(results []CaseResult) *Verdict {
	v := &Verdict{TotalTestCases: len(results), Results: results}
	if len(results) == 0 {
		v.Status = StatusError
		return v
	}

	var totalTime float64
	hasError := false
	for _, r := range results {
		if r.Passed {
			v.TestCasesPassed++
		} else if r.Error != "" {
			hasError = true
		}
		totalTime += r.ExecutionTimeMs
	}

	v.Score = v.TestCasesPassed * 100 / len(results)
	v.ExecutionTimeMs = int(totalTime / float64(len(results)))

	switch {
	case hasError:
		v.Status = StatusError
	case v.Score < 100:
		v.Status = StatusWrong
	default:
		v.Status = StatusAccepted
	}
	return v
}

const (
	StatusAccepted = "accepted"
	StatusWrong    = "wrong"
	StatusError    = "error"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
