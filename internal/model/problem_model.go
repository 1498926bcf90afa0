package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Problem struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title            string    `gorm:"type:varchar(255);not null"`
	Difficulty       string    `gorm:"type:varchar(20);not null"` // Easy, Medium, Hard
	TotalSubmissions int       `gorm:"default:0"`
	SolvedCount      int       `gorm:"default:0"`
	IsDeleted        bool      `gorm:"default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	TestCases []TestCase `gorm:"foreignKey:ProblemId"`
}

func (Problem) TableName() string {
	return "problems"
}

type TestCase struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProblemId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Input          string    `gorm:"type:text"`
	ExpectedOutput string    `gorm:"type:text;not null"`
	IsSample       bool      `gorm:"default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (TestCase) TableName() string {
	return "test_cases"
}

type JudgeSubmission struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProblemId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	SourceCode      string         `gorm:"type:text;not null"`
	Language        string         `gorm:"type:varchar(50);not null"`
	Status          string         `gorm:"type:varchar(20);not null"`
	Score           int            `gorm:"not null;default:0"`
	ExecutionTimeMs int            `gorm:"default:0"`
	MemoryKB        int            `gorm:"default:0"`
	TestCasesPassed int            `gorm:"default:0"`
	TotalTestCases  int            `gorm:"default:0"`
	Results         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
}

func (JudgeSubmission) TableName() string {
	return "judge_submissions"
}
