package entity

import (
	"time"

	"github.com/google/uuid"
)

type RewardTransactionType string

const (
	RewardProblemSolved     RewardTransactionType = "problem_solved"
	RewardSudokuCompleted   RewardTransactionType = "sudoku_completed"
	RewardAchievementEarned RewardTransactionType = "achievement_earned"
	RewardDailyLogin        RewardTransactionType = "daily_login"
	RewardCourseCompleted   RewardTransactionType = "course_completed"
	RewardManualAdjustment  RewardTransactionType = "manual_adjustment"
	RewardPurchase          RewardTransactionType = "purchase"
	RewardBonus             RewardTransactionType = "bonus"
)

const ReferenceTypeProblem = "problem"

type RewardTransaction struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Points          int
	TransactionType RewardTransactionType
	ReferenceType   string
	ReferenceId     *uuid.UUID
	Metadata        map[string]interface{}
	Description     string
	CreatedAt       time.Time
}

type RewardConfig struct {
	Id          uuid.UUID
	ConfigKey   string
	ConfigValue int
	Description string
	IsActive    bool
}

type UserStats struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProblemsSolved int
	RewardPoints   int
}

// ApplyPoints adds delta and floors the balance at zero.
func (s *UserStats) ApplyPoints(delta int) {
	s.RewardPoints += delta
	if s.RewardPoints < 0 {
		s.RewardPoints = 0
	}
}
