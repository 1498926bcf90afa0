package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RewardTransaction struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index:idx_reward_ref,priority:1"`
	Points          int            `gorm:"not null"`
	TransactionType string         `gorm:"type:reward_transaction_type;not null;index:idx_reward_ref,priority:4"`
	ReferenceType   string         `gorm:"type:varchar(50);index:idx_reward_ref,priority:2"`
	ReferenceId     *uuid.UUID     `gorm:"type:uuid;index:idx_reward_ref,priority:3"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	Description     string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
}

func (RewardTransaction) TableName() string {
	return "reward_transactions"
}

type RewardConfig struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConfigKey   string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	ConfigValue int       `gorm:"not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (RewardConfig) TableName() string {
	return "reward_configs"
}

type UserStats struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ProblemsSolved int       `gorm:"default:0"`
	RewardPoints   int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
