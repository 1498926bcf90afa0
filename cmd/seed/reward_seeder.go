package main

import (
	"learnhub-be/internal/model"

	"gorm.io/gorm"
)

func SeedRewardConfigs(db *gorm.DB) {
	configs := []model.RewardConfig{
		{ConfigKey: "problem_easy", ConfigValue: 10, Description: "Points for solving an easy problem", IsActive: true},
		{ConfigKey: "problem_medium", ConfigValue: 20, Description: "Points for solving a medium problem", IsActive: true},
		{ConfigKey: "problem_hard", ConfigValue: 50, Description: "Points for solving a hard problem", IsActive: true},
	}
	for i := range configs {
		create(db, "reward config "+configs[i].ConfigKey, &configs[i], "config_key = ?", configs[i].ConfigKey)
	}
}

func SeedProblems(db *gorm.DB) {
	problems := []model.Problem{
		{
			Title:      "Sum of Two Numbers",
			Difficulty: "Easy",
			TestCases: []model.TestCase{
				{Input: "1 2", ExpectedOutput: "3", IsSample: true},
				{Input: "-5 12", ExpectedOutput: "7"},
				{Input: "1000000 1000000", ExpectedOutput: "2000000"},
			},
		},
		{
			Title:      "Reverse a String",
			Difficulty: "Medium",
			TestCases: []model.TestCase{
				{Input: "learnhub", ExpectedOutput: "buhnrael", IsSample: true},
				{Input: "a", ExpectedOutput: "a"},
			},
		},
	}
	for i := range problems {
		create(db, "problem "+problems[i].Title, &problems[i], "title = ?", problems[i].Title)
	}
}
