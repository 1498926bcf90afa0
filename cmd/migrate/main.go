package main

import (
	"os"

	"learnhub-be/internal/config"
	"learnhub-be/internal/model"
	"learnhub-be/pkg/database"

	"github.com/fatih/color"
)

var (
	info    = color.New(color.FgCyan)
	warn    = color.New(color.FgYellow)
	success = color.New(color.FgGreen, color.Bold)
	fail    = color.New(color.FgRed, color.Bold)
)

func enum(name string, values string) string {
	return `DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = '` + name + `') THEN CREATE TYPE ` + name + ` AS ENUM (` + values + `); END IF; END $$;`
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		fail.Println("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		fail.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	info.Println("Step 1: extensions and enums")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		enum("course_status", `'draft', 'published', 'archived'`),
		enum("payment_method", `'credit_card', 'debit_card', 'bank_transfer', 'e_wallet', 'paypal', 'momo', 'vnpay', 'zalopay'`),
		enum("payment_status", `'pending', 'completed', 'failed', 'refunded', 'cancelled'`),
		enum("discount_type", `'percentage', 'fixed_amount'`),
		enum("enrollment_type", `'free', 'paid', 'gifted'`),
		enum("enrollment_status", `'not-started', 'in-progress', 'completed'`),
		enum("reward_transaction_type", `'problem_solved', 'sudoku_completed', 'achievement_earned', 'daily_login', 'course_completed', 'manual_adjustment', 'purchase', 'bonus'`),
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			warn.Printf("Setup statement failed, continuing: %v\n", err)
		}
	}

	info.Println("Step 2: AutoMigrate")
	models := []interface{}{
		&model.User{},
		&model.Course{},
		&model.CoursePayment{},
		&model.CourseCoupon{},
		&model.CouponUsage{},
		&model.CourseEnrollment{},
		&model.Problem{},
		&model.TestCase{},
		&model.JudgeSubmission{},
		&model.RewardTransaction{},
		&model.RewardConfig{},
		&model.UserStats{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		fail.Printf("AutoMigrate failed: %v\n", err)
		os.Exit(1)
	}

	info.Println("Step 3: constraints")
	postSQL := []string{
		// At most one pending payment per (user, course).
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_course_payments_one_pending
		 ON course_payments (user_id, course_id) WHERE payment_status = 'pending';`,
		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_coupon_usages_payment') THEN
		     ALTER TABLE coupon_usages ADD CONSTRAINT fk_coupon_usages_payment
		       FOREIGN KEY (payment_id) REFERENCES course_payments(id) ON DELETE CASCADE;
		   END IF;
		 END $$;`,
		`ALTER TABLE course_payments DROP CONSTRAINT IF EXISTS chk_course_payments_amount;`,
		`ALTER TABLE course_payments ADD CONSTRAINT chk_course_payments_amount
		 CHECK (amount >= 0 AND amount = original_amount - discount_amount);`,
		`ALTER TABLE user_stats DROP CONSTRAINT IF EXISTS chk_user_stats_points;`,
		`ALTER TABLE user_stats ADD CONSTRAINT chk_user_stats_points CHECK (reward_points >= 0);`,
	}
	for _, sql := range postSQL {
		if err := db.Exec(sql).Error; err != nil {
			warn.Printf("Constraint statement failed: %v\n", err)
		}
	}

	success.Println("Database migration completed")
}
