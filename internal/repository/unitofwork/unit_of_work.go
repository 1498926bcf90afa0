package unitofwork

import (
	"context"

	"learnhub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CourseRepository() contract.CourseRepository
	PaymentRepository() contract.PaymentRepository
	CouponRepository() contract.CouponRepository
	CouponUsageRepository() contract.CouponUsageRepository
	EnrollmentRepository() contract.EnrollmentRepository
	ProblemRepository() contract.ProblemRepository
	SubmissionRepository() contract.SubmissionRepository
	RewardRepository() contract.RewardRepository
}
