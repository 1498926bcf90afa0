package service

import (
	"context"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

type IRevenueService interface {
	GetRevenueSummary(ctx context.Context, actor Actor, courseId *uuid.UUID) (*dto.RevenueSummaryResponse, error)
}

type revenueService struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewRevenueService(uowFactory unitofwork.RepositoryFactory) IRevenueService {
	return &revenueService{uowFactory: uowFactory, now: time.Now}
}

// GetRevenueSummary covers every course for admins and own courses for creators.
func (s *revenueService) GetRevenueSummary(ctx context.Context, actor Actor, courseId *uuid.UUID) (*dto.RevenueSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payments := uow.PaymentRepository()

	var scope []specification.Specification
	switch {
	case courseId != nil:
		course, err := findCourse(ctx, uow, *courseId)
		if err != nil {
			return nil, err
		}
		if !actor.Owns(course.InstructorId) {
			return nil, apperror.Forbidden("You can only view revenue for your own courses")
		}
		scope = append(scope, specification.ByCourse(*courseId))
	case !actor.IsAdmin():
		ids, err := instructorCourseIDs(ctx, uow.CourseRepository(), actor.UserId)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return emptyRevenue(), nil
		}
		scope = append(scope, specification.ByCourses(ids))
	}

	with := func(extra ...specification.Specification) []specification.Specification {
		specs := make([]specification.Specification, 0, len(scope)+len(extra))
		specs = append(specs, scope...)
		return append(specs, extra...)
	}

	clock := now.With(s.now())
	completed := specification.ByPaymentStatus(entity.PaymentStatusCompleted)
	monthStart, dayStart := clock.BeginningOfMonth(), clock.BeginningOfDay()
	thisMonth := specification.PaidBetween(monthStart, monthStart.AddDate(0, 1, 0))
	today := specification.PaidBetween(dayStart, dayStart.AddDate(0, 0, 1))

	res := emptyRevenue()
	var err error
	if res.TotalRevenue, err = payments.SumAmount(ctx, with(completed)...); err != nil {
		return nil, err
	}
	if res.TotalPayments, err = payments.Count(ctx, with(completed)...); err != nil {
		return nil, err
	}
	if res.RevenueThisMonth, err = payments.SumAmount(ctx, with(completed, thisMonth)...); err != nil {
		return nil, err
	}
	if res.PaymentsThisMonth, err = payments.Count(ctx, with(completed, thisMonth)...); err != nil {
		return nil, err
	}
	if res.RevenueToday, err = payments.SumAmount(ctx, with(completed, today)...); err != nil {
		return nil, err
	}
	if res.PendingPayments, err = payments.Count(ctx, with(specification.ByPaymentStatus(entity.PaymentStatusPending))...); err != nil {
		return nil, err
	}
	if res.RefundedPayments, err = payments.Count(ctx, with(specification.ByPaymentStatus(entity.PaymentStatusRefunded))...); err != nil {
		return nil, err
	}
	return res, nil
}

func emptyRevenue() *dto.RevenueSummaryResponse {
	return &dto.RevenueSummaryResponse{}
}
