package service

import (
	"context"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
)

func (s *paymentService) GetMyPayments(ctx context.Context, userId uuid.UUID, query *dto.PaymentListQuery) (*dto.PaymentListResponse, error) {
	q := normalizedQuery(query)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filters := []specification.Specification{specification.ByUser(userId)}
	if q.Status != "" {
		filters = append(filters, specification.ByPaymentStatus(entity.PaymentStatus(q.Status)))
	}

	total, err := uow.PaymentRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	payments, err := uow.PaymentRepository().FindAll(ctx, append(filters,
		specification.NewestFirst(),
		specification.Page(q.Page, q.Limit),
	)...)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentListResponse{
		Payments: toPaymentResponses(payments),
		Total:    total,
		Page:     q.Page,
		Limit:    q.Limit,
	}, nil
}

func (s *paymentService) GetPaymentDetail(ctx context.Context, userId, paymentId uuid.UUID) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment, err := uow.PaymentRepository().FindOne(ctx,
		specification.ByID{ID: paymentId},
		specification.ByUser(userId),
	)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("Payment not found")
	}
	res := toPaymentResponse(payment)
	return &res, nil
}

// GetCreatorPayments lists payments for every course the creator teaches.
func (s *paymentService) GetCreatorPayments(ctx context.Context, creatorId uuid.UUID, query *dto.PaymentListQuery) (*dto.PaymentListResponse, error) {
	q := normalizedQuery(query)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	courseIds, err := instructorCourseIDs(ctx, uow.CourseRepository(), creatorId)
	if err != nil {
		return nil, err
	}
	res := &dto.PaymentListResponse{Payments: []dto.PaymentResponse{}, Page: q.Page, Limit: q.Limit}
	if len(courseIds) == 0 {
		return res, nil
	}

	filters := []specification.Specification{specification.ByCourses(courseIds)}
	if q.Status != "" {
		filters = append(filters, specification.ByPaymentStatus(entity.PaymentStatus(q.Status)))
	}

	res.Total, err = uow.PaymentRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	payments, err := uow.PaymentRepository().FindAllWithDetails(ctx, append(filters,
		specification.NewestFirst(),
		specification.Page(q.Page, q.Limit),
	)...)
	if err != nil {
		return nil, err
	}
	res.Payments = toPaymentResponses(payments)
	return res, nil
}

func normalizedQuery(query *dto.PaymentListQuery) dto.PaymentListQuery {
	var q dto.PaymentListQuery
	if query != nil {
		q = *query
	}
	q.Normalize()
	return q
}
