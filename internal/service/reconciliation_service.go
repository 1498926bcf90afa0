package service

import (
	"context"
	"time"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"
)

const orphanScanLimit = 100

type IReconciliationService interface {
	// ExpireStalePayments cancels gateway payments left pending beyond the TTL.
	ExpireStalePayments(ctx context.Context) (int, error)
	// DetectMissingEnrollments reports completed payments without an enrollment. It never repairs them.
	DetectMissingEnrollments(ctx context.Context) (int, error)
}

type reconciliationService struct {
	uowFactory unitofwork.RepositoryFactory
	staleAfter time.Duration
	events     *eventEmitter
	logger     logger.ILogger
	now        func() time.Time
}

func NewReconciliationService(uowFactory unitofwork.RepositoryFactory, staleAfter time.Duration, publisher events.Publisher, log logger.ILogger) IReconciliationService {
	return &reconciliationService{
		uowFactory: uowFactory,
		staleAfter: staleAfter,
		events:     newEventEmitter(publisher, log),
		logger:     log,
		now:        time.Now,
	}
}

func (s *reconciliationService) ExpireStalePayments(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stale, err := uow.PaymentRepository().FindAll(ctx,
		specification.ByPaymentStatus(entity.PaymentStatusPending),
		specification.ByPaymentMethod(entity.PaymentMethodVNPay),
		specification.CreatedBefore(s.now().Add(-s.staleAfter)),
	)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, p := range stale {
		ok, err := s.expire(ctx, p)
		if err != nil {
			return expired, err
		}
		if ok {
			expired++
			s.events.emit(ctx, events.PaymentCancelled, paymentEventData(p, nil))
		}
	}

	if expired > 0 {
		s.logger.Info("RECONCILE", "Expired stale gateway payments", map[string]interface{}{"count": expired})
	}
	return expired, nil
}

// expire reports false when the payment moved on since it was listed.
func (s *reconciliationService) expire(ctx context.Context, p *entity.CoursePayment) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := p.MarkCancelled("Payment session expired"); err != nil {
		return false, nil
	}
	if err := uow.PaymentRepository().Update(ctx, p, entity.PaymentStatusPending); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return false, nil
		}
		return false, err
	}
	return true, uow.Commit()
}

func (s *reconciliationService) DetectMissingEnrollments(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	orphans, err := uow.PaymentRepository().FindCompletedWithoutEnrollment(ctx, orphanScanLimit)
	if err != nil {
		return 0, err
	}
	for _, p := range orphans {
		s.logger.Warn("RECONCILE", "Completed payment has no enrollment", map[string]interface{}{
			"payment_id": p.Id,
			"user_id":    p.UserId,
			"course_id":  p.CourseId,
		})
	}
	return len(orphans), nil
}
