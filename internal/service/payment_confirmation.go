package service

import (
	"context"
	"strings"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/pkg/events"

	"github.com/google/uuid"
)

// ConfirmBankTransferByUser records the buyer's claim that the transfer was sent.
// The enrollment waits for a creator or admin to confirm the money arrived.
func (s *paymentService) ConfirmBankTransferByUser(ctx context.Context, userId, courseId uuid.UUID, req *dto.ConfirmBankTransferRequest) (*dto.ProcessPaymentResponse, error) {
	release, err := s.acquire(ctx, userId, courseId)
	if err != nil {
		return nil, err
	}
	defer release()

	couponCode := ""
	if req != nil {
		couponCode = req.CouponCode
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	course, quote, err := priceCourse(ctx, uow, userId, courseId, couponCode, s.now())
	if err != nil {
		return nil, err
	}

	payment := entity.NewPendingPayment(userId, course.Id, quote, entity.PaymentMethodBankTransfer)
	payment.PaymentGateway = string(entity.PaymentMethodBankTransfer)
	payment.Notes = "Awaiting manual confirmation"
	attachCoupon(payment, quote.Coupon)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := supersedePending(ctx, uow, userId, course.Id); err != nil {
		return nil, err
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return nil, apperror.Conflict("A bank transfer for this course is awaiting confirmation")
		}
		return nil, err
	}
	// The coupon is reserved now so a later confirmation does not depend on it still being valid.
	if err := s.recordCouponUsage(ctx, uow, payment); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Bank transfer awaiting confirmation", map[string]interface{}{
		"payment_id": payment.Id,
		"course_id":  course.Id,
		"user_id":    userId,
	})
	s.events.emit(ctx, events.PaymentPendingConfirmation, paymentEventData(payment, course))

	res := baseProcessResponse(userId, course.Id, payment.PaymentMethod, quote)
	res.PaymentId = &payment.Id
	res.Status = string(payment.PaymentStatus)
	res.BankInfo = s.bankInfo(quote, transferContent(userId, course.Id))
	res.Note = "Your transfer will be verified by the course creator"
	return res, nil
}

// ConfirmPayment completes a pending bank transfer. Admins may confirm any
// payment, creators only payments for their own courses.
func (s *paymentService) ConfirmPayment(ctx context.Context, actor Actor, paymentId uuid.UUID, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NotFound("Payment not found")
	}

	course, err := findCourse(ctx, uow, payment.CourseId)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(course.InstructorId) {
		return nil, apperror.Forbidden("You can only confirm payments for your own courses")
	}

	if payment.PaymentMethod != entity.PaymentMethodBankTransfer {
		return nil, apperror.Validation(errNotBankTransfer.Error())
	}
	if payment.PaymentStatus == entity.PaymentStatusCompleted {
		return nil, apperror.Validation(entity.ErrPaymentAlreadyComplete.Error())
	}
	if payment.PaymentStatus != entity.PaymentStatusPending {
		return nil, apperror.Validation(entity.ErrPaymentNotPending.Error())
	}

	if req != nil && strings.TrimSpace(req.Notes) != "" {
		payment.Notes = strings.TrimSpace(req.Notes)
	}

	done, err := s.completePayment(ctx, uow, payment, course, entity.GenerateTransactionID(s.now()), string(entity.PaymentMethodBankTransfer), map[string]interface{}{
		"confirmed_by":   actor.UserId.String(),
		"confirmed_role": actor.Role,
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishCompletion(ctx, done)

	return &dto.ConfirmPaymentResponse{
		Payment:           toPaymentResponse(payment),
		Enrollment:        toEnrollmentResponse(done.enrollment),
		EnrollmentCreated: done.enrolled,
	}, nil
}

// RequestRefund reverses access only. Student and coupon counters are left as they are.
func (s *paymentService) RequestRefund(ctx context.Context, userId, paymentId uuid.UUID, req *dto.RefundRequest) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

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

	expected := payment.PaymentStatus
	if err := payment.Refund(strings.TrimSpace(req.Reason), s.now()); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := uow.PaymentRepository().Update(ctx, payment, expected); err != nil {
		return nil, err
	}
	removed, err := uow.EnrollmentRepository().DeleteByPaymentID(ctx, payment.Id)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Payment refunded", map[string]interface{}{
		"payment_id":          payment.Id,
		"user_id":             userId,
		"enrollments_removed": removed,
	})
	s.events.emit(ctx, events.PaymentRefunded, paymentEventData(payment, nil))

	res := toPaymentResponse(payment)
	return &res, nil
}
