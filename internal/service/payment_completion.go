package service

import (
	"context"
	"errors"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"

	"github.com/google/uuid"
)

type completion struct {
	payment    *entity.CoursePayment
	course     *entity.Course
	enrollment *entity.CourseEnrollment
	// enrolled is true when this completion created the enrollment.
	enrolled bool
}

// completePayment moves a pending payment to completed and applies every side
// effect of a purchase. It must run inside the caller's transaction.
func (s *paymentService) completePayment(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	payment *entity.CoursePayment,
	course *entity.Course,
	transactionId, gateway string,
	meta map[string]interface{},
) (*completion, error) {
	now := s.now()
	expected := payment.PaymentStatus

	if err := payment.MarkCompleted(transactionId, gateway, now, meta); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := uow.PaymentRepository().Update(ctx, payment, expected); err != nil {
		return nil, err
	}

	done := &completion{payment: payment, course: course}

	existing, err := uow.EnrollmentRepository().FindOne(ctx,
		specification.ByUser(payment.UserId),
		specification.ByCourse(payment.CourseId),
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		done.enrollment = existing
	} else {
		enrollment := entity.NewEnrollment(payment.UserId, payment.CourseId, &payment.Id, entity.EnrollmentTypePaid, now)
		if err := uow.EnrollmentRepository().Create(ctx, enrollment); err != nil {
			return nil, err
		}
		if err := uow.CourseRepository().IncrementStudents(ctx, payment.CourseId, 1); err != nil {
			return nil, err
		}
		enrollment.CourseTitle = course.Title
		done.enrollment = enrollment
		done.enrolled = true
	}

	if err := s.recordCouponUsage(ctx, uow, payment); err != nil {
		return nil, err
	}
	return done, nil
}

// recordCouponUsage stores the usage row and bumps used_count once per payment.
// Payments whose usage was recorded up front are skipped.
func (s *paymentService) recordCouponUsage(ctx context.Context, uow unitofwork.UnitOfWork, payment *entity.CoursePayment) error {
	couponId, ok := couponIDOf(payment)
	if !ok || !payment.DiscountAmount.IsPositive() {
		return nil
	}

	usage, err := uow.CouponUsageRepository().FindOne(ctx, specification.ByPayment(payment.Id))
	if err != nil {
		return err
	}
	if usage != nil {
		return nil
	}

	if err := uow.CouponUsageRepository().Create(ctx, &entity.CouponUsage{
		Id:             uuid.New(),
		CouponId:       couponId,
		UserId:         payment.UserId,
		PaymentId:      payment.Id,
		DiscountAmount: payment.DiscountAmount,
		UsedAt:         s.now(),
	}); err != nil {
		return err
	}

	if err := uow.CouponRepository().IncrementUsage(ctx, couponId); err != nil {
		// The buyer already paid the discounted price, so the completion stands.
		if apperror.Is(err, apperror.KindValidation) {
			s.logger.Warn("PAYMENT", "Coupon limit reached while completing payment", map[string]interface{}{
				"payment_id": payment.Id,
				"coupon_id":  couponId,
			})
			return nil
		}
		return err
	}
	return nil
}

func (s *paymentService) publishCompletion(ctx context.Context, done *completion) {
	p := done.payment
	s.logger.Info("PAYMENT", "Payment completed", map[string]interface{}{
		"payment_id":     p.Id,
		"user_id":        p.UserId,
		"course_id":      p.CourseId,
		"method":         p.PaymentMethod,
		"amount":         p.Amount.String(),
		"new_enrollment": done.enrolled,
	})

	s.events.emit(ctx, events.PaymentCompleted, paymentEventData(p, done.course))
	if done.enrolled {
		data := paymentEventData(p, done.course)
		data["enrollment_id"] = done.enrollment.Id.String()
		s.events.emit(ctx, events.EnrollmentCreated, data)
	}
}

func paymentEventData(p *entity.CoursePayment, course *entity.Course) map[string]interface{} {
	data := map[string]interface{}{
		"payment_id":     p.Id.String(),
		"user_id":        p.UserId.String(),
		"course_id":      p.CourseId.String(),
		"amount":         p.Amount.String(),
		"payment_method": string(p.PaymentMethod),
		"payment_status": string(p.PaymentStatus),
	}
	if course != nil {
		data["course_title"] = course.Title
		data["instructor_id"] = course.InstructorId.String()
	}
	return data
}

func (s *paymentService) HandleGatewayReturn(ctx context.Context, params map[string]string) (*dto.GatewayReturnResponse, error) {
	result := s.gateway.ProcessReturn(params)
	if !result.Valid {
		s.logger.Warn("PAYMENT", "Rejected gateway return with invalid signature", map[string]interface{}{
			"order_ref": params["vnp_TxnRef"],
		})
		return nil, apperror.Validation("Invalid payment signature")
	}

	paymentId, err := paymentIDFromOrderRef(result.OrderID)
	if err != nil {
		return nil, apperror.Validation("Invalid order reference")
	}

	res := &dto.GatewayReturnResponse{
		PaymentId:     &paymentId,
		TransactionNo: result.TransactionNo,
		Amount:        result.Amount,
		BankCode:      result.BankCode,
		ResponseCode:  result.ResponseCode,
	}

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
	res.CourseId = &payment.CourseId

	// Browsers replay the return URL, the first arrival wins.
	if payment.PaymentStatus == entity.PaymentStatusCompleted {
		res.Success = true
		res.AlreadyProcessed = true
		res.Message = "Payment already processed"
		return res, nil
	}
	if payment.PaymentStatus != entity.PaymentStatusPending {
		return nil, apperror.Validation("Payment is no longer pending")
	}

	if !result.Success {
		if err := payment.MarkFailed(result.Message); err != nil {
			return nil, apperror.Validation(err.Error())
		}
		if err := uow.PaymentRepository().Update(ctx, payment, entity.PaymentStatusPending); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		s.logger.Info("PAYMENT", "Gateway reported failure", map[string]interface{}{
			"payment_id":    payment.Id,
			"response_code": result.ResponseCode,
		})
		s.events.emit(ctx, events.PaymentFailed, paymentEventData(payment, nil))
		res.Message = result.Message
		return res, nil
	}

	if !result.Amount.Equal(payment.Amount) {
		s.logger.Error("PAYMENT", "Gateway amount does not match payment", map[string]interface{}{
			"payment_id": payment.Id,
			"expected":   payment.Amount.String(),
			"received":   result.Amount.String(),
		})
		return nil, apperror.Validation("Payment amount does not match")
	}

	course, err := findCourse(ctx, uow, payment.CourseId)
	if err != nil {
		return nil, err
	}

	done, err := s.completePayment(ctx, uow, payment, course, result.TransactionNo, gatewayVNPay, map[string]interface{}{
		"bank_code":     result.BankCode,
		"pay_date":      result.PayDate,
		"response_code": result.ResponseCode,
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishCompletion(ctx, done)

	res.Success = true
	res.Message = result.Message
	return res, nil
}

func pendingTransferError(p *entity.CoursePayment) error {
	return apperror.Conflict("A bank transfer for this course is awaiting confirmation").WithData(dto.PendingPaymentInfo{
		IsPending:     true,
		PaymentId:     p.Id,
		PaymentMethod: string(p.PaymentMethod),
		CreatedAt:     p.CreatedAt,
	})
}

var errNotBankTransfer = errors.New("Only bank transfer payments can be confirmed manually")
