package service

import (
	"context"
	"time"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/contract"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// priceCourse runs every purchase precondition and prices the course.
// It has no side effects.
func priceCourse(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId, courseId uuid.UUID,
	couponCode string,
	now time.Time,
) (*entity.Course, entity.PriceQuote, error) {
	course, err := uow.CourseRepository().FindOne(ctx,
		specification.ByID{ID: courseId},
		specification.Purchasable{},
	)
	if err != nil {
		return nil, entity.PriceQuote{}, err
	}
	if course == nil {
		return nil, entity.PriceQuote{}, apperror.NotFound("Course not found or not available")
	}

	price := course.EffectivePrice()
	if !price.IsPositive() {
		return nil, entity.PriceQuote{}, apperror.Validation("This course is free, enroll directly instead")
	}

	enrollment, err := uow.EnrollmentRepository().FindOne(ctx,
		specification.ByUser(userId),
		specification.ByCourse(courseId),
	)
	if err != nil {
		return nil, entity.PriceQuote{}, err
	}
	if enrollment != nil {
		return nil, entity.PriceQuote{}, apperror.Validation("You are already enrolled in this course")
	}

	code := entity.NormalizeCoupon(couponCode)
	if code == "" {
		return course, entity.NewPriceQuote(price, decimal.Zero, nil), nil
	}

	coupon, err := findCoupon(ctx, uow, code)
	if err != nil {
		return nil, entity.PriceQuote{}, err
	}
	if err := coupon.Validate(course.Id, price, now); err != nil {
		return nil, entity.PriceQuote{}, apperror.Validation(err.Error())
	}

	return course, entity.NewPriceQuote(price, coupon.CalculateDiscount(price), coupon), nil
}

func findCoupon(ctx context.Context, uow unitofwork.UnitOfWork, code string) (*entity.CourseCoupon, error) {
	coupon, err := uow.CouponRepository().FindOne(ctx, specification.ByCode(entity.NormalizeCoupon(code)))
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperror.NotFound("Coupon not found")
	}
	return coupon, nil
}

// supersedePending clears the way for a new payment. A pending bank transfer
// blocks the attempt, any other pending payment is cancelled.
func supersedePending(ctx context.Context, uow unitofwork.UnitOfWork, userId, courseId uuid.UUID) error {
	pending, err := uow.PaymentRepository().FindAll(ctx,
		specification.ByUser(userId),
		specification.ByCourse(courseId),
		specification.ByPaymentStatus(entity.PaymentStatusPending),
	)
	if err != nil {
		return err
	}

	for _, p := range pending {
		if p.PaymentMethod == entity.PaymentMethodBankTransfer {
			return pendingTransferError(p)
		}
		if err := p.MarkCancelled("Superseded by a new payment attempt"); err != nil {
			return err
		}
		if err := uow.PaymentRepository().Update(ctx, p, entity.PaymentStatusPending); err != nil {
			return err
		}
	}
	return nil
}

func findCourse(ctx context.Context, uow unitofwork.UnitOfWork, courseId uuid.UUID) (*entity.Course, error) {
	course, err := uow.CourseRepository().FindOne(ctx, specification.ByID{ID: courseId})
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperror.NotFound("Course not found")
	}
	return course, nil
}

func instructorCourseIDs(ctx context.Context, courses contract.CourseRepository, instructorId uuid.UUID) ([]uuid.UUID, error) {
	owned, err := courses.FindAll(ctx, specification.ByInstructor(instructorId))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(owned))
	for _, c := range owned {
		ids = append(ids, c.Id)
	}
	return ids, nil
}
