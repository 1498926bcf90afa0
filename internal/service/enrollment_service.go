package service

import (
	"context"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"

	"github.com/google/uuid"
)

type IEnrollmentService interface {
	Enroll(ctx context.Context, userId, courseId uuid.UUID) (*dto.EnrollmentResponse, error)
	CheckEnrollment(ctx context.Context, userId, courseId uuid.UUID) (*dto.CheckEnrollmentResponse, error)
	GetMyEnrollments(ctx context.Context, userId uuid.UUID) ([]*dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, userId, courseId uuid.UUID) error
}

type enrollmentService struct {
	uowFactory unitofwork.RepositoryFactory
	events     *eventEmitter
	logger     logger.ILogger
	now        func() time.Time
}

func NewEnrollmentService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IEnrollmentService {
	return &enrollmentService{
		uowFactory: uowFactory,
		events:     newEventEmitter(publisher, log),
		logger:     log,
		now:        time.Now,
	}
}

// Enroll only enrolls directly into free courses. Paid courses answer with
// PaymentRequired, carrying the pending payment when one exists.
func (s *enrollmentService) Enroll(ctx context.Context, userId, courseId uuid.UUID) (*dto.EnrollmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindOne(ctx, specification.ByID{ID: courseId}, specification.Purchasable{})
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperror.NotFound("Course not found or not available")
	}

	existing, err := uow.EnrollmentRepository().FindOne(ctx, specification.ByUser(userId), specification.ByCourse(courseId))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation("You are already enrolled in this course")
	}

	if !course.IsFree() {
		pending, err := uow.PaymentRepository().FindOne(ctx,
			specification.ByUser(userId),
			specification.ByCourse(courseId),
			specification.ByPaymentStatus(entity.PaymentStatusPending),
		)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			return nil, apperror.PaymentRequired("Your payment for this course is awaiting confirmation").WithData(dto.PendingPaymentInfo{
				IsPending:     true,
				PaymentId:     pending.Id,
				PaymentMethod: string(pending.PaymentMethod),
				CreatedAt:     pending.CreatedAt,
			})
		}
		return nil, apperror.PaymentRequired("This course requires payment").WithData(dto.PaymentRequiredInfo{
			RequiresPayment: true,
			CourseId:        courseId,
		})
	}

	enrollment := entity.NewEnrollment(userId, courseId, nil, entity.EnrollmentTypeFree, s.now())

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.EnrollmentRepository().Create(ctx, enrollment); err != nil {
		return nil, err
	}
	if err := uow.CourseRepository().IncrementStudents(ctx, courseId, 1); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	enrollment.CourseTitle = course.Title

	s.logger.Info("ENROLLMENT", "Free enrollment created", map[string]interface{}{
		"user_id":   userId,
		"course_id": courseId,
	})
	s.events.emit(ctx, events.EnrollmentCreated, map[string]interface{}{
		"enrollment_id": enrollment.Id.String(),
		"user_id":       userId.String(),
		"course_id":     courseId.String(),
		"course_title":  course.Title,
		"instructor_id": course.InstructorId.String(),
	})

	return toEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) CheckEnrollment(ctx context.Context, userId, courseId uuid.UUID) (*dto.CheckEnrollmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	enrollment, err := uow.EnrollmentRepository().FindOne(ctx, specification.ByUser(userId), specification.ByCourse(courseId))
	if err != nil {
		return nil, err
	}
	res := &dto.CheckEnrollmentResponse{
		IsEnrolled: enrollment != nil,
		Enrollment: toEnrollmentResponse(enrollment),
	}
	if enrollment != nil {
		return res, nil
	}

	pending, err := uow.PaymentRepository().FindOne(ctx,
		specification.ByUser(userId),
		specification.ByCourse(courseId),
		specification.ByPaymentStatus(entity.PaymentStatusPending),
	)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		p := toPaymentResponse(pending)
		res.HasPendingPayment = true
		res.PendingPayment = &p
	}
	return res, nil
}

func (s *enrollmentService) GetMyEnrollments(ctx context.Context, userId uuid.UUID) ([]*dto.EnrollmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	enrollments, err := uow.EnrollmentRepository().FindAll(ctx, specification.ByUser(userId), specification.NewestFirst())
	if err != nil {
		return nil, err
	}
	res := make([]*dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		res = append(res, toEnrollmentResponse(e))
	}
	return res, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, userId, courseId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	enrollment, err := uow.EnrollmentRepository().FindOne(ctx, specification.ByUser(userId), specification.ByCourse(courseId))
	if err != nil {
		return err
	}
	if enrollment == nil {
		return apperror.NotFound("Enrollment not found")
	}

	if err := uow.EnrollmentRepository().Delete(ctx, enrollment.Id); err != nil {
		return err
	}
	if err := uow.CourseRepository().IncrementStudents(ctx, courseId, -1); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("ENROLLMENT", "User unenrolled", map[string]interface{}{
		"user_id":   userId,
		"course_id": courseId,
	})
	return nil
}
