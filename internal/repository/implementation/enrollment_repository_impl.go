package implementation

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/mapper"
	"learnhub-be/internal/model"
	"learnhub-be/internal/repository/contract"
	"learnhub-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type enrollmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CourseMapper
}

func NewEnrollmentRepository(db *gorm.DB) contract.EnrollmentRepository {
	return &enrollmentRepositoryImpl{db: db, mapper: mapper.NewCourseMapper()}
}

func (r *enrollmentRepositoryImpl) Create(ctx context.Context, enrollment *entity.CourseEnrollment) error {
	m := r.mapper.EnrollmentToModel(enrollment)
	if err := r.db.WithContext(ctx).Omit("Course").Create(m).Error; err != nil {
		return translate(err, "Already enrolled in this course")
	}
	enrollment.Id = m.Id
	enrollment.CreatedAt = m.CreatedAt
	return nil
}

func (r *enrollmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CourseEnrollment, error) {
	var m model.CourseEnrollment
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EnrollmentToEntity(&m), nil
}

func (r *enrollmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseEnrollment, error) {
	var models []*model.CourseEnrollment
	query := applySpecs(r.db.WithContext(ctx).Preload("Course"), specs)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	enrollments := make([]*entity.CourseEnrollment, 0, len(models))
	for _, m := range models {
		enrollments = append(enrollments, r.mapper.EnrollmentToEntity(m))
	}
	return enrollments, nil
}

func (r *enrollmentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CourseEnrollment{}, "id = ?", id).Error
}

func (r *enrollmentRepositoryImpl) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.CourseEnrollment{}, "payment_id = ?", paymentID)
	return res.RowsAffected, res.Error
}
