package implementation

import (
	"context"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/mapper"
	"learnhub-be/internal/model"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/repository/contract"
	"learnhub-be/internal/repository/scope"
	"learnhub-be/internal/repository/specification"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &paymentRepositoryImpl{db: db, mapper: mapper.NewPaymentMapper()}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, payment *entity.CoursePayment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Omit("Course", "User").Create(m).Error; err != nil {
		return translate(err, "A pending payment already exists for this course")
	}
	payment.Id = m.Id
	payment.CreatedAt = m.CreatedAt
	payment.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *paymentRepositoryImpl) Update(ctx context.Context, payment *entity.CoursePayment, expected entity.PaymentStatus) error {
	m := r.mapper.ToModel(payment)
	res := r.db.WithContext(ctx).
		Model(&model.CoursePayment{}).
		Where("id = ? AND payment_status = ?", payment.Id, string(expected)).
		Select("payment_status", "transaction_id", "payment_gateway", "payment_date",
			"refund_date", "refund_reason", "notes", "metadata", "updated_at").
		Updates(m)
	if res.Error != nil {
		return translate(res.Error, "Transaction id already recorded")
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("Payment was modified concurrently")
	}
	return nil
}

func (r *paymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CoursePayment, error) {
	var m model.CoursePayment
	query := applySpecs(r.db.WithContext(ctx).Preload("Course"), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *paymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CoursePayment, error) {
	return r.find(r.db.WithContext(ctx).Preload("Course"), specs)
}

func (r *paymentRepositoryImpl) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CoursePayment, error) {
	return r.find(r.db.WithContext(ctx).Preload("Course").Preload("User"), specs)
}

func (r *paymentRepositoryImpl) find(query *gorm.DB, specs []specification.Specification) ([]*entity.CoursePayment, error) {
	var models []*model.CoursePayment
	if err := applySpecs(query, specs).Find(&models).Error; err != nil {
		return nil, err
	}

	payments := make([]*entity.CoursePayment, 0, len(models))
	for _, m := range models {
		payments = append(payments, r.mapper.ToEntity(m))
	}
	return payments, nil
}

func (r *paymentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.CoursePayment{}), specs)
	err := query.Count(&count).Error
	return count, err
}

func (r *paymentRepositoryImpl) SumAmount(ctx context.Context, specs ...specification.Specification) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	query := applySpecs(r.db.WithContext(ctx).Model(&model.CoursePayment{}), specs)
	if err := query.Select("SUM(amount) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

func (r *paymentRepositoryImpl) FindCompletedWithoutEnrollment(ctx context.Context, limit int) ([]*entity.CoursePayment, error) {
	var models []*model.CoursePayment
	err := r.db.WithContext(ctx).
		Scopes(scope.CompletedPayments, scope.OrderByCreatedDesc).
		Where("NOT EXISTS (SELECT 1 FROM course_enrollments e WHERE e.user_id = course_payments.user_id AND e.course_id = course_payments.course_id)").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*entity.CoursePayment, 0, len(models))
	for _, m := range models {
		payments = append(payments, r.mapper.ToEntity(m))
	}
	return payments, nil
}
