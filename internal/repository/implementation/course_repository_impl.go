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

type courseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CourseMapper
}

func NewCourseRepository(db *gorm.DB) contract.CourseRepository {
	return &courseRepositoryImpl{db: db, mapper: mapper.NewCourseMapper()}
}

func (r *courseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Course, error) {
	var m model.Course
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *courseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error) {
	var models []*model.Course
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	courses := make([]*entity.Course, 0, len(models))
	for _, m := range models {
		courses = append(courses, r.mapper.ToEntity(m))
	}
	return courses, nil
}

func (r *courseRepositoryImpl) IncrementStudents(ctx context.Context, courseID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("students", gorm.Expr("GREATEST(students + ?, 0)", delta)).Error
}

type userRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CourseMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepositoryImpl{db: db, mapper: mapper.NewCourseMapper()}
}

func (r *userRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := applySpecs(r.db.WithContext(ctx), specs)

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserToEntity(&m), nil
}
