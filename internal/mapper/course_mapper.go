package mapper

import (
	"learnhub-be/internal/entity"
	"learnhub-be/internal/model"
)

type CourseMapper struct{}

func NewCourseMapper() *CourseMapper {
	return &CourseMapper{}
}

func (m *CourseMapper) ToEntity(c *model.Course) *entity.Course {
	if c == nil {
		return nil
	}
	return &entity.Course{
		Id:            c.Id,
		InstructorId:  c.InstructorId,
		Title:         c.Title,
		Status:        entity.CourseStatus(c.Status),
		Price:         c.Price,
		OriginalPrice: c.OriginalPrice,
		Students:      c.Students,
		IsPremium:     c.IsPremium,
		IsDeleted:     c.IsDeleted,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (m *CourseMapper) UserToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:       u.Id,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

func (m *CourseMapper) EnrollmentToEntity(e *model.CourseEnrollment) *entity.CourseEnrollment {
	if e == nil {
		return nil
	}
	return &entity.CourseEnrollment{
		Id:             e.Id,
		UserId:         e.UserId,
		CourseId:       e.CourseId,
		PaymentId:      e.PaymentId,
		EnrollmentType: entity.EnrollmentType(e.EnrollmentType),
		Progress:       e.Progress,
		Status:         entity.EnrollmentStatus(e.Status),
		StartDate:      e.StartDate,
		CompletionDate: e.CompletionDate,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		CourseTitle:    e.Course.Title,
	}
}

func (m *CourseMapper) EnrollmentToModel(e *entity.CourseEnrollment) *model.CourseEnrollment {
	return &model.CourseEnrollment{
		Id:             e.Id,
		UserId:         e.UserId,
		CourseId:       e.CourseId,
		PaymentId:      e.PaymentId,
		EnrollmentType: string(e.EnrollmentType),
		Progress:       e.Progress,
		Status:         string(e.Status),
		StartDate:      e.StartDate,
		CompletionDate: e.CompletionDate,
	}
}
