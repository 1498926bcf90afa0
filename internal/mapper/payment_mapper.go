package mapper

import (
	"learnhub-be/internal/entity"
	"learnhub-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.CoursePayment) *entity.CoursePayment {
	if p == nil {
		return nil
	}
	return &entity.CoursePayment{
		Id:             p.Id,
		UserId:         p.UserId,
		CourseId:       p.CourseId,
		Amount:         p.Amount,
		OriginalAmount: p.OriginalAmount,
		DiscountAmount: p.DiscountAmount,
		PaymentMethod:  entity.PaymentMethod(p.PaymentMethod),
		PaymentStatus:  entity.PaymentStatus(p.PaymentStatus),
		TransactionId:  p.TransactionId,
		PaymentGateway: p.PaymentGateway,
		PaymentDate:    p.PaymentDate,
		RefundDate:     p.RefundDate,
		RefundReason:   p.RefundReason,
		Notes:          p.Notes,
		Metadata:       jsonToMap(p.Metadata),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		CourseTitle:    p.Course.Title,
		UserName:       p.User.FullName,
		UserEmail:      p.User.Email,
	}
}

func (m *PaymentMapper) ToModel(p *entity.CoursePayment) *model.CoursePayment {
	if p == nil {
		return nil
	}
	return &model.CoursePayment{
		Id:             p.Id,
		UserId:         p.UserId,
		CourseId:       p.CourseId,
		Amount:         p.Amount,
		OriginalAmount: p.OriginalAmount,
		DiscountAmount: p.DiscountAmount,
		PaymentMethod:  string(p.PaymentMethod),
		PaymentStatus:  string(p.PaymentStatus),
		TransactionId:  p.TransactionId,
		PaymentGateway: p.PaymentGateway,
		PaymentDate:    p.PaymentDate,
		RefundDate:     p.RefundDate,
		RefundReason:   p.RefundReason,
		Notes:          p.Notes,
		Metadata:       toJSON(p.Metadata),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
