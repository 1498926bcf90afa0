package service

import (
	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
)

func toPaymentResponse(p *entity.CoursePayment) dto.PaymentResponse {
	return dto.PaymentResponse{
		Id:             p.Id,
		UserId:         p.UserId,
		CourseId:       p.CourseId,
		CourseTitle:    p.CourseTitle,
		UserName:       p.UserName,
		UserEmail:      p.UserEmail,
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
		Metadata:       p.Metadata,
		CreatedAt:      p.CreatedAt,
	}
}

func toPaymentResponses(payments []*entity.CoursePayment) []dto.PaymentResponse {
	res := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		res = append(res, toPaymentResponse(p))
	}
	return res
}

func toEnrollmentResponse(e *entity.CourseEnrollment) *dto.EnrollmentResponse {
	if e == nil {
		return nil
	}
	return &dto.EnrollmentResponse{
		Id:             e.Id,
		UserId:         e.UserId,
		CourseId:       e.CourseId,
		CourseTitle:    e.CourseTitle,
		PaymentId:      e.PaymentId,
		EnrollmentType: string(e.EnrollmentType),
		Progress:       e.Progress,
		Status:         string(e.Status),
		StartDate:      e.StartDate,
	}
}

func toCouponResponse(c *entity.CourseCoupon) dto.CouponResponse {
	return dto.CouponResponse{
		Id:                c.Id,
		Code:              c.Code,
		Description:       c.Description,
		DiscountType:      string(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MinPurchaseAmount: c.MinPurchaseAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
		IsActive:          c.IsActive,
		ApplicableCourses: c.ApplicableCourses,
	}
}

func toCouponDescriptor(c *entity.CourseCoupon) *dto.CouponDescriptor {
	if c == nil {
		return nil
	}
	return &dto.CouponDescriptor{
		Id:            c.Id,
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
	}
}
