package service

import (
	"context"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/memory"
	"learnhub-be/internal/repository/specification"
	"learnhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ICouponService interface {
	ValidateCoupon(ctx context.Context, code string, query *dto.ValidateCouponQuery) (*dto.ValidateCouponResponse, error)
	GetActiveCoupons(ctx context.Context) ([]dto.CouponResponse, error)
	CreateCoupon(ctx context.Context, actor Actor, req *dto.CreateCouponRequest) (*dto.CouponResponse, error)
	UpdateCoupon(ctx context.Context, couponId uuid.UUID, req *dto.UpdateCouponRequest) (*dto.CouponResponse, error)
	DeactivateCoupon(ctx context.Context, couponId uuid.UUID) error
	ListCoupons(ctx context.Context, query *dto.CouponListQuery) (*dto.CouponListResponse, error)
}

type couponService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CouponCache
	logger     logger.ILogger
	now        func() time.Time
}

func NewCouponService(uowFactory unitofwork.RepositoryFactory, cache *memory.CouponCache, log logger.ILogger) ICouponService {
	return &couponService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
		now:        time.Now,
	}
}

// ValidateCoupon reports rule failures in the body rather than as an error.
// When only a course is given its current price is used as the amount.
func (s *couponService) ValidateCoupon(ctx context.Context, code string, query *dto.ValidateCouponQuery) (*dto.ValidateCouponResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	coupon, err := findCoupon(ctx, uow, code)
	if err != nil {
		return nil, err
	}

	courseId := uuid.Nil
	var amount *decimal.Decimal
	if query != nil {
		if query.CourseId != "" {
			if courseId, err = uuid.Parse(query.CourseId); err != nil {
				return nil, apperror.Validation("Invalid course_id")
			}
		}
		if query.Amount != "" {
			v, err := decimal.NewFromString(query.Amount)
			if err != nil || v.IsNegative() {
				return nil, apperror.Validation("Invalid amount")
			}
			amount = &v
		}
	}

	if amount == nil && courseId != uuid.Nil {
		course, err := findCourse(ctx, uow, courseId)
		if err != nil {
			return nil, err
		}
		price := course.EffectivePrice()
		amount = &price
	}

	// Without an amount the minimum purchase rule cannot be judged yet.
	check := coupon.MinPurchaseAmount
	if amount != nil {
		check = *amount
	}
	descriptor := toCouponResponse(coupon)
	if err := coupon.Validate(courseId, check, s.now()); err != nil {
		return &dto.ValidateCouponResponse{Valid: false, Reason: err.Error(), Coupon: &descriptor}, nil
	}

	res := &dto.ValidateCouponResponse{Valid: true, Coupon: &descriptor}
	if amount != nil {
		quote := entity.NewPriceQuote(*amount, coupon.CalculateDiscount(*amount), coupon)
		res.DiscountAmount = &quote.DiscountAmount
		res.FinalAmount = &quote.FinalAmount
	}
	return res, nil
}

func (s *couponService) GetActiveCoupons(ctx context.Context) ([]dto.CouponResponse, error) {
	coupons, ok := s.cache.GetActive()
	if !ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		found, err := uow.CouponRepository().FindAll(ctx,
			specification.ActiveCoupons{Now: s.now()},
			specification.NewestFirst(),
		)
		if err != nil {
			return nil, err
		}
		coupons = make([]*entity.CourseCoupon, 0, len(found))
		for _, c := range found {
			if c.HasRemainingUses() {
				coupons = append(coupons, c)
			}
		}
		s.cache.SetActive(coupons)
	}

	res := make([]dto.CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		res = append(res, toCouponResponse(c))
	}
	return res, nil
}

func (s *couponService) CreateCoupon(ctx context.Context, actor Actor, req *dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	coupon := &entity.CourseCoupon{
		Id:                uuid.New(),
		Code:              entity.NormalizeCoupon(req.Code),
		Description:       req.Description,
		DiscountType:      entity.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          true,
		ApplicableCourses: scopeOf(req.ApplicableCourses),
		CreatedBy:         &actor.UserId,
	}
	if err := checkCouponRules(coupon); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.CouponRepository().FindOne(ctx, specification.ByCode(coupon.Code))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Coupon code already exists")
	}
	if err := uow.CouponRepository().Create(ctx, coupon); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	s.logger.Info("COUPON", "Coupon created", map[string]interface{}{
		"coupon_id":  coupon.Id,
		"code":       coupon.Code,
		"created_by": actor.UserId,
	})
	res := toCouponResponse(coupon)
	return &res, nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, couponId uuid.UUID, req *dto.UpdateCouponRequest) (*dto.CouponResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	coupon, err := uow.CouponRepository().FindOne(ctx, specification.ByID{ID: couponId})
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperror.NotFound("Coupon not found")
	}

	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MinPurchaseAmount != nil {
		coupon.MinPurchaseAmount = *req.MinPurchaseAmount
	}
	if req.MaxDiscountAmount != nil {
		coupon.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = req.UsageLimit
	}
	if req.ValidFrom != nil {
		coupon.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		coupon.ValidUntil = *req.ValidUntil
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.ApplicableCourses != nil {
		coupon.ApplicableCourses = scopeOf(*req.ApplicableCourses)
	}
	if err := checkCouponRules(coupon); err != nil {
		return nil, err
	}

	if err := uow.CouponRepository().Update(ctx, coupon); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	res := toCouponResponse(coupon)
	return &res, nil
}

func (s *couponService) DeactivateCoupon(ctx context.Context, couponId uuid.UUID) error {
	active := false
	_, err := s.UpdateCoupon(ctx, couponId, &dto.UpdateCouponRequest{IsActive: &active})
	return err
}

func (s *couponService) ListCoupons(ctx context.Context, query *dto.CouponListQuery) (*dto.CouponListResponse, error) {
	q := dto.CouponListQuery{}
	if query != nil {
		q = *query
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	var filters []specification.Specification
	if q.Active != nil {
		filters = append(filters, specification.Filter("is_active", *q.Active))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.CouponRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	coupons, err := uow.CouponRepository().FindAll(ctx, append(filters,
		specification.NewestFirst(),
		specification.Page(q.Page, q.Limit),
	)...)
	if err != nil {
		return nil, err
	}

	res := &dto.CouponListResponse{Coupons: make([]dto.CouponResponse, 0, len(coupons)), Total: total, Page: q.Page, Limit: q.Limit}
	for _, c := range coupons {
		res.Coupons = append(res.Coupons, toCouponResponse(c))
	}
	return res, nil
}

func checkCouponRules(c *entity.CourseCoupon) error {
	if !c.DiscountValue.IsPositive() {
		return apperror.Validation("Discount value must be positive")
	}
	if c.DiscountType == entity.DiscountTypePercentage && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.Validation("Percentage discount cannot exceed 100")
	}
	if c.MinPurchaseAmount.IsNegative() {
		return apperror.Validation("Minimum purchase amount cannot be negative")
	}
	if !c.ValidUntil.After(c.ValidFrom) {
		return apperror.Validation("valid_until must be after valid_from")
	}
	return nil
}

// An empty course list means the coupon is not scoped.
func scopeOf(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
