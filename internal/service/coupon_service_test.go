package service

import (
	"context"
	"testing"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponService(t *testing.T, f *fixture) *couponService {
	t.Helper()
	svc, ok := NewCouponService(f.store, memory.NewCouponCache(time.Minute), logger.NewNopLogger()).(*couponService)
	require.True(t, ok)
	svc.now = fixedClock
	return svc
}

func TestValidateCoupon(t *testing.T) {
	f := newFixture(t)
	svc := newCouponService(t, f)
	ctx := context.Background()

	f.seedCoupon("SAVE20", 20, nil)
	minimum := f.seedCoupon("BIG50", 50, nil)
	minimum.MinPurchaseAmount = money(500)
	scoped := f.seedCoupon("ONLYONE", 10, nil)
	scoped.ApplicableCourses = []uuid.UUID{uuid.New()}

	t.Run("with amount", func(t *testing.T) {
		res, err := svc.ValidateCoupon(ctx, "save20", &dto.ValidateCouponQuery{Amount: "250"})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		require.NotNil(t, res.DiscountAmount)
		assert.True(t, money(50).Equal(*res.DiscountAmount))
		assert.True(t, money(200).Equal(*res.FinalAmount))
	})

	t.Run("course price is the amount", func(t *testing.T) {
		res, err := svc.ValidateCoupon(ctx, "SAVE20", &dto.ValidateCouponQuery{CourseId: f.course.Id.String()})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.True(t, money(80).Equal(*res.FinalAmount))
	})

	t.Run("code only", func(t *testing.T) {
		res, err := svc.ValidateCoupon(ctx, "BIG50", nil)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Nil(t, res.DiscountAmount)
		assert.Equal(t, "BIG50", res.Coupon.Code)
	})

	t.Run("rule failures are reported in the body", func(t *testing.T) {
		res, err := svc.ValidateCoupon(ctx, "BIG50", &dto.ValidateCouponQuery{Amount: "100"})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Reason, entity.ErrCouponBelowMinimumBuy.Error())

		res, err = svc.ValidateCoupon(ctx, "ONLYONE", &dto.ValidateCouponQuery{CourseId: f.course.Id.String()})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, entity.ErrCouponNotApplicable.Error(), res.Reason)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := svc.ValidateCoupon(ctx, "MISSING", nil)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))

		_, err = svc.ValidateCoupon(ctx, "SAVE20", &dto.ValidateCouponQuery{Amount: "-5"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))

		_, err = svc.ValidateCoupon(ctx, "SAVE20", &dto.ValidateCouponQuery{CourseId: "not-a-uuid"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestGetActiveCouponsIsCached(t *testing.T) {
	f := newFixture(t)
	svc := newCouponService(t, f)
	ctx := context.Background()

	f.seedCoupon("LIVE", 10, nil)
	off := f.seedCoupon("OFF", 10, nil)
	off.IsActive = false
	used := f.seedCoupon("USEDUP", 10, intPtr(2))
	used.UsedCount = 2
	future := f.seedCoupon("SOON", 10, nil)
	future.ValidFrom = testNow.Add(time.Hour)

	active, err := svc.GetActiveCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "LIVE", active[0].Code)

	f.seedCoupon("LATE", 10, nil)
	cached, err := svc.GetActiveCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1, "served from cache")

	_, err = svc.CreateCoupon(ctx, Actor{UserId: uuid.New(), Role: entity.RoleAdmin}, &dto.CreateCouponRequest{
		Code:          "fresh",
		DiscountType:  "fixed_amount",
		DiscountValue: money(15),
		ValidFrom:     testNow.Add(-time.Hour),
		ValidUntil:    testNow.Add(time.Hour),
	})
	require.NoError(t, err)

	refreshed, err := svc.GetActiveCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, refreshed, 3)
}

func TestCreateCoupon(t *testing.T) {
	f := newFixture(t)
	svc := newCouponService(t, f)
	ctx := context.Background()
	admin := Actor{UserId: uuid.New(), Role: entity.RoleAdmin}

	valid := func() *dto.CreateCouponRequest {
		return &dto.CreateCouponRequest{
			Code:          "spring24",
			DiscountType:  "percentage",
			DiscountValue: money(25),
			ValidFrom:     testNow,
			ValidUntil:    testNow.Add(7 * 24 * time.Hour),
		}
	}

	res, err := svc.CreateCoupon(ctx, admin, valid())
	require.NoError(t, err)
	assert.Equal(t, "SPRING24", res.Code)
	assert.True(t, res.IsActive)
	assert.Nil(t, res.ApplicableCourses)

	_, err = svc.CreateCoupon(ctx, admin, valid())
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	tests := []struct {
		name   string
		mutate func(r *dto.CreateCouponRequest)
	}{
		{"zero value", func(r *dto.CreateCouponRequest) { r.DiscountValue = money(0) }},
		{"percent above 100", func(r *dto.CreateCouponRequest) { r.DiscountValue = money(120) }},
		{"negative minimum", func(r *dto.CreateCouponRequest) { r.MinPurchaseAmount = money(-1) }},
		{"window reversed", func(r *dto.CreateCouponRequest) { r.ValidUntil = r.ValidFrom.Add(-time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			req.Code = "OTHER"
			tt.mutate(req)
			_, err := svc.CreateCoupon(ctx, admin, req)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		})
	}
}

func TestUpdateAndDeactivateCoupon(t *testing.T) {
	f := newFixture(t)
	svc := newCouponService(t, f)
	ctx := context.Background()
	coupon := f.seedCoupon("EDITME", 10, nil)
	coupon.UsedCount = 4

	courses := []uuid.UUID{f.course.Id}
	value := money(15)
	res, err := svc.UpdateCoupon(ctx, coupon.Id, &dto.UpdateCouponRequest{
		DiscountValue:     &value,
		ApplicableCourses: &courses,
	})
	require.NoError(t, err)
	assert.True(t, money(15).Equal(res.DiscountValue))
	assert.Equal(t, courses, res.ApplicableCourses)
	assert.Equal(t, 4, res.UsedCount)

	empty := []uuid.UUID{}
	res, err = svc.UpdateCoupon(ctx, coupon.Id, &dto.UpdateCouponRequest{ApplicableCourses: &empty})
	require.NoError(t, err)
	assert.Nil(t, res.ApplicableCourses, "an empty list removes the scope")

	require.NoError(t, svc.DeactivateCoupon(ctx, coupon.Id))
	assert.False(t, f.store.coupons[coupon.Id].IsActive)

	err = svc.DeactivateCoupon(ctx, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListCoupons(t *testing.T) {
	f := newFixture(t)
	svc := newCouponService(t, f)
	ctx := context.Background()

	f.seedCoupon("A1", 10, nil)
	f.seedCoupon("B2", 10, nil)
	f.seedCoupon("C3", 10, nil).IsActive = false

	all, err := svc.ListCoupons(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, 20, all.Limit)

	active := true
	page, err := svc.ListCoupons(ctx, &dto.CouponListQuery{Active: &active, Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Coupons, 1)
}
