package service

import (
	"context"
	"testing"
	"time"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) seedPayment(courseId uuid.UUID, amount int64, status entity.PaymentStatus, paidAt time.Time) *entity.CoursePayment {
	p := &entity.CoursePayment{
		Id:             uuid.New(),
		UserId:         f.buyer,
		CourseId:       courseId,
		Amount:         money(amount),
		OriginalAmount: money(amount),
		PaymentMethod:  entity.PaymentMethodCreditCard,
		PaymentStatus:  status,
		CreatedAt:      paidAt.Add(-time.Minute),
	}
	if status == entity.PaymentStatusCompleted || status == entity.PaymentStatusRefunded {
		at := paidAt
		p.PaymentDate = &at
	}
	f.store.payments[p.Id] = p
	return p
}

func TestRevenueSummary(t *testing.T) {
	f := newFixture(t)
	svc, ok := NewRevenueService(f.store).(*revenueService)
	require.True(t, ok)
	svc.now = fixedClock
	ctx := context.Background()

	other := uuid.New()
	otherCourse := f.seedCourse(other, 300)

	f.seedPayment(f.course.Id, 100, entity.PaymentStatusCompleted, testNow.Add(-time.Hour))
	f.seedPayment(f.course.Id, 50, entity.PaymentStatusCompleted, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f.seedPayment(f.course.Id, 70, entity.PaymentStatusCompleted, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))
	f.seedPayment(f.course.Id, 40, entity.PaymentStatusPending, testNow)
	f.seedPayment(f.course.Id, 90, entity.PaymentStatusRefunded, testNow.Add(-2*time.Hour))
	f.seedPayment(otherCourse.Id, 300, entity.PaymentStatusCompleted, testNow.Add(-time.Hour))

	t.Run("admin sees everything", func(t *testing.T) {
		res, err := svc.GetRevenueSummary(ctx, Actor{UserId: uuid.New(), Role: entity.RoleAdmin}, nil)
		require.NoError(t, err)
		assert.True(t, money(520).Equal(res.TotalRevenue))
		assert.EqualValues(t, 4, res.TotalPayments)
		assert.True(t, money(450).Equal(res.RevenueThisMonth))
		assert.EqualValues(t, 3, res.PaymentsThisMonth)
		assert.True(t, money(400).Equal(res.RevenueToday))
		assert.EqualValues(t, 1, res.PendingPayments)
		assert.EqualValues(t, 1, res.RefundedPayments)
	})

	t.Run("creator sees own courses", func(t *testing.T) {
		res, err := svc.GetRevenueSummary(ctx, Actor{UserId: f.instructor, Role: entity.RoleCreator}, nil)
		require.NoError(t, err)
		assert.True(t, money(220).Equal(res.TotalRevenue))
		assert.True(t, money(150).Equal(res.RevenueThisMonth))
		assert.True(t, money(100).Equal(res.RevenueToday))
	})

	t.Run("single course", func(t *testing.T) {
		res, err := svc.GetRevenueSummary(ctx, Actor{UserId: other, Role: entity.RoleCreator}, &otherCourse.Id)
		require.NoError(t, err)
		assert.True(t, money(300).Equal(res.TotalRevenue))

		_, err = svc.GetRevenueSummary(ctx, Actor{UserId: f.instructor, Role: entity.RoleCreator}, &otherCourse.Id)
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})

	t.Run("creator without courses", func(t *testing.T) {
		res, err := svc.GetRevenueSummary(ctx, Actor{UserId: uuid.New(), Role: entity.RoleCreator}, nil)
		require.NoError(t, err)
		assert.True(t, res.TotalRevenue.IsZero())
		assert.Zero(t, res.TotalPayments)
	})
}
