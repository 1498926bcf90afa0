package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/locker"
	"learnhub-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPaymentWithCouponCompletesAndEnrolls(t *testing.T) {
	f := newFixture(t)
	coupon := f.seedCoupon("SAVE20", 20, nil)
	ctx := context.Background()

	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{
		PaymentMethod: "credit_card",
		CouponCode:    " save20 ",
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PaymentStatusCompleted), res.Status)
	assert.True(t, money(80).Equal(res.Amount))
	assert.True(t, money(100).Equal(res.OriginalAmount))
	assert.True(t, money(20).Equal(res.DiscountAmount))
	assert.Equal(t, "SAVE20", res.CouponCode)
	assert.True(t, strings.HasPrefix(res.TransactionId, "TXN"))
	require.NotNil(t, res.Enrollment)
	assert.Equal(t, string(entity.EnrollmentTypePaid), res.Enrollment.EnrollmentType)

	assert.Len(t, f.enrollmentsFor(f.buyer, f.course.Id), 1)
	assert.Equal(t, 1, f.store.courses[f.course.Id].Students)

	usages := f.usagesFor(coupon.Id)
	require.Len(t, usages, 1)
	assert.True(t, money(20).Equal(usages[0].DiscountAmount))
	assert.Equal(t, *res.PaymentId, usages[0].PaymentId)
	assert.Equal(t, 1, f.store.coupons[coupon.Id].UsedCount)

	stored := f.store.payments[*res.PaymentId]
	assert.True(t, stored.AmountsConsistent())
	assert.Equal(t, true, stored.Metadata["simulatedPayment"])
	assert.Equal(t, []string{events.PaymentCompleted, events.EnrollmentCreated}, f.events.types())
}

func TestProcessPaymentPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.seedCourse(f.instructor, 50)
	draft.Status = entity.CourseStatusDraft
	free := f.seedCourse(f.instructor, 0)
	owned := f.seedCourse(f.instructor, 70)
	enrolled := entity.NewEnrollment(f.buyer, owned.Id, nil, entity.EnrollmentTypeGifted, testNow)
	f.store.enrollments[enrolled.Id] = enrolled
	expired := f.seedCoupon("OLD10", 10, nil)
	expired.ValidUntil = testNow.Add(-time.Hour)

	tests := []struct {
		name     string
		courseId uuid.UUID
		method   string
		coupon   string
		kind     apperror.Kind
	}{
		{"unknown course", uuid.New(), "credit_card", "", apperror.KindNotFound},
		{"draft course", draft.Id, "credit_card", "", apperror.KindNotFound},
		{"free course", free.Id, "credit_card", "", apperror.KindValidation},
		{"already enrolled", owned.Id, "credit_card", "", apperror.KindValidation},
		{"unknown coupon", f.course.Id, "credit_card", "NOPE", apperror.KindNotFound},
		{"expired coupon", f.course.Id, "credit_card", "OLD10", apperror.KindValidation},
		{"unknown method", f.course.Id, "cash", "", apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payments.ProcessPayment(ctx, f.buyer, tt.courseId, &dto.ProcessPaymentRequest{
				PaymentMethod: tt.method,
				CouponCode:    tt.coupon,
			}, "")
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
	assert.Empty(t, f.store.payments)
	assert.Empty(t, f.events.types())
}

func TestCreatePaymentIntentHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	f.seedCoupon("SAVE20", 20, nil)

	res, err := f.payments.CreatePaymentIntent(context.Background(), f.buyer, f.course.Id, &dto.PaymentIntentRequest{CouponCode: "SAVE20"})
	require.NoError(t, err)

	assert.True(t, money(80).Equal(res.FinalAmount))
	require.NotNil(t, res.Coupon)
	assert.Equal(t, "SAVE20", res.Coupon.Code)
	assert.Empty(t, f.store.payments)
	assert.Empty(t, f.store.usages)
}

func TestFullyDiscountedPaymentSkipsGateway(t *testing.T) {
	f := newFixture(t)
	f.seedCoupon("FREE100", 100, nil)

	res, err := f.payments.ProcessPayment(context.Background(), f.buyer, f.course.Id, &dto.ProcessPaymentRequest{
		PaymentMethod: "vnpay",
		CouponCode:    "FREE100",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, string(entity.PaymentStatusCompleted), res.Status)
	assert.Empty(t, res.PaymentUrl)
	assert.True(t, res.Amount.IsZero())
	assert.Equal(t, gatewayCoupon, f.store.payments[*res.PaymentId].PaymentGateway)
	assert.Len(t, f.enrollmentsFor(f.buyer, f.course.Id), 1)
}

func TestVNPayReturnCompletesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "vnpay"}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentStatusPending), res.Status)
	assert.Contains(t, res.PaymentUrl, "vnp_TxnRef=")
	assert.Empty(t, f.enrollmentsFor(f.buyer, f.course.Id), "no access before the gateway confirms")

	ref, _ := f.store.payments[*res.PaymentId].Metadata["order_ref"].(string)
	require.NotEmpty(t, ref)
	params := gatewayReturn(f.gateway, ref, money(100), "00")

	first, err := f.payments.HandleGatewayReturn(ctx, params)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.False(t, first.AlreadyProcessed)
	assert.Equal(t, f.course.Id, *first.CourseId)

	second, err := f.payments.HandleGatewayReturn(ctx, params)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.True(t, second.AlreadyProcessed)

	stored := f.store.payments[*res.PaymentId]
	assert.Equal(t, entity.PaymentStatusCompleted, stored.PaymentStatus)
	assert.Equal(t, "NCB", stored.Metadata["bank_code"])
	assert.Len(t, f.enrollmentsFor(f.buyer, f.course.Id), 1)
	assert.Equal(t, 1, f.store.courses[f.course.Id].Students)
	assert.Equal(t, []string{events.PaymentCompleted, events.EnrollmentCreated}, f.events.types())
}

func TestVNPayReturnFailureMarksPaymentFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "vnpay"}, "")
	require.NoError(t, err)
	ref, _ := f.store.payments[*res.PaymentId].Metadata["order_ref"].(string)

	out, err := f.payments.HandleGatewayReturn(ctx, gatewayReturn(f.gateway, ref, money(100), "24"))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Message)

	assert.Equal(t, entity.PaymentStatusFailed, f.store.payments[*res.PaymentId].PaymentStatus)
	assert.Empty(t, f.enrollmentsFor(f.buyer, f.course.Id))
	assert.Equal(t, []string{events.PaymentFailed}, f.events.types())
}

func TestVNPayReturnRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "vnpay"}, "")
	require.NoError(t, err)
	ref, _ := f.store.payments[*res.PaymentId].Metadata["order_ref"].(string)

	t.Run("tampered amount", func(t *testing.T) {
		params := gatewayReturn(f.gateway, ref, money(100), "00")
		params["vnp_Amount"] = "100"
		_, err := f.payments.HandleGatewayReturn(ctx, params)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("signed but wrong amount", func(t *testing.T) {
		_, err := f.payments.HandleGatewayReturn(ctx, gatewayReturn(f.gateway, ref, money(50), "00"))
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("unknown payment", func(t *testing.T) {
		other := strings.ReplaceAll(uuid.NewString(), "-", "") + "_1710496800"
		_, err := f.payments.HandleGatewayReturn(ctx, gatewayReturn(f.gateway, other, money(100), "00"))
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	assert.Equal(t, entity.PaymentStatusPending, f.store.payments[*res.PaymentId].PaymentStatus)
	assert.Empty(t, f.enrollmentsFor(f.buyer, f.course.Id))
}

func TestNewAttemptSupersedesPendingGatewayPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "vnpay"}, "")
	require.NoError(t, err)

	second, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "momo"}, "")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentStatusCompleted), second.Status)

	old := f.store.payments[*first.PaymentId]
	assert.Equal(t, entity.PaymentStatusCancelled, old.PaymentStatus)
	assert.Contains(t, old.Notes, "Superseded")
}

func TestBankTransferFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	limited := f.seedCoupon("ONCE10", 10, intPtr(1))

	t.Run("instructions only", func(t *testing.T) {
		res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{
			PaymentMethod: "bank_transfer",
			CouponCode:    "ONCE10",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, statusAwaitingTransfer, res.Status)
		assert.Nil(t, res.PaymentId)
		require.NotNil(t, res.BankInfo)
		assert.True(t, money(90).Equal(res.BankInfo.Amount))
		assert.Contains(t, res.BankInfo.QRCodeURL, "VCB-0123456789")
		assert.True(t, strings.HasPrefix(res.BankInfo.TransferContent, "LEARNHUB "))
		assert.Empty(t, f.store.payments)
	})

	var paymentId uuid.UUID
	t.Run("buyer confirms transfer", func(t *testing.T) {
		res, err := f.payments.ConfirmBankTransferByUser(ctx, f.buyer, f.course.Id, &dto.ConfirmBankTransferRequest{CouponCode: "ONCE10"})
		require.NoError(t, err)
		require.NotNil(t, res.PaymentId)
		paymentId = *res.PaymentId
		assert.Equal(t, string(entity.PaymentStatusPending), res.Status)
		assert.Empty(t, f.enrollmentsFor(f.buyer, f.course.Id))
		assert.Len(t, f.usagesFor(limited.Id), 1, "the coupon is reserved at confirmation")
		assert.Equal(t, []string{events.PaymentPendingConfirmation}, f.events.types())
	})

	t.Run("pending transfer blocks new attempts", func(t *testing.T) {
		_, err := f.payments.ConfirmBankTransferByUser(ctx, f.buyer, f.course.Id, nil)
		assert.True(t, apperror.Is(err, apperror.KindConflict))

		_, err = f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "credit_card"}, "")
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("other creator cannot confirm", func(t *testing.T) {
		_, err := f.payments.ConfirmPayment(ctx, Actor{UserId: uuid.New(), Role: entity.RoleCreator}, paymentId, nil)
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})

	t.Run("admin confirms once", func(t *testing.T) {
		admin := Actor{UserId: uuid.New(), Role: entity.RoleAdmin}
		res, err := f.payments.ConfirmPayment(ctx, admin, paymentId, &dto.ConfirmPaymentRequest{Notes: "Matched statement line 42"})
		require.NoError(t, err)
		assert.True(t, res.EnrollmentCreated)
		assert.Equal(t, string(entity.PaymentStatusCompleted), res.Payment.PaymentStatus)
		assert.Equal(t, "Matched statement line 42", res.Payment.Notes)

		_, err = f.payments.ConfirmPayment(ctx, admin, paymentId, nil)
		assert.True(t, apperror.Is(err, apperror.KindValidation))

		assert.Len(t, f.enrollmentsFor(f.buyer, f.course.Id), 1)
		assert.Equal(t, 1, f.store.courses[f.course.Id].Students)
		assert.Len(t, f.usagesFor(limited.Id), 1)
		assert.Equal(t, 1, f.store.coupons[limited.Id].UsedCount)
		assert.Equal(t, admin.UserId.String(), f.store.payments[paymentId].Metadata["confirmed_by"])
	})
}

func TestCourseCreatorConfirmsOwnTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.payments.ConfirmBankTransferByUser(ctx, f.buyer, f.course.Id, nil)
	require.NoError(t, err)

	out, err := f.payments.ConfirmPayment(ctx, Actor{UserId: f.instructor, Role: entity.RoleCreator}, *res.PaymentId, nil)
	require.NoError(t, err)
	assert.True(t, out.EnrollmentCreated)
	assert.Equal(t, f.course.Title, out.Enrollment.CourseTitle)
}

func TestConfirmPaymentRejectsGatewayPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "vnpay"}, "")
	require.NoError(t, err)

	_, err = f.payments.ConfirmPayment(ctx, Actor{UserId: uuid.New(), Role: entity.RoleAdmin}, *res.PaymentId, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.payments.ConfirmPayment(ctx, Actor{UserId: uuid.New(), Role: entity.RoleAdmin}, uuid.New(), nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRequestRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "paypal"}, "")
	require.NoError(t, err)
	paymentId := *res.PaymentId

	t.Run("someone else's payment", func(t *testing.T) {
		_, err := f.payments.RequestRefund(ctx, uuid.New(), paymentId, &dto.RefundRequest{Reason: "not mine"})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("outside the window", func(t *testing.T) {
		f.payments.now = func() time.Time { return testNow.Add(8 * 24 * time.Hour) }
		_, err := f.payments.RequestRefund(ctx, f.buyer, paymentId, &dto.RefundRequest{Reason: "changed my mind"})
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Equal(t, entity.PaymentStatusCompleted, f.store.payments[paymentId].PaymentStatus)
		assert.Len(t, f.enrollmentsFor(f.buyer, f.course.Id), 1)
	})

	t.Run("inside the window", func(t *testing.T) {
		f.payments.now = func() time.Time { return testNow.Add(6 * 24 * time.Hour) }
		out, err := f.payments.RequestRefund(ctx, f.buyer, paymentId, &dto.RefundRequest{Reason: "  course was not what I expected "})
		require.NoError(t, err)
		assert.Equal(t, string(entity.PaymentStatusRefunded), out.PaymentStatus)
		assert.Equal(t, "course was not what I expected", out.RefundReason)
		assert.Empty(t, f.enrollmentsFor(f.buyer, f.course.Id))
		assert.Equal(t, 1, f.store.courses[f.course.Id].Students, "refunds leave the counter alone")
		assert.Contains(t, f.events.types(), events.PaymentRefunded)
	})

	t.Run("twice", func(t *testing.T) {
		_, err := f.payments.RequestRefund(ctx, f.buyer, paymentId, &dto.RefundRequest{Reason: "again"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestFailedCompletionRollsBack(t *testing.T) {
	f := newFixture(t)
	f.store.fail["IncrementStudents"] = errors.New("connection reset")

	_, err := f.payments.ProcessPayment(context.Background(), f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "credit_card"}, "")
	require.Error(t, err)

	assert.Empty(t, f.store.payments)
	assert.Empty(t, f.store.enrollments)
	assert.Equal(t, 0, f.store.courses[f.course.Id].Students)
	assert.Equal(t, 1, f.store.rollbacks)
	assert.Empty(t, f.events.types())
}

type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return nil, locker.ErrLocked
}

type brokenLocker struct{}

func (brokenLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return nil, errors.New("redis: connection refused")
}

func TestPaymentLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := &dto.ProcessPaymentRequest{PaymentMethod: "credit_card"}

	f.payments.locker = busyLocker{}
	_, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, req, "")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	f.payments.locker = brokenLocker{}
	res, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, req, "")
	require.NoError(t, err, "a lock outage does not block purchases")
	assert.Equal(t, string(entity.PaymentStatusCompleted), res.Status)
}

func TestPaymentQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.seedCourse(f.instructor, 40)
	otherCreator := uuid.New()
	f.seedCourse(otherCreator, 60)

	first, err := f.payments.ProcessPayment(ctx, f.buyer, f.course.Id, &dto.ProcessPaymentRequest{PaymentMethod: "credit_card"}, "")
	require.NoError(t, err)
	_, err = f.payments.ProcessPayment(ctx, f.buyer, second.Id, &dto.ProcessPaymentRequest{PaymentMethod: "vnpay"}, "")
	require.NoError(t, err)

	t.Run("my payments", func(t *testing.T) {
		all, err := f.payments.GetMyPayments(ctx, f.buyer, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 2, all.Total)
		assert.Equal(t, 1, all.Page)
		assert.Equal(t, 20, all.Limit)
		require.Len(t, all.Payments, 2)
		assert.Equal(t, second.Id, all.Payments[0].CourseId, "newest first")

		pending, err := f.payments.GetMyPayments(ctx, f.buyer, &dto.PaymentListQuery{Status: "pending", Page: 1, Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 1, pending.Total)
		assert.Len(t, pending.Payments, 1)
	})

	t.Run("detail", func(t *testing.T) {
		detail, err := f.payments.GetPaymentDetail(ctx, f.buyer, *first.PaymentId)
		require.NoError(t, err)
		assert.Equal(t, f.course.Title, detail.CourseTitle)

		_, err = f.payments.GetPaymentDetail(ctx, uuid.New(), *first.PaymentId)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("creator payments", func(t *testing.T) {
		mine, err := f.payments.GetCreatorPayments(ctx, f.instructor, &dto.PaymentListQuery{Status: "completed"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, mine.Total)
		require.Len(t, mine.Payments, 1)
		assert.Equal(t, "Nguyen Van A", mine.Payments[0].UserName)

		none, err := f.payments.GetCreatorPayments(ctx, uuid.New(), nil)
		require.NoError(t, err)
		assert.Empty(t, none.Payments)
		assert.Zero(t, none.Total)

		theirs, err := f.payments.GetCreatorPayments(ctx, otherCreator, nil)
		require.NoError(t, err)
		assert.Empty(t, theirs.Payments)
	})
}

func TestOrderRefRoundTrip(t *testing.T) {
	id := uuid.New()
	ref := orderRef(id, testNow)
	assert.NotContains(t, ref, "-")

	parsed, err := paymentIDFromOrderRef(ref)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = paymentIDFromOrderRef("garbage")
	assert.Error(t, err)
}
