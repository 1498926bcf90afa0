package service

import (
	"strconv"
	"testing"
	"time"

	"learnhub-be/internal/config"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/pkg/gateway/vnpay"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func moneyPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testBank() config.BankTransferConfig {
	return config.BankTransferConfig{
		BankID:        "VCB",
		BankName:      "Vietcombank",
		AccountNumber: "0123456789",
		AccountName:   "LEARNHUB JSC",
		Branch:        "Ha Noi",
	}
}

func testGateway() *vnpay.Client {
	return vnpay.NewClient(vnpay.Config{
		URL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TmnCode:    "TESTTMN",
		HashSecret: "test-secret",
		ReturnURL:  "http://localhost:3000/api/vnpay-return",
	})
}

// gatewayReturn builds the signed query VNPay appends to the return URL.
func gatewayReturn(c *vnpay.Client, ref string, amount decimal.Decimal, code string) map[string]string {
	params := map[string]string{
		"vnp_Amount":        amount.Mul(money(100)).StringFixed(0),
		"vnp_BankCode":      "NCB",
		"vnp_PayDate":       "20240315101000",
		"vnp_ResponseCode":  code,
		"vnp_TmnCode":       "TESTTMN",
		"vnp_TransactionNo": "1422" + strconv.Itoa(int(amount.IntPart())),
		"vnp_TxnRef":        ref,
	}
	params[vnpay.ParamSecureHash] = c.Sign(params)
	params[vnpay.ParamSecureHashType] = "HmacSHA512"
	return params
}

type fixture struct {
	store      *memStore
	events     *recordingPublisher
	gateway    *vnpay.Client
	payments   *paymentService
	instructor uuid.UUID
	buyer      uuid.UUID
	course     *entity.Course
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      newMemStore(),
		events:     &recordingPublisher{},
		gateway:    testGateway(),
		instructor: uuid.New(),
		buyer:      uuid.New(),
	}
	f.store.users[f.instructor] = &entity.User{Id: f.instructor, Email: "instructor@learnhub.test", FullName: "Tran Thi B", Role: entity.RoleCreator}
	f.store.users[f.buyer] = &entity.User{Id: f.buyer, Email: "student@learnhub.test", FullName: "Nguyen Van A", Role: entity.RoleUser}
	f.course = f.seedCourse(f.instructor, 100)

	svc, ok := NewPaymentService(f.store, f.gateway, nil, f.events, testBank(), logger.NewNopLogger()).(*paymentService)
	require.True(t, ok)
	svc.now = fixedClock
	f.payments = svc
	return f
}

func (f *fixture) seedCourse(instructor uuid.UUID, price int64) *entity.Course {
	c := &entity.Course{
		Id:           uuid.New(),
		InstructorId: instructor,
		Title:        "Go for Backend Engineers",
		Status:       entity.CourseStatusPublished,
		Price:        moneyPtr(price),
		CreatedAt:    testNow.Add(-30 * 24 * time.Hour),
	}
	f.store.courses[c.Id] = c
	return c
}

func (f *fixture) seedCoupon(code string, percent int64, limit *int) *entity.CourseCoupon {
	c := &entity.CourseCoupon{
		Id:            uuid.New(),
		Code:          code,
		DiscountType:  entity.DiscountTypePercentage,
		DiscountValue: money(percent),
		UsageLimit:    limit,
		ValidFrom:     testNow.Add(-24 * time.Hour),
		ValidUntil:    testNow.Add(30 * 24 * time.Hour),
		IsActive:      true,
		CreatedAt:     testNow.Add(-24 * time.Hour),
	}
	f.store.coupons[c.Id] = c
	return c
}

func (f *fixture) enrollmentsFor(userID, courseID uuid.UUID) []*entity.CourseEnrollment {
	var out []*entity.CourseEnrollment
	for _, e := range f.store.enrollments {
		if e.UserId == userID && e.CourseId == courseID {
			out = append(out, e)
		}
	}
	return out
}

func (f *fixture) usagesFor(couponID uuid.UUID) []*entity.CouponUsage {
	var out []*entity.CouponUsage
	for _, u := range f.store.usages {
		if u.CouponId == couponID {
			out = append(out, u)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }
