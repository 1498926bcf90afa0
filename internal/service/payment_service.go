package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"learnhub-be/internal/config"
	"learnhub-be/internal/dto"
	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"
	"learnhub-be/internal/pkg/locker"
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/repository/unitofwork"
	"learnhub-be/pkg/events"
	"learnhub-be/pkg/gateway/vnpay"

	"github.com/google/uuid"
)

const (
	paymentLockTTL = 30 * time.Second

	metaCouponID   = "coupon_id"
	metaCouponCode = "coupon_code"

	gatewayVNPay  = "vnpay"
	gatewayCoupon = "coupon"

	statusAwaitingTransfer = "awaiting_transfer"
)

// PaymentGateway is the redirect based card gateway.
type PaymentGateway interface {
	CreatePaymentURL(req vnpay.PaymentRequest) (string, error)
	ProcessReturn(params map[string]string) vnpay.ReturnResult
}

type IPaymentService interface {
	CreatePaymentIntent(ctx context.Context, userId, courseId uuid.UUID, req *dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	ProcessPayment(ctx context.Context, userId, courseId uuid.UUID, req *dto.ProcessPaymentRequest, clientIP string) (*dto.ProcessPaymentResponse, error)
	HandleGatewayReturn(ctx context.Context, params map[string]string) (*dto.GatewayReturnResponse, error)
	ConfirmBankTransferByUser(ctx context.Context, userId, courseId uuid.UUID, req *dto.ConfirmBankTransferRequest) (*dto.ProcessPaymentResponse, error)
	ConfirmPayment(ctx context.Context, actor Actor, paymentId uuid.UUID, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error)
	RequestRefund(ctx context.Context, userId, paymentId uuid.UUID, req *dto.RefundRequest) (*dto.PaymentResponse, error)
	GetMyPayments(ctx context.Context, userId uuid.UUID, query *dto.PaymentListQuery) (*dto.PaymentListResponse, error)
	GetPaymentDetail(ctx context.Context, userId, paymentId uuid.UUID) (*dto.PaymentResponse, error)
	GetCreatorPayments(ctx context.Context, creatorId uuid.UUID, query *dto.PaymentListQuery) (*dto.PaymentListResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    PaymentGateway
	locker     locker.ILocker
	events     *eventEmitter
	bank       config.BankTransferConfig
	logger     logger.ILogger
	now        func() time.Time
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gateway PaymentGateway,
	lock locker.ILocker,
	publisher events.Publisher,
	bank config.BankTransferConfig,
	log logger.ILogger,
) IPaymentService {
	if lock == nil {
		lock = locker.NewNopLocker()
	}
	return &paymentService{
		uowFactory: uowFactory,
		gateway:    gateway,
		locker:     lock,
		events:     newEventEmitter(publisher, log),
		bank:       bank,
		logger:     log,
		now:        time.Now,
	}
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, userId, courseId uuid.UUID, req *dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	couponCode := ""
	if req != nil {
		couponCode = req.CouponCode
	}
	course, quote, err := priceCourse(ctx, uow, userId, courseId, couponCode, s.now())
	if err != nil {
		return nil, err
	}

	return &dto.PaymentIntentResponse{
		CourseId:       course.Id,
		CourseTitle:    course.Title,
		OriginalAmount: quote.OriginalAmount,
		DiscountAmount: quote.DiscountAmount,
		FinalAmount:    quote.FinalAmount,
		Coupon:         toCouponDescriptor(quote.Coupon),
	}, nil
}

func (s *paymentService) ProcessPayment(ctx context.Context, userId, courseId uuid.UUID, req *dto.ProcessPaymentRequest, clientIP string) (*dto.ProcessPaymentResponse, error) {
	method := entity.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, apperror.Validation("Invalid payment method")
	}

	release, err := s.acquire(ctx, userId, courseId)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	course, quote, err := priceCourse(ctx, uow, userId, courseId, req.CouponCode, s.now())
	if err != nil {
		return nil, err
	}

	// Nothing left to collect, so no gateway round trip is needed.
	if quote.FinalAmount.IsZero() {
		return s.completeInstantly(ctx, uow, userId, course, quote, method, gatewayCoupon, map[string]interface{}{"fullyDiscounted": true})
	}

	switch method {
	case entity.PaymentMethodVNPay:
		return s.startGatewayPayment(ctx, uow, userId, course, quote, clientIP)
	case entity.PaymentMethodBankTransfer:
		res := baseProcessResponse(userId, course.Id, method, quote)
		res.Status = statusAwaitingTransfer
		res.BankInfo = s.bankInfo(quote, transferContent(userId, course.Id))
		res.Note = "Transfer the exact amount with the given content, then confirm the transfer"
		return res, nil
	default:
		return s.completeInstantly(ctx, uow, userId, course, quote, method, string(method), map[string]interface{}{"simulatedPayment": true})
	}
}

// startGatewayPayment stores a pending payment and returns the signed redirect URL.
// The enrollment is only created once the gateway reports success.
func (s *paymentService) startGatewayPayment(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	course *entity.Course,
	quote entity.PriceQuote,
	clientIP string,
) (*dto.ProcessPaymentResponse, error) {
	now := s.now()
	payment := entity.NewPendingPayment(userId, course.Id, quote, entity.PaymentMethodVNPay)
	payment.PaymentGateway = gatewayVNPay
	attachCoupon(payment, quote.Coupon)

	ref := orderRef(payment.Id, now)
	payment.Metadata["order_ref"] = ref

	paymentURL, err := s.gateway.CreatePaymentURL(vnpay.PaymentRequest{
		OrderID:   ref,
		Amount:    quote.FinalAmount,
		OrderInfo: fmt.Sprintf("Payment for course %s", course.Title),
		IPAddr:    clientIP,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to create payment URL", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := supersedePending(ctx, uow, userId, course.Id); err != nil {
		return nil, err
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Gateway payment created", map[string]interface{}{
		"payment_id": payment.Id,
		"course_id":  course.Id,
		"amount":     payment.Amount.String(),
	})

	res := baseProcessResponse(userId, course.Id, payment.PaymentMethod, quote)
	res.PaymentId = &payment.Id
	res.Status = string(payment.PaymentStatus)
	res.PaymentUrl = paymentURL
	return res, nil
}

// completeInstantly creates and completes a payment in a single transaction.
func (s *paymentService) completeInstantly(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	course *entity.Course,
	quote entity.PriceQuote,
	method entity.PaymentMethod,
	gateway string,
	meta map[string]interface{},
) (*dto.ProcessPaymentResponse, error) {
	payment := entity.NewPendingPayment(userId, course.Id, quote, method)
	attachCoupon(payment, quote.Coupon)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := supersedePending(ctx, uow, userId, course.Id); err != nil {
		return nil, err
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}
	done, err := s.completePayment(ctx, uow, payment, course, entity.GenerateTransactionID(s.now()), gateway, meta)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishCompletion(ctx, done)

	res := baseProcessResponse(userId, course.Id, method, quote)
	res.PaymentId = &payment.Id
	res.Status = string(payment.PaymentStatus)
	res.TransactionId = *payment.TransactionId
	res.Enrollment = toEnrollmentResponse(done.enrollment)
	return res, nil
}

func baseProcessResponse(userId, courseId uuid.UUID, method entity.PaymentMethod, quote entity.PriceQuote) *dto.ProcessPaymentResponse {
	res := &dto.ProcessPaymentResponse{
		CourseId:       courseId,
		UserId:         userId,
		PaymentMethod:  string(method),
		Amount:         quote.FinalAmount,
		OriginalAmount: quote.OriginalAmount,
		DiscountAmount: quote.DiscountAmount,
	}
	if quote.Coupon != nil {
		res.CouponCode = quote.Coupon.Code
	}
	return res
}

func (s *paymentService) acquire(ctx context.Context, userId, courseId uuid.UUID) (func(), error) {
	release, err := s.locker.Acquire(ctx, locker.PaymentKey(userId, courseId), paymentLockTTL)
	if errors.Is(err, locker.ErrLocked) {
		return nil, apperror.Conflict("Another payment for this course is in progress")
	}
	if err != nil {
		s.logger.Warn("PAYMENT", "Payment lock unavailable, continuing without it", map[string]interface{}{
			"user_id":   userId,
			"course_id": courseId,
			"error":     err.Error(),
		})
		return func() {}, nil
	}
	return release, nil
}

func (s *paymentService) bankInfo(quote entity.PriceQuote, content string) *dto.BankTransferInfo {
	qr := fmt.Sprintf("https://img.vietqr.io/image/%s-%s-compact2.png?amount=%s&addInfo=%s&accountName=%s",
		s.bank.BankID,
		s.bank.AccountNumber,
		quote.FinalAmount.StringFixed(0),
		url.QueryEscape(content),
		url.QueryEscape(s.bank.AccountName),
	)
	return &dto.BankTransferInfo{
		BankName:        s.bank.BankName,
		AccountNumber:   s.bank.AccountNumber,
		AccountName:     s.bank.AccountName,
		Branch:          s.bank.Branch,
		Amount:          quote.FinalAmount,
		TransferContent: content,
		QRCodeURL:       qr,
	}
}

func attachCoupon(p *entity.CoursePayment, coupon *entity.CourseCoupon) {
	if coupon == nil {
		return
	}
	p.Metadata[metaCouponID] = coupon.Id.String()
	p.Metadata[metaCouponCode] = coupon.Code
}

func couponIDOf(p *entity.CoursePayment) (uuid.UUID, bool) {
	raw, ok := p.Metadata[metaCouponID].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func transferContent(userId, courseId uuid.UUID) string {
	return fmt.Sprintf("LEARNHUB %s %s", shortID(userId), shortID(courseId))
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// orderRef encodes the payment id into the gateway order reference.
func orderRef(paymentId uuid.UUID, now time.Time) string {
	return strings.ReplaceAll(paymentId.String(), "-", "") + "_" + strconv.FormatInt(now.Unix(), 10)
}

func paymentIDFromOrderRef(ref string) (uuid.UUID, error) {
	prefix, _, _ := strings.Cut(ref, "_")
	return uuid.Parse(prefix)
}
