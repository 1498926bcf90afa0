package entity

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodMomo         PaymentMethod = "momo"
	PaymentMethodVNPay        PaymentMethod = "vnpay"
	PaymentMethodZaloPay      PaymentMethod = "zalopay"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodBankTransfer,
		PaymentMethodEWallet, PaymentMethodPaypal, PaymentMethodMomo,
		PaymentMethodVNPay, PaymentMethodZaloPay:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

const RefundWindow = 7 * 24 * time.Hour

var (
	ErrPaymentNotPending      = errors.New("Payment is not pending")
	ErrPaymentNotCompleted    = errors.New("Only completed payments can be refunded")
	ErrRefundWindowElapsed    = errors.New("Refund window of 7 days has passed")
	ErrPaymentAlreadyComplete = errors.New("Payment already completed")
)

type CoursePayment struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	CourseId       uuid.UUID
	Amount         decimal.Decimal
	OriginalAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentMethod  PaymentMethod
	PaymentStatus  PaymentStatus
	TransactionId  *string
	PaymentGateway string
	PaymentDate    *time.Time
	RefundDate     *time.Time
	RefundReason   string
	Notes          string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Optional, filled by list queries.
	CourseTitle string
	UserName    string
	UserEmail   string
}

// PriceQuote is the result of pricing a course for a user.
type PriceQuote struct {
	OriginalAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	Coupon         *CourseCoupon
}

// NewPriceQuote clamps the discount into [0, original].
func NewPriceQuote(original, discount decimal.Decimal, coupon *CourseCoupon) PriceQuote {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(original) {
		discount = original
	}
	return PriceQuote{
		OriginalAmount: original,
		DiscountAmount: discount,
		FinalAmount:    original.Sub(discount),
		Coupon:         coupon,
	}
}

func NewPendingPayment(userID, courseID uuid.UUID, quote PriceQuote, method PaymentMethod) *CoursePayment {
	return &CoursePayment{
		Id:             uuid.New(),
		UserId:         userID,
		CourseId:       courseID,
		Amount:         quote.FinalAmount,
		OriginalAmount: quote.OriginalAmount,
		DiscountAmount: quote.DiscountAmount,
		PaymentMethod:  method,
		PaymentStatus:  PaymentStatusPending,
		Metadata:       map[string]interface{}{},
	}
}

// AmountsConsistent reports amount == original - discount and amount >= 0.
func (p *CoursePayment) AmountsConsistent() bool {
	return !p.Amount.IsNegative() && p.Amount.Equal(p.OriginalAmount.Sub(p.DiscountAmount))
}

func (p *CoursePayment) MarkCompleted(transactionID, gateway string, at time.Time, meta map[string]interface{}) error {
	if p.PaymentStatus == PaymentStatusCompleted {
		return ErrPaymentAlreadyComplete
	}
	if p.PaymentStatus != PaymentStatusPending {
		return ErrPaymentNotPending
	}
	p.PaymentStatus = PaymentStatusCompleted
	p.PaymentDate = &at
	if transactionID != "" {
		p.TransactionId = &transactionID
	}
	if gateway != "" {
		p.PaymentGateway = gateway
	}
	if p.Metadata == nil {
		p.Metadata = map[string]interface{}{}
	}
	for k, v := range meta {
		p.Metadata[k] = v
	}
	return nil
}

func (p *CoursePayment) MarkFailed(note string) error {
	if p.PaymentStatus != PaymentStatusPending {
		return ErrPaymentNotPending
	}
	p.PaymentStatus = PaymentStatusFailed
	p.Notes = note
	return nil
}

func (p *CoursePayment) MarkCancelled(note string) error {
	if p.PaymentStatus != PaymentStatusPending {
		return ErrPaymentNotPending
	}
	p.PaymentStatus = PaymentStatusCancelled
	p.Notes = note
	return nil
}

func (p *CoursePayment) CanRefund(now time.Time) error {
	if p.PaymentStatus != PaymentStatusCompleted || p.PaymentDate == nil {
		return ErrPaymentNotCompleted
	}
	if now.Sub(*p.PaymentDate) > RefundWindow {
		return ErrRefundWindowElapsed
	}
	return nil
}

func (p *CoursePayment) Refund(reason string, now time.Time) error {
	if err := p.CanRefund(now); err != nil {
		return err
	}
	p.PaymentStatus = PaymentStatusRefunded
	p.RefundDate = &now
	p.RefundReason = reason
	return nil
}

// GenerateTransactionID builds the synthetic id used for methods without a gateway.
func GenerateTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN%d%06d", now.UnixMilli(), rand.Intn(1000000))
}
