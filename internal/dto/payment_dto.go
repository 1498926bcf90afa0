package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Payment Intent ---

type PaymentIntentRequest struct {
	CouponCode string `json:"coupon_code"`
}

type CouponDescriptor struct {
	Id            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

type PaymentIntentResponse struct {
	CourseId       uuid.UUID         `json:"course_id"`
	CourseTitle    string            `json:"course_title"`
	OriginalAmount decimal.Decimal   `json:"original_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	FinalAmount    decimal.Decimal   `json:"final_amount"`
	Coupon         *CouponDescriptor `json:"coupon,omitempty"`
}

// --- Process Payment ---

type ProcessPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card debit_card bank_transfer e_wallet paypal momo vnpay zalopay"`
	CouponCode    string `json:"coupon_code"`
}

type BankTransferInfo struct {
	BankName        string          `json:"bank_name"`
	AccountNumber   string          `json:"account_number"`
	AccountName     string          `json:"account_name"`
	Branch          string          `json:"branch,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TransferContent string          `json:"transfer_content"`
	QRCodeURL       string          `json:"qr_code_url"`
}

type ProcessPaymentResponse struct {
	PaymentId      *uuid.UUID          `json:"payment_id,omitempty"`
	CourseId       uuid.UUID           `json:"course_id"`
	UserId         uuid.UUID           `json:"user_id"`
	PaymentMethod  string              `json:"payment_method"`
	Status         string              `json:"status"`
	Amount         decimal.Decimal     `json:"amount"`
	OriginalAmount decimal.Decimal     `json:"original_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	CouponCode     string              `json:"coupon_code,omitempty"`
	TransactionId  string              `json:"transaction_id,omitempty"`
	PaymentUrl     string              `json:"payment_url,omitempty"`
	BankInfo       *BankTransferInfo   `json:"bank_info,omitempty"`
	Note           string              `json:"note,omitempty"`
	Enrollment     *EnrollmentResponse `json:"enrollment,omitempty"`
}

// --- Gateway Return ---

type GatewayReturnResponse struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message"`
	PaymentId        *uuid.UUID      `json:"payment_id,omitempty"`
	CourseId         *uuid.UUID      `json:"course_id,omitempty"`
	TransactionNo    string          `json:"transaction_no,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	BankCode         string          `json:"bank_code,omitempty"`
	ResponseCode     string          `json:"response_code,omitempty"`
	AlreadyProcessed bool            `json:"already_processed,omitempty"`
}

// --- Bank Transfer / Manual Confirmation ---

type ConfirmBankTransferRequest struct {
	CouponCode string `json:"coupon_code"`
}

type ConfirmPaymentRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type ConfirmPaymentResponse struct {
	Payment           PaymentResponse     `json:"payment"`
	Enrollment        *EnrollmentResponse `json:"enrollment,omitempty"`
	EnrollmentCreated bool                `json:"enrollment_created"`
}

// --- Refund ---

type RefundRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// --- Listing ---

type PaymentResponse struct {
	Id             uuid.UUID              `json:"id"`
	UserId         uuid.UUID              `json:"user_id"`
	CourseId       uuid.UUID              `json:"course_id"`
	CourseTitle    string                 `json:"course_title,omitempty"`
	UserName       string                 `json:"user_name,omitempty"`
	UserEmail      string                 `json:"user_email,omitempty"`
	Amount         decimal.Decimal        `json:"amount"`
	OriginalAmount decimal.Decimal        `json:"original_amount"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	PaymentMethod  string                 `json:"payment_method"`
	PaymentStatus  string                 `json:"payment_status"`
	TransactionId  *string                `json:"transaction_id,omitempty"`
	PaymentGateway string                 `json:"payment_gateway,omitempty"`
	PaymentDate    *time.Time             `json:"payment_date,omitempty"`
	RefundDate     *time.Time             `json:"refund_date,omitempty"`
	RefundReason   string                 `json:"refund_reason,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type PaymentListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending completed failed refunded cancelled"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize fills paging defaults.
func (q *PaymentListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// --- Revenue ---

type RevenueSummaryResponse struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalPayments     int64           `json:"total_payments"`
	RevenueThisMonth  decimal.Decimal `json:"revenue_this_month"`
	PaymentsThisMonth int64           `json:"payments_this_month"`
	RevenueToday      decimal.Decimal `json:"revenue_today"`
	PendingPayments   int64           `json:"pending_payments"`
	RefundedPayments  int64           `json:"refunded_payments"`
}
