package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentOverdue = "overdue"
)

// Payment types
const (
	PaymentTuition = "tuition"
	PaymentProduct = "product"
	PaymentSeminar = "seminar"
)

// Payment represents a tuition or one-off charge for a student
type Payment struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	StudentID      string          `json:"student_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	Type           string          `json:"type"`
	Method         string          `json:"payment_method,omitempty"`
	Description    string          `json:"description,omitempty"`
	ReferenceMonth *time.Time      `json:"reference_month,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PaymentInput carries the fields of a new charge
type PaymentInput struct {
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type" validate:"omitempty,oneof=tuition product seminar"`
	Description    string          `json:"description" validate:"omitempty,max=200"`
	ReferenceMonth string          `json:"reference_month" validate:"omitempty,datetime=2006-01"`
}

// ConfirmPaymentInput carries the method used to settle a payment
type ConfirmPaymentInput struct {
	Method string `json:"payment_method" validate:"required,oneof=pix cash card"`
}

// StudentFinancial summarizes a student's payment history
type StudentFinancial struct {
	Student      Student         `json:"student"`
	Payments     []Payment       `json:"payments"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"` // pending + overdue
	Overdue      bool            `json:"overdue"`
	EffectiveFee decimal.Decimal `json:"effective_fee"`
	DueDay       int             `json:"effective_due_day"`
}
