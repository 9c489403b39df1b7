package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentStatus is the enrollment state of a student
type StudentStatus string

const (
	StudentActive       StudentStatus = "active"
	StudentPending      StudentStatus = "pending"
	StudentInactive     StudentStatus = "inactive"
	StudentPaymentIssue StudentStatus = "payment_issue" // manual late flag, overrides date math
)

// Valid reports whether s is one of the known statuses
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentPending, StudentInactive, StudentPaymentIssue:
		return true
	}
	return false
}

// Billable reports whether the student contributes to predicted revenue
func (s StudentStatus) Billable() bool {
	return s == StudentActive || s == StudentPaymentIssue
}

// Student represents an enrolled student
type Student struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone,omitempty"`
	Belt            string              `json:"belt,omitempty"`
	Modality        string              `json:"modality,omitempty"`
	Status          StudentStatus       `json:"status"`
	MonthlyFee      decimal.NullDecimal `json:"monthly_fee"` // Invalid means "use organization default"
	DueDay          *int                `json:"due_day"`     // nil means "use organization default"
	LastPaymentDate *time.Time          `json:"last_payment_date,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// StudentFilter narrows a student listing
type StudentFilter struct {
	Status  StudentStatus
	Search  string
	Page    int
	PerPage int
}

// StudentPage is one page of a student listing
type StudentPage struct {
	Students []Student `json:"students"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

// StudentInput carries the editable student fields
type StudentInput struct {
	Name       string           `json:"name" validate:"required,max=200"`
	Phone      string           `json:"phone" validate:"omitempty,max=40"`
	Belt       string           `json:"belt" validate:"omitempty,max=40"`
	Modality   string           `json:"modality" validate:"omitempty,max=80"`
	Status     StudentStatus    `json:"status" validate:"omitempty,oneof=active pending inactive payment_issue"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee"`
	DueDay     *int             `json:"due_day" validate:"omitempty,min=1,max=31"`
}
