package models

import "github.com/shopspring/decimal"

// OrganizationSettings holds the per-account billing defaults
type OrganizationSettings struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	SchoolName        string          `json:"school_name"`
	DefaultMonthlyFee decimal.Decimal `json:"default_monthly_fee"`
	DefaultDueDay     int             `json:"default_due_day"`
	CurrencySymbol    string          `json:"currency_symbol"`
}

// SettingsInput carries the editable settings fields
type SettingsInput struct {
	SchoolName        string          `json:"school_name" validate:"required,max=200"`
	DefaultMonthlyFee decimal.Decimal `json:"default_monthly_fee"`
	DefaultDueDay     int             `json:"default_due_day" validate:"min=1,max=31"`
	CurrencySymbol    string          `json:"currency_symbol" validate:"required,max=8"`
}
