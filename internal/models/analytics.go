package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats represents the headline numbers of the dashboard
type DashboardStats struct {
	ActiveStudents  int             `json:"active_students"`
	OverduePayments int             `json:"overdue_payments"`
	ChurnRisk       int             `json:"churn_risk"`      // no data source yet, always 0
	AbsentStudents  int             `json:"absent_students"` // no data source yet, always 0
	TotalPredicted  decimal.Decimal `json:"total_predicted"`
	TotalRealized   decimal.Decimal `json:"total_realized"`
}

// ChartDataPoint represents one due-day bucket of the monthly forecast
type ChartDataPoint struct {
	Name      string          `json:"name"`
	Range     [2]int          `json:"range"` // inclusive day-of-month bounds
	Predicted decimal.Decimal `json:"predicted"`
	Realized  decimal.Decimal `json:"realized"`
}

// Dashboard is the full result of one dashboard refresh
type Dashboard struct {
	Stats          DashboardStats   `json:"stats"`
	ChartData      []ChartDataPoint `json:"chart_data"`
	ReferenceDate  time.Time        `json:"reference_date"`
	CurrencySymbol string           `json:"currency_symbol"`
}

// OverdueStudent is a student currently classified as overdue
type OverdueStudent struct {
	Student Student         `json:"student"`
	Fee     decimal.Decimal `json:"fee"`
	DueDay  int             `json:"due_day"`
}
