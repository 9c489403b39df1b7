// Package financial derives the payment standing of students and the
// dashboard statistics built from it. Everything here is pure: callers
// supply the roster, the paid set, the settings and the reference date.
package financial

import (
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/shopspring/decimal"
)

// Fallbacks used when neither the student nor the organization sets a value
const DefaultDueDay = 10

var DefaultMonthlyFee = decimal.NewFromInt(150)

// PaidSet holds the IDs of students with a paid payment in the current month
type PaidSet map[string]struct{}

// NewPaidSet builds a PaidSet from a list of student IDs
func NewPaidSet(ids ...string) PaidSet {
	set := make(PaidSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (p PaidSet) Contains(id string) bool {
	_, ok := p[id]
	return ok
}

// EffectiveDueDay resolves the student's due day: own value, then the
// organization default, then DefaultDueDay. Zero counts as unset.
func EffectiveDueDay(s models.Student, settings *models.OrganizationSettings) int {
	if s.DueDay != nil && *s.DueDay != 0 {
		return *s.DueDay
	}
	if settings != nil && settings.DefaultDueDay != 0 {
		return settings.DefaultDueDay
	}
	return DefaultDueDay
}

// EffectiveFee resolves the student's monthly fee. An explicit zero fee on
// the student is kept (scholarship); only an absent fee falls back.
func EffectiveFee(s models.Student, settings *models.OrganizationSettings) decimal.Decimal {
	if s.MonthlyFee.Valid {
		return s.MonthlyFee.Decimal
	}
	if settings != nil && !settings.DefaultMonthlyFee.IsZero() {
		return settings.DefaultMonthlyFee
	}
	return DefaultMonthlyFee
}

// IsOverdue reports whether the student is late on this month's payment as
// of referenceDay (day of month).
func IsOverdue(s models.Student, hasPaidThisMonth bool, settings *models.OrganizationSettings, referenceDay int) bool {
	if s.Status == models.StudentInactive {
		return false
	}
	if hasPaidThisMonth {
		return false
	}
	lateByDate := referenceDay > EffectiveDueDay(s, settings)
	markedLate := s.Status == models.StudentPaymentIssue
	return lateByDate || markedLate
}

// OverdueStudents returns the students IsOverdue holds for at referenceDate,
// in roster order.
func OverdueStudents(students []models.Student, paid PaidSet, settings *models.OrganizationSettings, referenceDate time.Time) []models.OverdueStudent {
	day := referenceDate.Day()
	out := make([]models.OverdueStudent, 0)
	for _, s := range students {
		if !IsOverdue(s, paid.Contains(s.ID), settings, day) {
			continue
		}
		out = append(out, models.OverdueStudent{
			Student: s,
			Fee:     EffectiveFee(s, settings),
			DueDay:  EffectiveDueDay(s, settings),
		})
	}
	return out
}

// MonthBounds returns the first instant of referenceDate's month and of the
// following month, in referenceDate's location.
func MonthBounds(referenceDate time.Time) (time.Time, time.Time) {
	start := time.Date(referenceDate.Year(), referenceDate.Month(), 1, 0, 0, 0, 0, referenceDate.Location())
	return start, start.AddDate(0, 1, 0)
}
