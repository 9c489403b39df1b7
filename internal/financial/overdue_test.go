package financial

import (
	"testing"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func fee(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s %v", want, got, msgAndArgs)
}

var testSettings = &models.OrganizationSettings{
	SchoolName:        "Dojo Test",
	DefaultMonthlyFee: decimal.NewFromInt(150),
	DefaultDueDay:     10,
	CurrencySymbol:    "R$",
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name     string
		student  models.Student
		paid     bool
		settings *models.OrganizationSettings
		day      int
		want     bool
	}{
		{
			name:    "inactive past due is not overdue",
			student: models.Student{Status: models.StudentInactive, DueDay: intPtr(5)},
			day:     28,
			want:    false,
		},
		{
			name:    "inactive with payment issue flag history is not overdue",
			student: models.Student{Status: models.StudentInactive, DueDay: intPtr(1)},
			paid:    false,
			day:     31,
			want:    false,
		},
		{
			name:    "paid clears date lateness",
			student: models.Student{Status: models.StudentActive, DueDay: intPtr(5)},
			paid:    true,
			day:     20,
			want:    false,
		},
		{
			name:    "paid clears manual flag",
			student: models.Student{Status: models.StudentPaymentIssue, DueDay: intPtr(5)},
			paid:    true,
			day:     20,
			want:    false,
		},
		{
			name:    "manual flag before due date",
			student: models.Student{Status: models.StudentPaymentIssue, DueDay: intPtr(25)},
			day:     3,
			want:    true,
		},
		{
			name:    "active after due day",
			student: models.Student{Status: models.StudentActive, DueDay: intPtr(10)},
			day:     11,
			want:    true,
		},
		{
			name:    "active on due day",
			student: models.Student{Status: models.StudentActive, DueDay: intPtr(10)},
			day:     10,
			want:    false,
		},
		{
			name:    "pending student is judged by date",
			student: models.Student{Status: models.StudentPending, DueDay: intPtr(2)},
			day:     3,
			want:    true,
		},
		{
			name:     "falls back to organization due day",
			student:  models.Student{Status: models.StudentActive},
			settings: &models.OrganizationSettings{DefaultDueDay: 20},
			day:      15,
			want:     false,
		},
		{
			name:    "falls back to 10 without settings",
			student: models.Student{Status: models.StudentActive},
			day:     11,
			want:    true,
		},
		{
			name:     "zero due day counts as unset",
			student:  models.Student{Status: models.StudentActive, DueDay: intPtr(0)},
			settings: &models.OrganizationSettings{DefaultDueDay: 5},
			day:      6,
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.student, tt.paid, tt.settings, tt.day))
		})
	}
}

func TestIsOverdueDateRule(t *testing.T) {
	s := models.Student{Status: models.StudentActive, DueDay: intPtr(15)}
	for day := 1; day <= 31; day++ {
		assert.Equal(t, day > 15, IsOverdue(s, false, nil, day), "day %d", day)
		assert.False(t, IsOverdue(s, true, nil, day), "paid, day %d", day)
	}
}

func TestEffectiveFee(t *testing.T) {
	tests := []struct {
		name     string
		student  models.Student
		settings *models.OrganizationSettings
		want     int64
	}{
		{name: "own fee", student: models.Student{MonthlyFee: fee(200)}, settings: testSettings, want: 200},
		{name: "explicit zero is kept", student: models.Student{MonthlyFee: fee(0)}, settings: testSettings, want: 0},
		{name: "organization default", student: models.Student{}, settings: &models.OrganizationSettings{DefaultMonthlyFee: decimal.NewFromInt(180)}, want: 180},
		{name: "zero organization default falls back", student: models.Student{}, settings: &models.OrganizationSettings{}, want: 150},
		{name: "no settings", student: models.Student{}, want: 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, EffectiveFee(tt.student, tt.settings))
		})
	}
}

func TestOverdueStudents(t *testing.T) {
	students := []models.Student{
		{ID: "a", Status: models.StudentActive, DueDay: intPtr(5), MonthlyFee: fee(200)},
		{ID: "b", Status: models.StudentActive, DueDay: intPtr(25)},
		{ID: "c", Status: models.StudentPaymentIssue, DueDay: intPtr(5)},
		{ID: "d", Status: models.StudentActive, DueDay: intPtr(3)},
	}
	ref := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	got := OverdueStudents(students, NewPaidSet("a"), testSettings, ref)

	if assert.Len(t, got, 2) {
		assert.Equal(t, "c", got[0].Student.ID)
		assertDecimal(t, 150, got[0].Fee)
		assert.Equal(t, 5, got[0].DueDay)
		assert.Equal(t, "d", got[1].Student.ID)
	}
	assert.Empty(t, OverdueStudents(nil, nil, nil, ref))
}

func TestMonthBounds(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	start, end := MonthBounds(time.Date(2024, 12, 31, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), end)
}

func TestPaidSet(t *testing.T) {
	var empty PaidSet
	assert.False(t, empty.Contains("x"))
	set := NewPaidSet("x", "y")
	assert.True(t, set.Contains("x"))
	assert.False(t, set.Contains("z"))
}
