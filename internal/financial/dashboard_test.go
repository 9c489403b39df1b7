package financial

import (
	"testing"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() ([]models.Student, PaidSet) {
	students := []models.Student{
		{ID: "1", Name: "Alice", Status: models.StudentActive, MonthlyFee: fee(200), DueDay: intPtr(5)},
		{ID: "2", Name: "Bob", Status: models.StudentActive, MonthlyFee: fee(150), DueDay: intPtr(25)},
		{ID: "3", Name: "Charlie", Status: models.StudentPaymentIssue, MonthlyFee: fee(150), DueDay: intPtr(5)},
		{ID: "4", Name: "David", Status: models.StudentInactive, MonthlyFee: fee(100), DueDay: intPtr(10)},
	}
	return students, NewPaidSet("1")
}

func TestAggregateScenario(t *testing.T) {
	students, paid := scenario()
	ref := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	stats, chart := Aggregate(students, paid, testSettings, ref)

	assert.Equal(t, 2, stats.ActiveStudents)
	assert.Equal(t, 1, stats.OverduePayments)
	assert.Zero(t, stats.ChurnRisk)
	assert.Zero(t, stats.AbsentStudents)
	assertDecimal(t, 500, stats.TotalPredicted)
	assertDecimal(t, 350, stats.TotalRealized)

	require.Len(t, chart, 4)
	// Alice and Charlie fall in week 1, Bob in week 4.
	assertDecimal(t, 350, chart[0].Predicted, "week 1 predicted")
	assertDecimal(t, 200, chart[0].Realized, "week 1 realized")
	assertDecimal(t, 0, chart[1].Predicted, "week 2 predicted")
	assertDecimal(t, 0, chart[2].Predicted, "week 3 predicted")
	assertDecimal(t, 150, chart[3].Predicted, "week 4 predicted")
	assertDecimal(t, 150, chart[3].Realized, "week 4 realized")
}

func TestAggregateEmpty(t *testing.T) {
	stats, chart := Aggregate(nil, NewPaidSet(), nil, time.Now())

	assert.Equal(t, 0, stats.ActiveStudents)
	assert.Equal(t, 0, stats.OverduePayments)
	assertDecimal(t, 0, stats.TotalPredicted)
	assertDecimal(t, 0, stats.TotalRealized)
	require.Len(t, chart, 4)
	wantRanges := [][2]int{{1, 7}, {8, 14}, {15, 21}, {22, 31}}
	for i, point := range chart {
		assert.Equal(t, wantRanges[i], point.Range)
		assertDecimal(t, 0, point.Predicted)
		assertDecimal(t, 0, point.Realized)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	students, paid := scenario()
	ref := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	stats1, chart1 := Aggregate(students, paid, testSettings, ref)
	stats2, chart2 := Aggregate(students, paid, testSettings, ref)

	assert.Equal(t, stats1, stats2)
	assert.Equal(t, chart1, chart2)
}

func TestAggregatePredictedExcludesPendingAndInactive(t *testing.T) {
	students := []models.Student{
		{ID: "p", Status: models.StudentPending, MonthlyFee: fee(300), DueDay: intPtr(1)},
		{ID: "i", Status: models.StudentInactive, MonthlyFee: fee(300), DueDay: intPtr(1)},
		{ID: "a", Status: models.StudentActive, DueDay: intPtr(1)},
	}
	stats, chart := Aggregate(students, nil, nil, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	assertDecimal(t, 150, stats.TotalPredicted)
	assertDecimal(t, 150, chart[0].Predicted)
	// Nobody is late on day 1; only the active student counts as realized.
	assertDecimal(t, 150, chart[0].Realized)
}

func TestAggregatePaidPendingStudentRealizedOnly(t *testing.T) {
	students := []models.Student{
		{ID: "p", Status: models.StudentPending, MonthlyFee: fee(120), DueDay: intPtr(9)},
	}
	stats, chart := Aggregate(students, NewPaidSet("p"), nil, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	assertDecimal(t, 0, stats.TotalPredicted)
	assertDecimal(t, 0, stats.TotalRealized)
	assertDecimal(t, 0, chart[1].Predicted)
	assertDecimal(t, 120, chart[1].Realized)
}

func TestAggregateRealizedClampedAtZero(t *testing.T) {
	// A pending student past due is overdue but not billable, so the overdue
	// amount exceeds the predicted total.
	students := []models.Student{
		{ID: "p", Status: models.StudentPending, MonthlyFee: fee(500), DueDay: intPtr(1)},
		{ID: "a", Status: models.StudentActive, MonthlyFee: fee(100), DueDay: intPtr(28)},
	}
	stats, _ := Aggregate(students, nil, nil, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	assertDecimal(t, 100, stats.TotalPredicted)
	assert.Equal(t, 1, stats.OverduePayments)
	assertDecimal(t, 0, stats.TotalRealized)
}

func TestAggregateEveryDueDayHasOneBucket(t *testing.T) {
	for day := 1; day <= 31; day++ {
		students := []models.Student{{ID: "s", Status: models.StudentActive, MonthlyFee: fee(10), DueDay: intPtr(day)}}
		_, chart := Aggregate(students, nil, nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

		total := decimal.Zero
		hits := 0
		for _, point := range chart {
			if !point.Predicted.IsZero() {
				hits++
			}
			total = total.Add(point.Predicted)
		}
		assert.Equal(t, 1, hits, "day %d", day)
		assertDecimal(t, 10, total, "day %d", day)
	}
}

func TestAggregateOutOfRangeDueDaySkipsChart(t *testing.T) {
	students := []models.Student{{ID: "s", Status: models.StudentActive, MonthlyFee: fee(90), DueDay: intPtr(32)}}
	stats, chart := Aggregate(students, nil, nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	assertDecimal(t, 90, stats.TotalPredicted)
	for _, point := range chart {
		assertDecimal(t, 0, point.Predicted)
		assertDecimal(t, 0, point.Realized)
	}
}

func TestAggregateTotalRealizedMatchesFormula(t *testing.T) {
	students := []models.Student{
		{ID: "1", Status: models.StudentActive, MonthlyFee: fee(100), DueDay: intPtr(3)},
		{ID: "2", Status: models.StudentActive, MonthlyFee: fee(80), DueDay: intPtr(30)},
		{ID: "3", Status: models.StudentPaymentIssue, MonthlyFee: fee(70), DueDay: intPtr(12)},
		{ID: "4", Status: models.StudentActive, DueDay: intPtr(8)},
	}
	ref := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	stats, _ := Aggregate(students, NewPaidSet("4"), nil, ref)

	// Overdue: 1 (day 3 < 10) and 3 (flag). Predicted 100+80+70+150.
	assertDecimal(t, 400, stats.TotalPredicted)
	assert.Equal(t, 2, stats.OverduePayments)
	assertDecimal(t, 230, stats.TotalRealized)
}
