package financial

import (
	"fmt"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/shopspring/decimal"
)

var weekRanges = [4][2]int{{1, 7}, {8, 14}, {15, 21}, {22, 31}}

func newChart() []models.ChartDataPoint {
	chart := make([]models.ChartDataPoint, len(weekRanges))
	for i, r := range weekRanges {
		chart[i] = models.ChartDataPoint{
			Name:      fmt.Sprintf("Week %d", i+1),
			Range:     r,
			Predicted: decimal.Zero,
			Realized:  decimal.Zero,
		}
	}
	return chart
}

// bucketIndex returns the chart bucket holding day, or -1 for days outside 1-31
func bucketIndex(day int) int {
	for i, r := range weekRanges {
		if day >= r[0] && day <= r[1] {
			return i
		}
	}
	return -1
}

// Aggregate computes the dashboard statistics and the four-week forecast
// chart for the roster as of referenceDate.
//
// Bucket realized values are local sums over non-overdue students that are
// active or paid. They are not reconciled with TotalRealized, which is the
// clamped difference predicted minus overdue; the two can diverge.
func Aggregate(students []models.Student, paid PaidSet, settings *models.OrganizationSettings, referenceDate time.Time) (models.DashboardStats, []models.ChartDataPoint) {
	day := referenceDate.Day()
	chart := newChart()

	var activeCount, overdueCount int
	predictedTotal := decimal.Zero
	overdueAmount := decimal.Zero

	for _, s := range students {
		fee := EffectiveFee(s, settings)
		bucket := bucketIndex(EffectiveDueDay(s, settings))
		isPaid := paid.Contains(s.ID)

		if s.Status == models.StudentActive {
			activeCount++
		}

		if s.Status.Billable() {
			predictedTotal = predictedTotal.Add(fee)
			if bucket >= 0 {
				chart[bucket].Predicted = chart[bucket].Predicted.Add(fee)
			}
		}

		if IsOverdue(s, isPaid, settings, day) {
			overdueCount++
			overdueAmount = overdueAmount.Add(fee)
			continue
		}
		if (s.Status == models.StudentActive || isPaid) && bucket >= 0 {
			chart[bucket].Realized = chart[bucket].Realized.Add(fee)
		}
	}

	for i := range chart {
		chart[i].Realized = decimal.Max(decimal.Zero, chart[i].Realized)
	}

	stats := models.DashboardStats{
		ActiveStudents:  activeCount,
		OverduePayments: overdueCount,
		TotalPredicted:  predictedTotal,
		TotalRealized:   decimal.Max(decimal.Zero, predictedTotal.Sub(overdueAmount)),
	}
	return stats, chart
}
