package email

import (
	"testing"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDigestBody(t *testing.T) {
	d := Digest{
		To:             "owner@dojo.test",
		Username:       "Sensei",
		ReferenceDate:  time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		CurrencySymbol: "R$",
		Overdue: []models.OverdueStudent{
			{Student: models.Student{Name: "Charlie", Status: models.StudentPaymentIssue}, Fee: decimal.NewFromInt(150), DueDay: 5},
			{Student: models.Student{Name: "Eve", Status: models.StudentActive}, Fee: decimal.RequireFromString("99.5"), DueDay: 10},
		},
	}

	body := digestBody(d)
	assert.Contains(t, body, "Dear Sensei,")
	assert.Contains(t, body, "As of 2024-02-15, 2 student(s) are overdue, totalling R$ 249.50")
	assert.Contains(t, body, "- Charlie: R$ 150.00 (flagged as payment issue)")
	assert.Contains(t, body, "- Eve: R$ 99.50 (due on day 10)")
	assert.Equal(t, "2 students with overdue payments", digestSubject(d))

	d.Overdue = d.Overdue[:1]
	assert.Equal(t, "1 student with overdue payment", digestSubject(d))
}
