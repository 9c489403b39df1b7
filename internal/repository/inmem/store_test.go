package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaidStudentIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.CreateStudent(ctx, &models.Student{ID: id, UserID: "u", Name: id}))
	}

	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inFeb := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	inJan := time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)

	payments := []models.Payment{
		{ID: "1", UserID: "u", StudentID: "a", Status: models.PaymentPaid, PaidAt: &inFeb},
		{ID: "2", UserID: "u", StudentID: "a", Status: models.PaymentPaid, PaidAt: &inFeb},
		{ID: "3", UserID: "u", StudentID: "b", Status: models.PaymentPaid, PaidAt: &inJan, ReferenceMonth: &feb},
		{ID: "4", UserID: "u", StudentID: "c", Status: models.PaymentPending, ReferenceMonth: &feb},
		{ID: "5", UserID: "u", StudentID: "d", Status: models.PaymentPaid, PaidAt: &inJan},
	}
	for i := range payments {
		require.NoError(t, s.CreatePayment(ctx, &payments[i]))
	}

	ids, err := s.PaidStudentIDs(ctx, "u", feb, mar)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = s.PaidStudentIDs(ctx, "other", feb, mar)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestConfirmPaymentReactivatesOnTuition(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	st := &models.Student{ID: "s", UserID: "u", Name: "S", Status: models.StudentPaymentIssue}
	require.NoError(t, s.CreateStudent(ctx, st))
	require.NoError(t, s.CreatePayment(ctx, &models.Payment{
		ID: "p", UserID: "u", StudentID: "s", Amount: decimal.NewFromInt(150),
		Status: models.PaymentPending, Type: models.PaymentTuition,
	}))
	require.NoError(t, s.CreatePayment(ctx, &models.Payment{
		ID: "q", UserID: "u", StudentID: "s", Amount: decimal.NewFromInt(40),
		Status: models.PaymentPending, Type: models.PaymentProduct,
	}))

	_, err := s.ConfirmPayment(ctx, "u", "q", "cash", time.Now())
	require.NoError(t, err)
	got, err := s.GetStudent(ctx, "u", "s")
	require.NoError(t, err)
	assert.Equal(t, models.StudentPaymentIssue, got.Status)

	paidAt := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	p, err := s.ConfirmPayment(ctx, "u", "p", "pix", paidAt)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)

	got, err = s.GetStudent(ctx, "u", "s")
	require.NoError(t, err)
	assert.Equal(t, models.StudentActive, got.Status)
	require.NotNil(t, got.LastPaymentDate)
	assert.Equal(t, paidAt, *got.LastPaymentDate)

	_, err = s.ConfirmPayment(ctx, "other", "p", "pix", paidAt)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListStudentsPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, name := range []string{"Ana", "Bruno", "Carla", "Diego", "anderson"} {
		require.NoError(t, s.CreateStudent(ctx, &models.Student{ID: name, UserID: "u", Name: name, Status: models.StudentActive}))
	}

	page, total, err := s.ListStudents(ctx, "u", models.StudentFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Carla", page[0].Name)

	page, total, err = s.ListStudents(ctx, "u", models.StudentFilter{Search: "AN", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 2)

	_, total, err = s.ListStudents(ctx, "u", models.StudentFilter{Search: "_", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	page, total, err = s.ListStudents(ctx, "u", models.StudentFilter{Page: 9, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

func TestConfirmPaymentRejectsPaidPayment(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreateStudent(ctx, &models.Student{ID: "s", UserID: "u", Name: "S", Status: models.StudentActive}))
	require.NoError(t, s.CreatePayment(ctx, &models.Payment{
		ID: "p", UserID: "u", StudentID: "s", Amount: decimal.NewFromInt(150),
		Status: models.PaymentPending, Type: models.PaymentTuition,
	}))

	jan := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	_, err := s.ConfirmPayment(ctx, "u", "p", "pix", jan)
	require.NoError(t, err)

	_, err = s.ConfirmPayment(ctx, "u", "p", "cash", mar)
	assert.ErrorIs(t, err, models.ErrConflict)

	payments, err := s.ListStudentPayments(ctx, "u", "s")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.NotNil(t, payments[0].PaidAt)
	assert.Equal(t, jan, *payments[0].PaidAt)
	assert.Equal(t, "pix", payments[0].Method)

	ids, err := s.PaidStudentIDs(ctx, "u", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
