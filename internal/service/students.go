package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/academy-service/internal/financial"
	"github.com/Dan9191/academy-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func (s *Service) validateStudent(in *models.StudentInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validateStruct(in); err != nil {
		return err
	}
	if in.MonthlyFee != nil && in.MonthlyFee.IsNegative() {
		return fmt.Errorf("%w: monthly_fee must not be negative", models.ErrInvalidInput)
	}
	return nil
}

func applyStudentInput(st *models.Student, in models.StudentInput) {
	st.Name = in.Name
	st.Phone = in.Phone
	st.Belt = in.Belt
	st.Modality = in.Modality
	if in.Status != "" {
		st.Status = in.Status
	}
	st.MonthlyFee = decimal.NullDecimal{}
	if in.MonthlyFee != nil {
		st.MonthlyFee = decimal.NewNullDecimal(*in.MonthlyFee)
	}
	st.DueDay = in.DueDay
}

// CreateStudent enrolls a new student
func (s *Service) CreateStudent(ctx context.Context, userID string, in models.StudentInput) (*models.Student, error) {
	if err := s.validateStudent(&in); err != nil {
		return nil, err
	}

	st := &models.Student{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: models.StudentActive,
	}
	applyStudentInput(st, in)
	if err := s.store.CreateStudent(ctx, st); err != nil {
		return nil, err
	}

	s.log.Infof("Student created for user %s: %s", userID, st.ID)
	return st, nil
}

// UpdateStudent replaces the editable fields of a student
func (s *Service) UpdateStudent(ctx context.Context, userID, id string, in models.StudentInput) (*models.Student, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.validateStudent(&in); err != nil {
		return nil, err
	}

	st, err := s.store.GetStudent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	applyStudentInput(st, in)
	if err := s.store.UpdateStudent(ctx, st); err != nil {
		return nil, err
	}

	s.log.Infof("Student updated for user %s: %s", userID, st.ID)
	return st, nil
}

// GetStudent retrieves a student
func (s *Service) GetStudent(ctx context.Context, userID, id string) (*models.Student, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.store.GetStudent(ctx, userID, id)
}

// ListStudents retrieves one page of students
func (s *Service) ListStudents(ctx context.Context, userID string, filter models.StudentFilter) (*models.StudentPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, filter.Status)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	filter.Search = strings.TrimSpace(filter.Search)

	students, total, err := s.store.ListStudents(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &models.StudentPage{
		Students: students,
		Total:    total,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
	}, nil
}

// StudentFinancial summarizes a student's payments and current standing as
// of referenceDate
func (s *Service) StudentFinancial(ctx context.Context, userID, id string, referenceDate time.Time) (*models.StudentFinancial, error) {
	st, err := s.GetStudent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListStudentPayments(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := financial.MonthBounds(referenceDate)
	summary := &models.StudentFinancial{
		Student:      *st,
		Payments:     payments,
		TotalPaid:    decimal.Zero,
		TotalPending: decimal.Zero,
		EffectiveFee: financial.EffectiveFee(*st, settings),
		DueDay:       financial.EffectiveDueDay(*st, settings),
	}
	paidThisMonth := false
	for _, p := range payments {
		switch p.Status {
		case models.PaymentPaid:
			summary.TotalPaid = summary.TotalPaid.Add(p.Amount)
			if paidWithin(p, from, to) {
				paidThisMonth = true
			}
		case models.PaymentPending, models.PaymentOverdue:
			summary.TotalPending = summary.TotalPending.Add(p.Amount)
		}
	}
	summary.Overdue = financial.IsOverdue(*st, paidThisMonth, settings, referenceDate.Day())
	return summary, nil
}

// paidWithin reports whether a paid payment counts for the month [from, to)
func paidWithin(p models.Payment, from, to time.Time) bool {
	if p.PaidAt != nil && !p.PaidAt.Before(from) && p.PaidAt.Before(to) {
		return true
	}
	if p.ReferenceMonth != nil {
		return p.ReferenceMonth.Year() == from.Year() && p.ReferenceMonth.Month() == from.Month()
	}
	return false
}
