package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/google/uuid"
)

// CreatePayment registers a pending charge for a student
func (s *Service) CreatePayment(ctx context.Context, userID, studentID string, in models.PaymentInput) (*models.Payment, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}
	if _, err := s.GetStudent(ctx, userID, studentID); err != nil {
		return nil, err
	}

	p := &models.Payment{
		ID:          uuid.New().String(),
		UserID:      userID,
		StudentID:   studentID,
		Amount:      in.Amount,
		Status:      models.PaymentPending,
		Type:        in.Type,
		Description: in.Description,
	}
	if p.Type == "" {
		p.Type = models.PaymentTuition
	}
	if in.ReferenceMonth != "" {
		month, err := time.ParseInLocation("2006-01", in.ReferenceMonth, s.config.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: reference_month must be YYYY-MM", models.ErrInvalidInput)
		}
		p.ReferenceMonth = &month
	}

	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	s.log.Infof("Payment created for student %s: %s %s", studentID, p.Amount.StringFixed(2), p.Type)
	return p, nil
}

// ConfirmPayment settles a payment with the given method
func (s *Service) ConfirmPayment(ctx context.Context, userID, paymentID string, in models.ConfirmPaymentInput) (*models.Payment, error) {
	if err := checkID(paymentID); err != nil {
		return nil, err
	}
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	p, err := s.store.ConfirmPayment(ctx, userID, paymentID, in.Method, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Infof("Payment confirmed for student %s: %s via %s", p.StudentID, p.Amount.StringFixed(2), p.Method)
	return p, nil
}
