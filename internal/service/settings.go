package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/academy-service/internal/models"
	"github.com/google/uuid"
)

// GetSettings retrieves the organization settings. ErrNotFound means the
// account still needs onboarding.
func (s *Service) GetSettings(ctx context.Context, userID string) (*models.OrganizationSettings, error) {
	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, models.ErrNotFound
	}
	return settings, nil
}

// UpdateSettings creates or replaces the organization settings
func (s *Service) UpdateSettings(ctx context.Context, userID string, in models.SettingsInput) (*models.OrganizationSettings, error) {
	in.SchoolName = strings.TrimSpace(in.SchoolName)
	in.CurrencySymbol = strings.TrimSpace(in.CurrencySymbol)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	if in.DefaultMonthlyFee.IsNegative() {
		return nil, fmt.Errorf("%w: default_monthly_fee must not be negative", models.ErrInvalidInput)
	}

	current, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings := &models.OrganizationSettings{
		ID:                uuid.New().String(),
		UserID:            userID,
		SchoolName:        in.SchoolName,
		DefaultMonthlyFee: in.DefaultMonthlyFee,
		DefaultDueDay:     in.DefaultDueDay,
		CurrencySymbol:    in.CurrencySymbol,
	}
	if current != nil {
		settings.ID = current.ID
	}
	if err := s.store.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.log.Infof("Settings saved for user %s", userID)
	return settings, nil
}
