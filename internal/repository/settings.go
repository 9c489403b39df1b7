package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/academy-service/internal/models"
)

// GetSettings retrieves the organization settings of an account. It returns
// nil without error when the account has not been onboarded yet.
func (r *Repository) GetSettings(ctx context.Context, userID string) (*models.OrganizationSettings, error) {
	s := &models.OrganizationSettings{}
	query := `
		SELECT id, user_id, school_name, default_monthly_fee, default_due_day, currency_symbol
		FROM academy.organization_settings
		WHERE user_id = $1
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.ID, &s.UserID, &s.SchoolName, &s.DefaultMonthlyFee, &s.DefaultDueDay, &s.CurrencySymbol)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// UpsertSettings creates or replaces the organization settings of an account
func (r *Repository) UpsertSettings(ctx context.Context, s *models.OrganizationSettings) error {
	query := `
		INSERT INTO academy.organization_settings
			(id, user_id, school_name, default_monthly_fee, default_due_day, currency_symbol)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET school_name = EXCLUDED.school_name,
			default_monthly_fee = EXCLUDED.default_monthly_fee,
			default_due_day = EXCLUDED.default_due_day,
			currency_symbol = EXCLUDED.currency_symbol
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.SchoolName, s.DefaultMonthlyFee,
		s.DefaultDueDay, s.CurrencySymbol).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
