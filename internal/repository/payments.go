package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
)

const paymentColumns = `id, user_id, student_id, amount, status, type, payment_method, description,
	reference_month, paid_at, created_at`

func scanPayment(row rowScanner, p *models.Payment) error {
	return row.Scan(&p.ID, &p.UserID, &p.StudentID, &p.Amount, &p.Status, &p.Type, &p.Method,
		&p.Description, &p.ReferenceMonth, &p.PaidAt, &p.CreatedAt)
}

// PaidStudentIDs retrieves the distinct students with a paid payment whose
// paid_at or reference_month falls in [from, to)
func (r *Repository) PaidStudentIDs(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT student_id
		FROM academy.payments
		WHERE user_id = $1
			AND status = 'paid'
			AND ((paid_at >= $2 AND paid_at < $3)
				OR (reference_month >= $4::date AND reference_month < $5::date))`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list paid students: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan paid student: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list paid students: %w", err)
	}
	return ids, nil
}

// ListStudentPayments retrieves a student's payments, newest first
func (r *Repository) ListStudentPayments(ctx context.Context, userID, studentID string) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM academy.payments
		WHERE user_id = $1 AND student_id = $2
		ORDER BY COALESCE(paid_at, created_at) DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// CreatePayment creates a new payment in the database
func (r *Repository) CreatePayment(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO academy.payments
			(id, user_id, student_id, amount, status, type, payment_method, description, reference_month, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.StudentID, p.Amount, p.Status, p.Type,
		p.Method, p.Description, p.ReferenceMonth, p.PaidAt).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// ConfirmPayment marks a pending or overdue payment as paid. Tuition payments
// and payments that were overdue also put the student back to active. A paid
// payment is rejected with ErrConflict so its paid_at never moves.
func (r *Repository) ConfirmPayment(ctx context.Context, userID, paymentID, method string, paidAt time.Time) (*models.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := &models.Payment{}
	query := `SELECT ` + paymentColumns + `
		FROM academy.payments
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`
	err = scanPayment(tx.QueryRowContext(ctx, query, paymentID, userID), p)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if p.Status == models.PaymentPaid {
		return nil, fmt.Errorf("%w: payment already paid", models.ErrConflict)
	}
	reactivate := p.Type == models.PaymentTuition || p.Status == models.PaymentOverdue

	_, err = tx.ExecContext(ctx, `
		UPDATE academy.payments
		SET status = 'paid', payment_method = $1, paid_at = $2
		WHERE id = $3`, method, paidAt, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	if reactivate {
		_, err = tx.ExecContext(ctx, `
			UPDATE academy.students
			SET status = 'active', last_payment_date = $1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $2 AND user_id = $3`, paidAt, p.StudentID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to reactivate student: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	p.Status = models.PaymentPaid
	p.Method = method
	p.PaidAt = &paidAt
	return p, nil
}
