package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Dan9191/academy-service/internal/models"
)

const studentColumns = `id, user_id, name, phone, belt, modality, status, monthly_fee, due_day,
	last_payment_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, s *models.Student) error {
	return row.Scan(&s.ID, &s.UserID, &s.Name, &s.Phone, &s.Belt, &s.Modality, &s.Status,
		&s.MonthlyFee, &s.DueDay, &s.LastPaymentDate, &s.CreatedAt, &s.UpdatedAt)
}

// studentWhere builds the WHERE condition of a student listing. The search
// text is matched as a literal, case-insensitive substring of the name.
func studentWhere(userID string, filter models.StudentFilter) (string, []any) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		where = append(where, fmt.Sprintf("position(lower($%d::text) in lower(name)) > 0", len(args)))
	}
	return strings.Join(where, " AND "), args
}

// ListStudents retrieves one page of students matching the filter and the
// total number of matches
func (r *Repository) ListStudents(ctx context.Context, userID string, filter models.StudentFilter) ([]models.Student, int, error) {
	cond, args := studentWhere(userID, filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM academy.students WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	args = append(args, filter.PerPage, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM academy.students
		WHERE %s
		ORDER BY name
		LIMIT $%d OFFSET $%d`, studentColumns, cond, len(args)-1, len(args))

	students, err := r.queryStudents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// AllStudents retrieves the full roster of an account
func (r *Repository) AllStudents(ctx context.Context, userID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + `
		FROM academy.students
		WHERE user_id = $1
		ORDER BY name`
	return r.queryStudents(ctx, query, userID)
}

func (r *Repository) queryStudents(ctx context.Context, query string, args ...any) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var s models.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// GetStudent retrieves a student by ID
func (r *Repository) GetStudent(ctx context.Context, userID, id string) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT ` + studentColumns + `
		FROM academy.students
		WHERE id = $1 AND user_id = $2`
	err := scanStudent(r.db.QueryRowContext(ctx, query, id, userID), s)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// CreateStudent creates a new student in the database
func (r *Repository) CreateStudent(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO academy.students
			(id, user_id, name, phone, belt, modality, status, monthly_fee, due_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Name, s.Phone, s.Belt, s.Modality,
		s.Status, s.MonthlyFee, s.DueDay).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// UpdateStudent overwrites the editable fields of a student
func (r *Repository) UpdateStudent(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE academy.students
		SET name = $1, phone = $2, belt = $3, modality = $4, status = $5,
			monthly_fee = $6, due_day = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8 AND user_id = $9
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, s.Name, s.Phone, s.Belt, s.Modality, s.Status,
		s.MonthlyFee, s.DueDay, s.ID, s.UserID).Scan(&s.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}
