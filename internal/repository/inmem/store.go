// Package inmem is a process-local store with the same semantics as the
// postgres repository. It backs tests and DB_CONN=memory runs.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/academy-service/internal/models"
)

// Store keeps every table in memory
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	students map[string]models.Student
	payments map[string]models.Payment
	settings map[string]models.OrganizationSettings // by user ID
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]models.User),
		students: make(map[string]models.Student),
		payments: make(map[string]models.Payment),
		settings: make(map[string]models.OrganizationSettings),
		now:      time.Now,
	}
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.ErrAlreadyExists
		}
	}
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) ListStudents(ctx context.Context, userID string, filter models.StudentFilter) ([]models.Student, int, error) {
	all, _ := s.AllStudents(ctx, userID)
	search := strings.ToLower(filter.Search)
	matched := make([]models.Student, 0, len(all))
	for _, st := range all {
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		matched = append(matched, st)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Store) AllStudents(_ context.Context, userID string) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	students := make([]models.Student, 0)
	for _, st := range s.students {
		if st.UserID == userID {
			students = append(students, st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (s *Store) GetStudent(_ context.Context, userID, id string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.students[id]
	if !ok || st.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &st, nil
}

func (s *Store) CreateStudent(_ context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.CreatedAt = s.now()
	st.UpdatedAt = st.CreatedAt
	s.students[st.ID] = *st
	return nil
}

func (s *Store) UpdateStudent(_ context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.students[st.ID]
	if !ok || cur.UserID != st.UserID {
		return models.ErrNotFound
	}
	st.UpdatedAt = s.now()
	s.students[st.ID] = *st
	return nil
}

func (s *Store) PaidStudentIDs(_ context.Context, userID string, from, to time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var ids []string
	for _, p := range s.payments {
		if p.UserID != userID || p.Status != models.PaymentPaid || seen[p.StudentID] {
			continue
		}
		inMonth := p.PaidAt != nil && !p.PaidAt.Before(from) && p.PaidAt.Before(to)
		if !inMonth && p.ReferenceMonth != nil {
			inMonth = !p.ReferenceMonth.Before(from) && p.ReferenceMonth.Before(to)
		}
		if inMonth {
			seen[p.StudentID] = true
			ids = append(ids, p.StudentID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) ListStudentPayments(_ context.Context, userID, studentID string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payments := make([]models.Payment, 0)
	for _, p := range s.payments {
		if p.UserID == userID && p.StudentID == studentID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return paymentTime(payments[i]).After(paymentTime(payments[j]))
	})
	return payments, nil
}

func paymentTime(p models.Payment) time.Time {
	if p.PaidAt != nil {
		return *p.PaidAt
	}
	return p.CreatedAt
}

func (s *Store) CreatePayment(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.students[p.StudentID]; !ok || st.UserID != p.UserID {
		return models.ErrNotFound
	}
	p.CreatedAt = s.now()
	s.payments[p.ID] = *p
	return nil
}

func (s *Store) ConfirmPayment(_ context.Context, userID, paymentID, method string, paidAt time.Time) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok || p.UserID != userID {
		return nil, models.ErrNotFound
	}
	if p.Status == models.PaymentPaid {
		return nil, fmt.Errorf("%w: payment already paid", models.ErrConflict)
	}
	reactivate := p.Type == models.PaymentTuition || p.Status == models.PaymentOverdue

	p.Status = models.PaymentPaid
	p.Method = method
	p.PaidAt = &paidAt
	s.payments[paymentID] = p

	if st, ok := s.students[p.StudentID]; ok && reactivate {
		st.Status = models.StudentActive
		st.LastPaymentDate = &paidAt
		st.UpdatedAt = s.now()
		s.students[st.ID] = st
	}
	return &p, nil
}

func (s *Store) GetSettings(_ context.Context, userID string) (*models.OrganizationSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[userID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (s *Store) UpsertSettings(_ context.Context, settings *models.OrganizationSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.settings[settings.UserID]; ok {
		settings.ID = cur.ID
	}
	s.settings[settings.UserID] = *settings
	return nil
}
