package service

import (
	"context"
	"time"

	"github.com/Dan9191/academy-service/internal/financial"
	"github.com/Dan9191/academy-service/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type snapshot struct {
	settings *models.OrganizationSettings
	students []models.Student
	paid     financial.PaidSet
}

// loadSnapshot fetches settings, roster and the paid-this-month set in
// parallel and joins them
func (s *Service) loadSnapshot(ctx context.Context, userID string, referenceDate time.Time) (*snapshot, error) {
	from, to := financial.MonthBounds(referenceDate)
	snap := &snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings, err := s.store.GetSettings(gctx, userID)
		snap.settings = settings
		return err
	})
	g.Go(func() error {
		students, err := s.store.AllStudents(gctx, userID)
		snap.students = students
		return err
	})
	g.Go(func() error {
		ids, err := s.store.PaidStudentIDs(gctx, userID, from, to)
		snap.paid = financial.NewPaidSet(ids...)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Dashboard computes the dashboard of an account as of referenceDate. Only a
// dashboard for the current month is recorded as the account's latest one.
func (s *Service) Dashboard(ctx context.Context, userID string, referenceDate time.Time) (*models.Dashboard, error) {
	ticket := s.cache.Begin()

	snap, err := s.loadSnapshot(ctx, userID, referenceDate)
	if err != nil {
		return nil, err
	}

	stats, chart := financial.Aggregate(snap.students, snap.paid, snap.settings, referenceDate)
	d := &models.Dashboard{
		Stats:          stats,
		ChartData:      chart,
		ReferenceDate:  referenceDate,
		CurrencySymbol: s.currencySymbol(snap.settings),
	}

	if sameMonth(referenceDate, s.Today()) && !s.cache.Store(userID, ticket, d) {
		s.log.WithField("user_id", userID).Debug("Discarded superseded dashboard refresh")
	}
	s.log.WithFields(logrus.Fields{
		"user_id":         userID,
		"active_students": stats.ActiveStudents,
		"overdue":         stats.OverduePayments,
		"predicted":       stats.TotalPredicted.StringFixed(2),
		"realized":        stats.TotalRealized.StringFixed(2),
	}).Info("Dashboard refreshed")
	return d, nil
}

func sameMonth(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// LatestDashboard returns the most recent dashboard computed for an account
func (s *Service) LatestDashboard(userID string) (*models.Dashboard, error) {
	d, ok := s.cache.Latest(userID)
	if !ok {
		return nil, models.ErrNotFound
	}
	return d, nil
}

// OverdueStudents lists the students of an account that are overdue as of
// referenceDate
func (s *Service) OverdueStudents(ctx context.Context, userID string, referenceDate time.Time) ([]models.OverdueStudent, string, error) {
	snap, err := s.loadSnapshot(ctx, userID, referenceDate)
	if err != nil {
		return nil, "", err
	}
	return financial.OverdueStudents(snap.students, snap.paid, snap.settings, referenceDate), s.currencySymbol(snap.settings), nil
}

// RefreshAll recomputes the dashboard of every account. Failures are logged
// and skipped; the number of refreshed accounts is returned.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, u := range users {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := s.Dashboard(ctx, u.ID, s.Today()); err != nil {
			s.log.WithError(err).WithField("user_id", u.ID).Error("Failed to refresh dashboard")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// ListUsers returns every account
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}
