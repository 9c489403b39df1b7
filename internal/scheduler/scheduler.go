package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/academy-service/internal/config"
	"github.com/Dan9191/academy-service/internal/models"
	"github.com/Dan9191/academy-service/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 2 * time.Minute

// Dashboards is the part of the service the jobs drive
type Dashboards interface {
	RefreshAll(ctx context.Context) (int, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	OverdueStudents(ctx context.Context, userID string, referenceDate time.Time) ([]models.OverdueStudent, string, error)
	Today() time.Time
}

// Notifier delivers overdue digests
type Notifier interface {
	SendOverdueDigest(d email.Digest) error
}

// Scheduler runs the periodic dashboard refresh and the overdue digest
type Scheduler struct {
	cron     *cron.Cron
	svc      Dashboards
	notifier Notifier
	log      *logrus.Logger
	ctx      context.Context
}

// New creates a scheduler with both jobs registered on the configured schedules
func New(cfg *config.Config, svc Dashboards, notifier Notifier, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		svc:      svc,
		notifier: notifier,
		log:      log,
		ctx:      context.Background(),
	}
	cronLog := cron.PrintfLogger(log)
	s.cron = cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	if _, err := s.cron.AddFunc(cfg.RefreshSchedule, s.runRefresh); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_SCHEDULE %q: %w", cfg.RefreshSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.ReminderSchedule, s.runDigests); err != nil {
		return nil, fmt.Errorf("invalid REMINDER_SCHEDULE %q: %w", cfg.ReminderSchedule, err)
	}
	return s, nil
}

// Start begins running jobs in the background. Jobs stop picking up work
// once ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()
	s.RefreshDashboards(ctx)
}

func (s *Scheduler) runDigests() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()
	s.SendOverdueDigests(ctx)
}

// RefreshDashboards recomputes every account's dashboard
func (s *Scheduler) RefreshDashboards(ctx context.Context) {
	n, err := s.svc.RefreshAll(ctx)
	if err != nil {
		s.log.WithError(err).Error("Dashboard refresh job failed")
		return
	}
	s.log.Infof("Dashboard refresh job done: %d account(s)", n)
}

// SendOverdueDigests emails every owner who has overdue students and
// returns the number of digests sent
func (s *Scheduler) SendOverdueDigests(ctx context.Context) int {
	users, err := s.svc.ListUsers(ctx)
	if err != nil {
		s.log.WithError(err).Error("Overdue digest job failed")
		return 0
	}

	today := s.svc.Today()
	sent := 0
	for _, u := range users {
		if ctx.Err() != nil {
			break
		}
		overdue, symbol, err := s.svc.OverdueStudents(ctx, u.ID, today)
		if err != nil {
			s.log.WithError(err).WithField("user_id", u.ID).Error("Failed to load overdue students")
			continue
		}
		if len(overdue) == 0 {
			continue
		}
		err = s.notifier.SendOverdueDigest(email.Digest{
			To:             u.Email,
			Username:       u.Username,
			ReferenceDate:  today,
			CurrencySymbol: symbol,
			Overdue:        overdue,
		})
		if err != nil {
			s.log.WithError(err).WithField("user_id", u.ID).Warn("Overdue digest not delivered")
			continue
		}
		sent++
	}
	return sent
}
