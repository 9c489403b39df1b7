package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/academy-service/internal/config"
	"github.com/Dan9191/academy-service/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is the data-service surface the business logic relies on
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	ListStudents(ctx context.Context, userID string, filter models.StudentFilter) ([]models.Student, int, error)
	AllStudents(ctx context.Context, userID string) ([]models.Student, error)
	GetStudent(ctx context.Context, userID, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, s *models.Student) error
	UpdateStudent(ctx context.Context, s *models.Student) error

	PaidStudentIDs(ctx context.Context, userID string, from, to time.Time) ([]string, error)
	ListStudentPayments(ctx context.Context, userID, studentID string) ([]models.Payment, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	ConfirmPayment(ctx context.Context, userID, paymentID, method string, paidAt time.Time) (*models.Payment, error)

	GetSettings(ctx context.Context, userID string) (*models.OrganizationSettings, error)
	UpsertSettings(ctx context.Context, s *models.OrganizationSettings) error
}

// Service handles business logic
type Service struct {
	store    Store
	log      *logrus.Logger
	config   *config.Config
	validate *validator.Validate
	cache    *DashboardCache
	now      func() time.Time
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		log:      log,
		config:   cfg,
		validate: validator.New(),
		cache:    NewDashboardCache(),
		now:      time.Now,
	}
}

// Today returns the current time in the configured timezone
func (s *Service) Today() time.Time {
	return s.now().In(s.config.Location)
}

// ParseDate parses a YYYY-MM-DD date in the configured timezone
func (s *Service) ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, s.config.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrInvalidInput)
	}
	return t, nil
}

func (s *Service) validateStruct(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed on %s", models.ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return nil
}

// checkID rejects identifiers that cannot exist in the store
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrNotFound
	}
	return nil
}

func (s *Service) currencySymbol(settings *models.OrganizationSettings) string {
	if settings != nil && settings.CurrencySymbol != "" {
		return settings.CurrencySymbol
	}
	return s.config.CurrencySymbol
}
