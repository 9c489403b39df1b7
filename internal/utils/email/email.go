package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/academy-service/internal/config"
	"github.com/Dan9191/academy-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Digest is the content of an overdue digest email
type Digest struct {
	To             string
	Username       string
	ReferenceDate  time.Time
	CurrencySymbol string
	Overdue        []models.OverdueStudent
}

// SendOverdueDigest sends the academy owner the list of overdue students
func (s *Sender) SendOverdueDigest(d Digest) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{d.To}
	e.Subject = digestSubject(d)
	e.Text = []byte(digestBody(d))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send overdue digest to %s: %v", d.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", d.To, e.Subject)
	return nil
}

func digestSubject(d Digest) string {
	if len(d.Overdue) == 1 {
		return "1 student with overdue payment"
	}
	return fmt.Sprintf("%d students with overdue payments", len(d.Overdue))
}

func digestBody(d Digest) string {
	var b strings.Builder
	total := decimal.Zero
	for _, o := range d.Overdue {
		total = total.Add(o.Fee)
	}

	fmt.Fprintf(&b, "Dear %s,\n\n", d.Username)
	fmt.Fprintf(&b, "As of %s, %d student(s) are overdue, totalling %s %s:\n\n",
		d.ReferenceDate.Format("2006-01-02"), len(d.Overdue), d.CurrencySymbol, total.StringFixed(2))
	for _, o := range d.Overdue {
		reason := fmt.Sprintf("due on day %d", o.DueDay)
		if o.Student.Status == models.StudentPaymentIssue {
			reason = "flagged as payment issue"
		}
		fmt.Fprintf(&b, "- %s: %s %s (%s)\n", o.Student.Name, d.CurrencySymbol, o.Fee.StringFixed(2), reason)
	}
	b.WriteString("\nBest regards,\nAcademy Service")
	return b.String()
}
