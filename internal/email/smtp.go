package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/saloonly/booking-api/config"
	"github.com/saloonly/booking-api/pkg/circuitbreaker"
)

type smtpService struct {
	cfg     config.SMTPConfig
	dialer  *gomail.Dialer
	breaker *circuitbreaker.CircuitBreaker
}

// NewSMTPService builds the gomail-backed sender. When SMTP credentials
// are not configured it returns a no-op sender so environments without
// mail still book appointments.
func NewSMTPService(cfg config.SMTPConfig) Service {
	if cfg.User == "" || cfg.Password == "" {
		return noopService{}
	}
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "smtp",
			MaxFailures: 5,
			Timeout:     time.Minute,
		}),
	}
}

func (s *smtpService) SendBookingConfirmation(_ context.Context, payload ConfirmationPayload) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, "Saloonly")
	m.SetHeader("To", payload.ToEmail)
	m.SetHeader("Subject", fmt.Sprintf("Booking confirmed at %s", payload.EstablishmentName))
	m.SetBody("text/plain", confirmationBody(payload))

	// An unreachable SMTP host should not stall every booking for the
	// full dial timeout.
	err := s.breaker.Execute(func() error {
		return s.dialer.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func confirmationBody(p ConfirmationPayload) string {
	var b strings.Builder
	name := p.CustomerName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Your booking at %s with %s is confirmed.\n\n", p.EstablishmentName, p.CollaboratorName)
	if len(p.ServiceNames) > 0 {
		fmt.Fprintf(&b, "Services: %s\n\n", strings.Join(p.ServiceNames, ", "))
	}
	b.WriteString("Booked slots:\n")
	for _, slot := range p.Slots {
		fmt.Fprintf(&b, "  %s  %s - %s\n", slot.Date, slot.OpenTime, slot.CloseTime)
	}
	b.WriteString("\nSee you soon!\n")
	return b.String()
}

type noopService struct{}

func (noopService) SendBookingConfirmation(context.Context, ConfirmationPayload) error {
	return nil
}
