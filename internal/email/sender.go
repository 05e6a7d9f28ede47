package email

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"mlb_today/pipeline/internal/metrics"
)

// Sender delivers HTML mail over SMTP
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender creates an SMTP sender
func NewSender(host string, port int, user, password, from string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send dispatches one HTML email. CC is optional.
func (s *Sender) Send(subject, htmlBody string, to, cc []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	if len(cc) > 0 {
		m.SetHeader("Cc", cc...)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send email: %w", err)
	}

	metrics.EmailsSentTotal.WithLabelValues("ok").Inc()
	log.Info().Int("recipients", len(to)).Str("subject", subject).Msg("Email sent")
	return nil
}
