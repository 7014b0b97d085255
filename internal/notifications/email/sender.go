package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"pawmarket/pkg/logger"
)

// Sender delivers a single plain-text email.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	addr string
	from string
}

// NewSMTPSender talks plain SMTP without auth; the deployment fronts it with
// a local relay.
func NewSMTPSender(host, port, from string) Sender {
	return &smtpSender{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type logSender struct {
	log *logger.Logger
}

// NewLogSender logs instead of delivering. Used in development when no SMTP
// relay is configured.
func NewLogSender(log *logger.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(to, subject, body string) error {
	s.log.Info("email suppressed", "to", to, "subject", subject, "bytes", len(body))
	return nil
}
