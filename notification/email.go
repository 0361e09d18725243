package notification

import (
	"fmt"
	"io"

	"github.com/go-gomail/gomail"
	"go.uber.org/zap"

	"hospital-connect/configuration"
)

// Mailer delivers transactional mail (OTP codes, booking confirmations,
// prescription PDFs). It is an optional collaborator: when SMTP is not
// configured every send becomes a logged no-op.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	log      *zap.Logger
}

func NewMailer(cfg *configuration.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPEmail,
		password: cfg.SMTPPassword,
		log:      log,
	}
}

func (m *Mailer) Enabled() bool { return m.from != "" }

func (m *Mailer) Send(to, subject, body string) error {
	return m.send(to, subject, body, "", nil)
}

func (m *Mailer) SendWithAttachment(to, subject, body, filename string, data []byte) error {
	return m.send(to, subject, body, filename, data)
}

func (m *Mailer) SendOTP(to, otp string) error {
	return m.Send(to, "Hospital Connect verification code", fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", otp))
}

func (m *Mailer) send(to, subject, body, filename string, data []byte) error {
	if !m.Enabled() {
		m.log.Debug("mailer disabled, dropping message", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if filename != "" {
		msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
