package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"backend/internal/config"
)

// Mailer sends transactional mail over SMTP. When no SMTP credentials are
// configured the messages are logged and dropped, so local runs never block
// on a mail server.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.cfg.Email == "" || m.cfg.Password == "" {
		log.Printf("mailer disabled, skipping %q to %s", subject, to)
		return nil
	}

	msg := []byte("From: " + m.cfg.FromName + " <" + m.cfg.FromEmail + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg)
}

// SendWelcome greets a newly created end user.
func (m *Mailer) SendWelcome(to, name string) error {
	body := fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Your account has been created. You can now browse and list properties.</p>`, name)
	return m.send(to, "Welcome aboard", body)
}

// SendPasswordReset delivers a reset link with the raw token.
func (m *Mailer) SendPasswordReset(to, name, resetURL string) error {
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>We received a request to reset your password. The link below is valid for 10 minutes:</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>`, name, resetURL)
	return m.send(to, "Password reset request", body)
}

// SendPropertyApproved notifies an owner that a listing passed verification.
func (m *Mailer) SendPropertyApproved(to, name, propertyTitle string) error {
	body := fmt.Sprintf(`<h2>Good news, %s!</h2>
<p>Your property <strong>%s</strong> has been verified and approved.</p>`, name, propertyTitle)
	return m.send(to, "Your property has been approved", body)
}

// SendPropertyRejected notifies an owner of a failed verification.
func (m *Mailer) SendPropertyRejected(to, name, propertyTitle, reason string) error {
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>Your property <strong>%s</strong> could not be approved.</p>
<p>Reason: %s</p>
<p>Please update the listing and resubmit it for verification.</p>`, name, propertyTitle, reason)
	return m.send(to, "Your property listing needs changes", body)
}
