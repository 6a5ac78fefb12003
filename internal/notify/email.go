// Package notify renders and delivers the HTML reminder email sent when a
// day passes without any GitHub activity.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/duckhq/duck/internal/config"
)

const reminderHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>DUCK: Activity Reminder</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9; }
    .container { background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); }
    .header { text-align: center; margin-bottom: 20px; }
    .logo { font-size: 2.5em; font-weight: bold; color: #e74c3c; margin-bottom: 10px; }
    h1 { color: #2c3e50; margin-top: 0; }
    .date { color: #7f8c8d; font-style: italic; margin-bottom: 25px; text-align: center; }
    .message { font-size: 1.1em; background-color: #f8f9fa; padding: 15px; border-left: 4px solid #e74c3c; margin-bottom: 20px; }
    .cta { text-align: center; margin: 30px 0; }
    .button { display: inline-block; background-color: #e74c3c; color: white; padding: 12px 25px; text-decoration: none; border-radius: 4px; font-weight: bold; }
    .footer { text-align: center; font-size: 0.8em; color: #95a5a6; margin-top: 30px; padding-top: 20px; border-top: 1px solid #ecf0f1; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="logo">DUCK</div>
      <h1>GitHub Activity Reminder</h1>
    </div>
    <div class="date">{{.Date}}</div>
    <div class="content">
      <p>Hello @{{.Username}},</p>
      <div class="message">{{.Message}}</div>
      <p>Maintaining a consistent GitHub contribution streak is important for:</p>
      <ul>
        <li>Building your developer portfolio</li>
        <li>Staying engaged with your projects</li>
        <li>Demonstrating your coding consistency</li>
        <li>Learning and growing your skills daily</li>
      </ul>
    </div>
    <div class="cta">
      <a href="https://github.com/{{.Username}}" class="button">View My GitHub Profile</a>
    </div>
    <div class="footer">
      <p>This is an automated message from DUCK (Daily User Commit Keeper).</p>
      <p>&copy; {{.Year}} DUCK - Stay Committed</p>
    </div>
  </div>
</body>
</html>
`

var reminderTemplate = template.Must(template.New("reminder").Parse(reminderHTML))

type reminderData struct {
	Username string
	Message  string
	Date     string
	Year     int
}

// RenderReminder produces the HTML body of the reminder for one user.
func RenderReminder(username, message string, now time.Time) (string, error) {
	var buf bytes.Buffer
	data := reminderData{
		Username: username,
		Message:  message,
		Date:     now.UTC().Format("2006-01-02"),
		Year:     now.UTC().Year(),
	}
	if err := reminderTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering reminder email: %w", err)
	}
	return buf.String(), nil
}

// Mailer delivers rendered reminders over SMTP.
type Mailer struct {
	smtp   config.SMTP
	logger *log.Logger
}

// NewMailer creates a Mailer from resolved SMTP settings.
func NewMailer(smtp config.SMTP, logger *log.Logger) *Mailer {
	return &Mailer{smtp: smtp, logger: logger}
}

// Send delivers one HTML email. STARTTLS is negotiated automatically when the
// server advertises it; UseSSL forces implicit TLS from the first byte.
func (m *Mailer) Send(subject, htmlBody string) error {
	if m.smtp.Recipient == "" {
		return fmt.Errorf("no recipient configured for reminder email")
	}
	sender := m.smtp.Sender
	if sender == "" {
		sender = m.smtp.Username
	}
	if sender == "" {
		sender = "duck@noreply.com"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", sender)
	msg.SetHeader("To", m.smtp.Recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.smtp.Host, m.smtp.Port, m.smtp.Username, m.smtp.Password)
	dialer.SSL = m.smtp.UseSSL

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending reminder email to %s: %w", m.smtp.Recipient, err)
	}
	m.logger.Printf("Successfully sent reminder email to %s", m.smtp.Recipient)
	return nil
}
