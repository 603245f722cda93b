package services

import (
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"
)

// MailService sends notification emails to customers. Sending is
// synchronous send-or-fail; callers treat failures as non-fatal.
type MailService interface {
	Send(toEmail, subject, htmlBody string) error
}

// notificationTemplate wraps every message body in the portal's layout
const notificationTemplate = `
<html>
    <body style="font-family: Arial, sans-serif;">
        <div style="background-color: #f5f5f5; padding: 20px;">
            <div style="background-color: white; border-radius: 5px; padding: 20px; max-width: 600px; margin: 0 auto;">
                <h2 style="color: #4a6fa5;">Hardware Support Notification</h2>
                <div style="margin: 15px 0;">
                    %s
                </div>
                <p style="color: #666; font-size: 12px;">
                    This is an automated message. Please do not reply directly.
                </p>
            </div>
        </div>
    </body>
</html>`

// SMTPMailService implements MailService over SMTP with STARTTLS
type SMTPMailService struct {
	server   string
	port     int
	user     string
	password string
}

var mailServiceInstance MailService

// InitMailService initializes the mail service with the SMTP relay settings
func InitMailService(server, port, user, password string) (MailService, error) {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", port, err)
	}

	mailServiceInstance = &SMTPMailService{
		server:   server,
		port:     portNum,
		user:     user,
		password: password,
	}
	return mailServiceInstance, nil
}

// GetMailService returns the initialized mail service instance
func GetMailService() MailService {
	return mailServiceInstance
}

// SetMailService sets the mail service instance (primarily for testing)
func SetMailService(service MailService) {
	mailServiceInstance = service
}

// Send delivers one HTML notification to the recipient
func (s *SMTPMailService) Send(toEmail, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.user); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(notificationTemplate, htmlBody))

	client, err := mail.NewClient(s.server,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.user),
		mail.WithPassword(s.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
