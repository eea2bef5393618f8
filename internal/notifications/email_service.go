package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strconv"
	"time"
)

// EmailService interface for sending booking-event emails
type EmailService interface {
	SendBookingEvent(ctx context.Context, event *BookingEvent) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// NewSMTPConfigFromEnv creates SMTP config from environment variables
func NewSMTPConfigFromEnv() *SMTPConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	timeout, _ := time.ParseDuration(os.Getenv("SMTP_TIMEOUT"))
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &SMTPConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      port,
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: os.Getenv("FROM_EMAIL"),
		FromName:  "Ticketly",
		UseTLS:    true,
		Timeout:   timeout,
	}
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config *SMTPConfig
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	return &SMTPEmailService{config: config}, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}

	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}

	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}

	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}

	if config.Password == "" {
		return fmt.Errorf("SMTP password is required")
	}

	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}

	return nil
}

// SendBookingEvent renders and sends the email for a booking lifecycle event
func (s *SMTPEmailService) SendBookingEvent(ctx context.Context, event *BookingEvent) error {
	log.Printf("📧 [SMTP] Sending %s notification to %s", event.Type, event.RecipientEmail)

	subject, htmlBody, textBody := renderBookingEvent(event)
	return s.SendHTML(ctx, event.RecipientEmail, subject, htmlBody, textBody)
}

// SendHTML sends an HTML email
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 [SMTP] Email sent successfully to %s", to)
	return nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption (recommended for Gmail)
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write(message)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates the email message with proper headers
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%s", boundary)

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n"

	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n"
		message += "\r\n"
		message += textBody + "\r\n"
	}

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n"
		message += "\r\n"
		message += htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(message)
}

// renderBookingEvent builds subject and body for each booking lifecycle event
func renderBookingEvent(event *BookingEvent) (subject, htmlBody, textBody string) {
	switch event.Type {
	case BookingEventConfirmed:
		subject = fmt.Sprintf("Booking %s confirmed", event.BookingRef)
		htmlBody = fmt.Sprintf(`
			<h2>✅ Booking Confirmed</h2>
			<p>Your booking <strong>%s</strong> has been confirmed!</p>
			<p>Quantity: %d tickets</p>
			<p>Total Amount: $%.2f</p>
			<p>Best regards,<br>Ticketly Team</p>
		`, event.BookingRef, event.Quantity, event.TotalAmount)
		textBody = fmt.Sprintf(
			"Your booking %s has been confirmed!\nQuantity: %d tickets\nTotal Amount: $%.2f\n\nBest regards,\nTicketly Team",
			event.BookingRef, event.Quantity, event.TotalAmount)

	case BookingEventCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", event.BookingRef)
		htmlBody = fmt.Sprintf(`
			<h2>Booking Cancelled</h2>
			<p>Your booking <strong>%s</strong> has been cancelled and the seats released.</p>
			<p>Best regards,<br>Ticketly Team</p>
		`, event.BookingRef)
		textBody = fmt.Sprintf(
			"Your booking %s has been cancelled and the seats released.\n\nBest regards,\nTicketly Team",
			event.BookingRef)

	case BookingEventRefunded:
		subject = fmt.Sprintf("Booking %s refunded", event.BookingRef)
		htmlBody = fmt.Sprintf(`
			<h2>Booking Refunded</h2>
			<p>Your booking <strong>%s</strong> has been cancelled and a refund of $%.2f initiated.</p>
			<p>Best regards,<br>Ticketly Team</p>
		`, event.BookingRef, event.TotalAmount)
		textBody = fmt.Sprintf(
			"Your booking %s has been cancelled and a refund of $%.2f initiated.\n\nBest regards,\nTicketly Team",
			event.BookingRef, event.TotalAmount)

	case BookingEventPaymentFailed:
		subject = fmt.Sprintf("Payment failed for booking %s", event.BookingRef)
		htmlBody = fmt.Sprintf(`
			<h2>Payment Failed</h2>
			<p>The payment for booking <strong>%s</strong> did not go through.</p>
			<p>Your seats are still held. Please retry the payment to confirm the booking.</p>
			<p>Best regards,<br>Ticketly Team</p>
		`, event.BookingRef)
		textBody = fmt.Sprintf(
			"The payment for booking %s did not go through.\nYour seats are still held. Please retry the payment to confirm the booking.\n\nBest regards,\nTicketly Team",
			event.BookingRef)

	default:
		subject = fmt.Sprintf("Update for booking %s", event.BookingRef)
		htmlBody = fmt.Sprintf(`
			<h2>%s</h2>
			<p>This is a notification about booking <strong>%s</strong>.</p>
			<p>Best regards,<br>Ticketly Team</p>
		`, event.Type, event.BookingRef)
		textBody = fmt.Sprintf(
			"This is a notification about booking %s.\n\nBest regards,\nTicketly Team",
			event.BookingRef)
	}

	return subject, htmlBody, textBody
}

type MockEmailService struct{}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SendBookingEvent logs a mock notification
func (s *MockEmailService) SendBookingEvent(ctx context.Context, event *BookingEvent) error {
	log.Printf("📧 [MOCK] Sending %s notification to %s for booking %s",
		event.Type, event.RecipientEmail, event.BookingRef)
	return nil
}

// SendHTML logs a mock HTML email
func (s *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("📧 [MOCK] To: %s, Subject: %s", to, subject)
	return nil
}
