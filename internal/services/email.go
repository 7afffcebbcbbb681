package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/resend/resend-go/v2"

	"github.com/mereck/giftwell/internal/config"
	"github.com/mereck/giftwell/internal/logging"
)

// Email represents an email to be sent
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailProvider is the interface for sending emails
type EmailProvider interface {
	Send(ctx context.Context, email *Email) error
}

// EmailService renders and delivers invitation emails. It satisfies
// EventInviteSender; the engines call it asynchronously and treat failures
// as non-fatal.
type EmailService struct {
	provider    EmailProvider
	fromAddress string
	fromName    string
}

// NewEmailService creates a new email service based on configuration
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	var provider EmailProvider

	switch cfg.Provider {
	case "resend":
		provider = NewResendProvider(cfg.ResendAPIKey, cfg.FromName, cfg.FromAddress)
	case "smtp":
		provider = NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.FromName, cfg.FromAddress)
	default:
		provider = NewConsoleProvider()
	}

	return &EmailService{
		provider:    provider,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

// NewEmailServiceWithProvider wires an explicit provider. Tests use it to
// capture sends.
func NewEmailServiceWithProvider(provider EmailProvider, fromName, fromAddress string) *EmailService {
	return &EmailService{
		provider:    provider,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

// SendEventInvite emails an invitation to join an event. The link either
// deep-links a registered user to the event or carries a single-use accept
// token for an email invitee; this layer does not care which.
func (s *EmailService) SendEventInvite(ctx context.Context, toEmail, inviterDisplayName, eventName, link string) error {
	inviter := template.HTMLEscapeString(inviterDisplayName)
	event := template.HTMLEscapeString(eventName)

	html, text := renderEventInviteEmail(inviter, event, link)

	return s.provider.Send(ctx, &Email{
		To:      toEmail,
		Subject: fmt.Sprintf("%s invited you to %s", inviterDisplayName, eventName),
		HTML:    html,
		Text:    text,
	})
}

// SendFriendInvite emails an invitation to connect as friends.
func (s *EmailService) SendFriendInvite(ctx context.Context, toEmail, inviterDisplayName, link string) error {
	inviter := template.HTMLEscapeString(inviterDisplayName)

	html, text := renderFriendInviteEmail(inviter, link)

	return s.provider.Send(ctx, &Email{
		To:      toEmail,
		Subject: fmt.Sprintf("%s wants to connect on Giftwell", inviterDisplayName),
		HTML:    html,
		Text:    text,
	})
}

// Email templates

func renderEventInviteEmail(inviter, event, link string) (html, text string) {
	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; font-size: 24px;">You're invited!</h1>

  <p>%s has invited you to join <strong>%s</strong> on Giftwell.</p>

  <a href="%s"
     style="display: inline-block; background: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">
    View Invitation
  </a>

  <p style="color: #666; font-size: 14px;">
    Or copy this link: %s
  </p>

  <p style="color: #666; font-size: 14px;">
    If you weren't expecting this invitation, you can safely ignore this email.
  </p>

  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
  <p style="color: #999; font-size: 12px;">Giftwell</p>
</body>
</html>`, inviter, event, link, link)

	text = fmt.Sprintf(`You're invited!

%s has invited you to join %s on Giftwell.

View the invitation:
%s

If you weren't expecting this invitation, you can safely ignore this email.

--
Giftwell`, inviter, event, link)

	return html, text
}

func renderFriendInviteEmail(inviter, link string) (html, text string) {
	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; font-size: 24px;">New friend request</h1>

  <p>%s wants to connect with you on Giftwell.</p>

  <a href="%s"
     style="display: inline-block; background: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">
    View Request
  </a>

  <p style="color: #666; font-size: 14px;">
    Or copy this link: %s
  </p>

  <p style="color: #666; font-size: 14px;">
    If you weren't expecting this, you can safely ignore this email.
  </p>

  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
  <p style="color: #999; font-size: 12px;">Giftwell</p>
</body>
</html>`, inviter, link, link)

	text = fmt.Sprintf(`New friend request

%s wants to connect with you on Giftwell.

View the request:
%s

If you weren't expecting this, you can safely ignore this email.

--
Giftwell`, inviter, link)

	return html, text
}

// ResendProvider sends emails using the Resend API
type ResendProvider struct {
	client *resend.Client
	from   string
}

func NewResendProvider(apiKey, fromName, fromAddress string) *ResendProvider {
	return &ResendProvider{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", fromName, fromAddress),
	}
}

func (p *ResendProvider) Send(ctx context.Context, email *Email) error {
	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	_, err := p.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("sending email via Resend: %w", err)
	}

	logging.Info("Email sent via Resend", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// SMTPProvider sends emails via SMTP (for Mailpit in local dev)
type SMTPProvider struct {
	host        string
	port        int
	fromName    string
	fromAddress string
}

func NewSMTPProvider(host string, port int, fromName, fromAddress string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, fromName: fromName, fromAddress: fromAddress}
}

func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", p.fromName, p.fromAddress))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.HTML)

	err := smtp.SendMail(addr, nil, p.fromAddress, []string{email.To}, buf.Bytes())
	if err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	logging.Info("Email sent via SMTP", map[string]interface{}{"to": email.To, "subject": email.Subject})
	return nil
}

// ConsoleProvider logs emails to console (for development)
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) Send(ctx context.Context, email *Email) error {
	logging.Info("=== EMAIL (Console Provider) ===", map[string]interface{}{"to": email.To, "subject": email.Subject})
	fmt.Printf("\n=== EMAIL ===\n")
	fmt.Printf("To: %s\n", email.To)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("---\n")
	fmt.Printf("%s\n", email.Text)
	fmt.Printf("=============\n\n")
	return nil
}
