package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"ministore/config"
	"ministore/core/utils"
)

var ErrMissingFields = errors.New("all fields are required")

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return ErrMissingFields
	}
	return nil
}

// Email is the provider-neutral message handed to a Sender.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, email Email) error
}

type Mailer struct {
	sender Sender
	from   string
	to     []string
	logger *utils.Logger
}

// New picks the Resend sender when an API key is configured. Without one the
// mailer runs in simulated mode and only logs the message.
func New(cfg config.MailConfig, logger *utils.Logger) *Mailer {
	var sender Sender
	if key := strings.TrimSpace(cfg.ResendAPIKey); key != "" {
		sender = &resendSender{client: resend.NewClient(key)}
	}
	return NewWithSender(sender, cfg.From, cfg.To, logger)
}

func NewWithSender(sender Sender, from, to string, logger *utils.Logger) *Mailer {
	m := &Mailer{sender: sender, from: strings.TrimSpace(from), logger: logger}
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			m.to = append(m.to, addr)
		}
	}
	return m
}

func (m *Mailer) Simulated() bool {
	return m == nil || m.sender == nil || len(m.to) == 0
}

// SendContact delivers a storefront contact message. simulated reports that
// nothing left the process.
func (m *Mailer) SendContact(ctx context.Context, msg ContactMessage) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, err
	}
	if m.Simulated() {
		m.logger.Printf("mail simulated: contact from %q <%s> (%d chars)", msg.Name, msg.Email, len(msg.Message))
		return true, nil
	}
	email := Email{
		From:    m.from,
		To:      m.to,
		Subject: "New enquiry: " + strings.TrimSpace(msg.Name),
		HTML:    contactHTML(msg),
	}
	if err := m.sender.Send(ctx, email); err != nil {
		m.logger.Errorf("mail send failed: %v", err)
		return false, fmt.Errorf("send contact mail: %w", err)
	}
	return false, nil
}

func contactHTML(msg ContactMessage) string {
	var b strings.Builder
	b.WriteString("<p><strong>Name:</strong> ")
	b.WriteString(html.EscapeString(msg.Name))
	b.WriteString("</p>\n<p><strong>Email:</strong> ")
	b.WriteString(html.EscapeString(msg.Email))
	b.WriteString("</p>\n<p><strong>Message:</strong></p>\n<p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	b.WriteString("</p>\n")
	return b.String()
}

type resendSender struct {
	client *resend.Client
}

func (s *resendSender) Send(ctx context.Context, email Email) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	})
	return err
}
