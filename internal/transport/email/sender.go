package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SenderConfig holds SMTP delivery settings.
type SenderConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Sender delivers composed emails over SMTP. Each send gets a generated
// Message-ID so replies can be matched back to it.
type Sender struct {
	config SenderConfig
}

func NewSender(config SenderConfig) *Sender {
	return &Sender{config: config}
}

// Send delivers the email and returns its Message-ID.
func (s *Sender) Send(ctx context.Context, subject, htmlBody, textBody string) (string, error) {
	messageID := s.newMessageID()

	msg := mail.NewMsg()
	if err := msg.From(s.config.From); err != nil {
		return "", fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(s.config.To); err != nil {
		return "", fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetMessageIDWithValue(messageID)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(s.config.Host,
		mail.WithPort(s.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return "", fmt.Errorf("creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("delivering email: %w", err)
	}

	return messageID, nil
}

// newMessageID generates an RFC 5322 msg-id using the sender's domain.
func (s *Sender) newMessageID() string {
	domainPart := "localhost"
	if at := strings.LastIndex(s.config.From, "@"); at >= 0 {
		domainPart = strings.Trim(s.config.From[at+1:], ">")
	}
	return fmt.Sprintf("%s@%s", uuid.NewString(), domainPart)
}
