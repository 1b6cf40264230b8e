package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPNotifier sends mail through a single long-lived SMTP client.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

// NewSMTPNotifier dials nothing up front; the client connects per send.
func NewSMTPNotifier(host string, port int, username, password, from string) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client init: %w", err)
	}

	return &SMTPNotifier{client: client, from: from}, nil
}

// Send delivers a plain-text message. Errors are returned as-is; the service
// layer decides how a delivery failure maps into its error taxonomy.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
