package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridMailer delivers mail through the SendGrid v3 API. Each send is
// bounded by its context.
type SendGridMailer struct {
	key    string
	host   string
	from   *sgmail.Email
	client *rest.Client
}

// NewSendGridMailer creates a SendGrid mailer. An empty host uses the
// public API.
func NewSendGridMailer(key, fromName, fromAddress, host string) *SendGridMailer {
	if host == "" {
		host = sendgridHost
	}
	return &SendGridMailer{
		key:    key,
		host:   host,
		from:   sgmail.NewEmail(fromName, fromAddress),
		client: &rest.Client{HTTPClient: &http.Client{}},
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := m.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send mail: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)
	return v3
}
