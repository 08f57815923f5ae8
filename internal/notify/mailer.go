// Package notify sends the confirmation mail that follows a registration.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/mail"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// Message is a plain text and HTML mail to one recipient
type Message struct {
	To          mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationMessage builds the mail sent to a new registrant
func ConfirmationMessage(r models.Registrant) Message {
	name := r.FirstName + " " + r.LastName
	text := fmt.Sprintf(
		"Bonjour %s,\n\nMerci! We received your registration for %s (level %s, %s).\nWe will contact you shortly.\n\nFrenchCercle",
		r.FirstName, r.CourseInterest, r.Level, modeLabel(r.Mode),
	)
	html := fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Merci! We received your registration for <strong>%s</strong> (level %s, %s).<br>We will contact you shortly.</p><p>FrenchCercle</p>",
		escape(r.FirstName), escape(r.CourseInterest), escape(r.Level), modeLabel(r.Mode),
	)
	return Message{
		To:          mail.Address{Name: name, Address: r.Email},
		Subject:     "Merci! Your registration is confirmed",
		TextContent: text,
		HTMLContent: html,
	}
}

func modeLabel(m models.Mode) string {
	if m == models.ModeInPerson {
		return "in person"
	}
	return "online via Zoom"
}

func escape(s string) string {
	return html.EscapeString(s)
}

// Notifier sends confirmations in the background
type Notifier struct {
	mailer  Mailer
	logger  *slog.Logger
	timeout time.Duration
}

// NewNotifier creates a notifier over mailer
func NewNotifier(mailer Mailer, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{mailer: mailer, logger: logger, timeout: 15 * time.Second}
}

// Registered queues the confirmation for r. Delivery failures are logged
// and never reach the registrant.
func (n *Notifier) Registered(r models.Registrant) {
	if r.Email == "" {
		return
	}
	msg := ConfirmationMessage(r)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.mailer.Send(ctx, msg); err != nil {
			n.logger.Error("failed to send confirmation mail", "registrant_id", r.ID, "error", err)
			return
		}
		n.logger.Info("confirmation mail sent", "registrant_id", r.ID)
	}()
}
