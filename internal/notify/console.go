package notify

import (
	"context"
	"log/slog"
	"sync"
)

// ConsoleMailer logs messages instead of delivering them. Used when no
// SendGrid key is configured.
type ConsoleMailer struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []Message
}

// NewConsoleMailer creates a logging mailer
func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("mail (console)",
		"to", msg.To.String(),
		"subject", msg.Subject,
		"body", msg.TextContent,
	)
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

// Sent returns the messages logged so far
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
