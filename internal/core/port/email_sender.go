package port

import "context"

// EmailSender delivers a single email through the configured provider.
// Implementations perform exactly one attempt; retries are the caller's
// decision.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error
}
