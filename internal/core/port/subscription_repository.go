package port

import (
	"context"

	"github.com/quillpost/newsletter-service/internal/core/domain"
)

// SubscriptionRepository persists subscribers and their confirmation tokens.
type SubscriptionRepository interface {
	// CreatePending stores the subscriber and its confirmation token
	// atomically. Either both rows exist afterwards or neither does.
	CreatePending(ctx context.Context, subscriber domain.Subscriber, token domain.SubscriptionToken) error
	// SubscriberIDByToken resolves a confirmation token to a subscriber id.
	// Returns repository.ErrNotFound when the token is unknown.
	SubscriberIDByToken(ctx context.Context, token string) (string, error)
	// Confirm transitions the subscriber to the confirmed status. Confirming
	// an already confirmed subscriber is a no-op.
	Confirm(ctx context.Context, subscriberID string) error
	// ListConfirmedEmails returns the stored email of every confirmed
	// subscriber.
	ListConfirmedEmails(ctx context.Context) ([]string, error)
}
