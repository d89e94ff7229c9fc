package port

import (
	"context"

	"github.com/quillpost/newsletter-service/internal/core/domain"
)

// EventPublisher emits newsletter lifecycle events. Publish failures must
// never fail the request that triggered them.
type EventPublisher interface {
	PublishSubscriptionStarted(ctx context.Context, event domain.SubscriptionStartedEvent) error
	PublishSubscriptionConfirmed(ctx context.Context, event domain.SubscriptionConfirmedEvent) error
	PublishIssuePublished(ctx context.Context, event domain.IssuePublishedEvent) error
}
