package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, subjectID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("subject_id", subjectID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishSubscriptionStarted logs newsletter.subscription.started events.
func (p *StubPublisher) PublishSubscriptionStarted(_ context.Context, event domain.SubscriptionStartedEvent) error {
	payload := map[string]any{
		"subscriber_id": event.SubscriberID,
		"masked_email":  event.MaskedEmail,
		"started_at":    event.StartedAt,
	}
	p.logEvent(eventSubscriptionStarted, event.SubscriberID, event.StartedAt, payload)
	return nil
}

// PublishSubscriptionConfirmed logs newsletter.subscription.confirmed events.
func (p *StubPublisher) PublishSubscriptionConfirmed(_ context.Context, event domain.SubscriptionConfirmedEvent) error {
	payload := map[string]any{
		"subscriber_id": event.SubscriberID,
		"confirmed_at":  event.ConfirmedAt,
	}
	p.logEvent(eventSubscriptionConfirmed, event.SubscriberID, event.ConfirmedAt, payload)
	return nil
}

// PublishIssuePublished logs newsletter.issue.published events.
func (p *StubPublisher) PublishIssuePublished(_ context.Context, event domain.IssuePublishedEvent) error {
	payload := map[string]any{
		"publisher_id": event.PublisherID,
		"title":        event.Title,
		"recipients":   event.Recipients,
		"published_at": event.PublishedAt,
	}
	p.logEvent(eventIssuePublished, event.PublisherID, event.PublishedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
