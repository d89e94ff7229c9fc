package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/core/port"
	"github.com/quillpost/newsletter-service/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	eventSubscriptionStarted   = "subscription.started"
	eventSubscriptionConfirmed = "subscription.confirmed"
	eventIssuePublished        = "issue.published"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	SubjectID string           `json:"subject_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, subjectID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		SubjectID: subjectID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishSubscriptionStarted publishes newsletter.subscription.started events.
func (p *EventPublisher) PublishSubscriptionStarted(ctx context.Context, event domain.SubscriptionStartedEvent) error {
	payload := struct {
		SubscriberID string    `json:"subscriber_id"`
		MaskedEmail  string    `json:"masked_email,omitempty"`
		StartedAt    time.Time `json:"started_at"`
	}{
		SubscriberID: event.SubscriberID,
		MaskedEmail:  event.MaskedEmail,
		StartedAt:    event.StartedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventSubscriptionStarted, event.SubscriberID, event.StartedAt, payload)
}

// PublishSubscriptionConfirmed publishes newsletter.subscription.confirmed events.
func (p *EventPublisher) PublishSubscriptionConfirmed(ctx context.Context, event domain.SubscriptionConfirmedEvent) error {
	payload := struct {
		SubscriberID string    `json:"subscriber_id"`
		ConfirmedAt  time.Time `json:"confirmed_at"`
	}{
		SubscriberID: event.SubscriberID,
		ConfirmedAt:  event.ConfirmedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventSubscriptionConfirmed, event.SubscriberID, event.ConfirmedAt, payload)
}

// PublishIssuePublished publishes newsletter.issue.published events.
func (p *EventPublisher) PublishIssuePublished(ctx context.Context, event domain.IssuePublishedEvent) error {
	payload := struct {
		PublisherID string    `json:"publisher_id"`
		Title       string    `json:"title"`
		Recipients  int       `json:"recipients"`
		PublishedAt time.Time `json:"published_at"`
	}{
		PublisherID: event.PublisherID,
		Title:       event.Title,
		Recipients:  event.Recipients,
		PublishedAt: event.PublishedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventIssuePublished, event.PublisherID, event.PublishedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
