package domain

import "time"

// SubscriptionStartedEvent is emitted after a pending subscription is stored.
type SubscriptionStartedEvent struct {
	EventID      string
	SubscriberID string
	MaskedEmail  string
	StartedAt    time.Time
}

// SubscriptionConfirmedEvent is emitted when a subscriber confirms via token.
type SubscriptionConfirmedEvent struct {
	EventID      string
	SubscriberID string
	ConfirmedAt  time.Time
}

// IssuePublishedEvent is emitted after a newsletter issue is delivered to
// every surviving recipient.
type IssuePublishedEvent struct {
	EventID     string
	PublisherID string
	Title       string
	Recipients  int
	PublishedAt time.Time
}
