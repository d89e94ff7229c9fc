package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/core/port"
	"github.com/quillpost/newsletter-service/internal/infra/logger"
	"github.com/quillpost/newsletter-service/internal/infra/security"
	"github.com/quillpost/newsletter-service/internal/repository"
)

var (
	// ErrUnknownToken indicates the confirmation token does not exist.
	ErrUnknownToken = errors.New("unknown subscription token")
	// ErrConfirmationEmail indicates the confirmation email could not be
	// delivered. The subscriber is already stored when this is returned.
	ErrConfirmationEmail = errors.New("send confirmation email")
)

// SubscriptionService coordinates the subscribe and confirm flows.
type SubscriptionService struct {
	store   port.SubscriptionRepository
	sender  port.EmailSender
	events  port.EventPublisher
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewSubscriptionService constructs a SubscriptionService instance.
func NewSubscriptionService(
	store port.SubscriptionRepository,
	sender port.EmailSender,
	events port.EventPublisher,
	baseURL string,
	log *zap.Logger,
) *SubscriptionService {
	if log == nil {
		log = zap.NewNop()
	}

	return &SubscriptionService{
		store:   store,
		sender:  sender,
		events:  events,
		baseURL: baseURL,
		logger:  log,
		now:     time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	if now != nil {
		s.now = now
	}
	return s
}

// Subscribe validates the input, durably stores the pending subscriber with
// its confirmation token, and then sends the confirmation email. The store
// commit strictly precedes the email send, so a delivery failure leaves the
// subscriber pending.
func (s *SubscriptionService) Subscribe(ctx context.Context, name, email string) (domain.Subscriber, error) {
	parsed, err := domain.ParseNewSubscriber(name, email)
	if err != nil {
		return domain.Subscriber{}, err
	}

	subscriber := domain.Subscriber{
		ID:           uuid.NewString(),
		Email:        parsed.Email.String(),
		Name:         parsed.Name.String(),
		SubscribedAt: s.now().UTC(),
		Status:       domain.SubscriberStatusPending,
	}

	token, err := security.GenerateSubscriptionToken()
	if err != nil {
		return domain.Subscriber{}, fmt.Errorf("generate subscription token: %w", err)
	}

	if err := s.store.CreatePending(ctx, subscriber, domain.SubscriptionToken{
		Value:        token,
		SubscriberID: subscriber.ID,
	}); err != nil {
		return domain.Subscriber{}, fmt.Errorf("store pending subscription: %w", err)
	}

	s.publishStarted(ctx, subscriber)

	if err := s.sendConfirmationEmail(ctx, subscriber.Email, token); err != nil {
		s.logger.Error("confirmation email delivery failed",
			zap.String("subscriber_id", subscriber.ID),
			zap.String("email", logger.MaskEmail(subscriber.Email)),
			zap.Error(err),
		)
		return subscriber, fmt.Errorf("%w: %v", ErrConfirmationEmail, err)
	}

	return subscriber, nil
}

func (s *SubscriptionService) sendConfirmationEmail(ctx context.Context, recipient, token string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)

	htmlBody := fmt.Sprintf(
		"Welcome to our newsletter!<br />Click <a href=\"%s\">here</a> to confirm your subscription.",
		link,
	)
	textBody := fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		link,
	)

	return s.sender.Send(ctx, recipient, "Welcome!", htmlBody, textBody)
}

func (s *SubscriptionService) publishStarted(ctx context.Context, subscriber domain.Subscriber) {
	if s.events == nil {
		return
	}

	event := domain.SubscriptionStartedEvent{
		EventID:      uuid.NewString(),
		SubscriberID: subscriber.ID,
		MaskedEmail:  logger.MaskEmail(subscriber.Email),
		StartedAt:    subscriber.SubscribedAt,
	}

	if err := s.events.PublishSubscriptionStarted(ctx, event); err != nil {
		s.logger.Warn("publish subscription started event failed",
			zap.String("subscriber_id", subscriber.ID),
			zap.Error(err),
		)
	}
}

// Confirm resolves the token and transitions the subscriber to confirmed.
// Replaying a token is allowed; the transition is idempotent.
func (s *SubscriptionService) Confirm(ctx context.Context, token string) error {
	subscriberID, err := s.store.SubscriberIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownToken
		}
		return fmt.Errorf("lookup subscription token: %w", err)
	}

	if err := s.store.Confirm(ctx, subscriberID); err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}

	s.publishConfirmed(ctx, subscriberID)

	return nil
}

func (s *SubscriptionService) publishConfirmed(ctx context.Context, subscriberID string) {
	if s.events == nil {
		return
	}

	event := domain.SubscriptionConfirmedEvent{
		EventID:      uuid.NewString(),
		SubscriberID: subscriberID,
		ConfirmedAt:  s.now().UTC(),
	}

	if err := s.events.PublishSubscriptionConfirmed(ctx, event); err != nil {
		s.logger.Warn("publish subscription confirmed event failed",
			zap.String("subscriber_id", subscriberID),
			zap.Error(err),
		)
	}
}
