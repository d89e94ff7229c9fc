package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/core/port"
	"github.com/quillpost/newsletter-service/internal/infra/logger"
)

// NewsletterService delivers newsletter issues to confirmed subscribers.
type NewsletterService struct {
	store  port.SubscriptionRepository
	sender port.EmailSender
	auth   *OperatorAuthService
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewNewsletterService constructs a NewsletterService instance.
func NewNewsletterService(
	store port.SubscriptionRepository,
	sender port.EmailSender,
	auth *OperatorAuthService,
	events port.EventPublisher,
	log *zap.Logger,
) *NewsletterService {
	if log == nil {
		log = zap.NewNop()
	}

	return &NewsletterService{
		store:  store,
		sender: sender,
		auth:   auth,
		events: events,
		logger: log,
		now:    time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *NewsletterService) WithClock(now func() time.Time) *NewsletterService {
	if now != nil {
		s.now = now
	}
	return s
}

// Publish authenticates the caller and sends the issue to every confirmed
// subscriber with a currently valid email address. Stored rows that no
// longer pass validation are skipped with a warning. Delivery is sequential
// and the first failure aborts the run.
func (s *NewsletterService) Publish(ctx context.Context, authorizationHeader string, issue domain.NewsletterIssue) error {
	publisherID, err := s.auth.ValidateCredentials(ctx, authorizationHeader)
	if err != nil {
		return err
	}

	emails, err := s.store.ListConfirmedEmails(ctx)
	if err != nil {
		return fmt.Errorf("list confirmed subscribers: %w", err)
	}

	delivered := 0
	for _, stored := range emails {
		recipient, err := domain.ParseSubscriberEmail(stored)
		if err != nil {
			s.logger.Warn("skipping confirmed subscriber with invalid stored email",
				zap.String("email", logger.MaskEmail(stored)),
				zap.Error(err),
			)
			continue
		}

		if err := s.sender.Send(ctx, recipient.String(), issue.Title, issue.Content.HTML, issue.Content.Text); err != nil {
			return fmt.Errorf("deliver issue to %s: %w", logger.MaskEmail(recipient.String()), err)
		}
		delivered++
	}

	s.publishIssueEvent(ctx, publisherID, issue.Title, delivered)

	return nil
}

func (s *NewsletterService) publishIssueEvent(ctx context.Context, publisherID, title string, recipients int) {
	if s.events == nil {
		return
	}

	event := domain.IssuePublishedEvent{
		EventID:     uuid.NewString(),
		PublisherID: publisherID,
		Title:       title,
		Recipients:  recipients,
		PublishedAt: s.now().UTC(),
	}

	if err := s.events.PublishIssuePublished(ctx, event); err != nil {
		s.logger.Warn("publish issue published event failed",
			zap.String("publisher_id", publisherID),
			zap.Error(err),
		)
	}
}
