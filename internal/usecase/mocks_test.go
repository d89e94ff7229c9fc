package usecase

import (
	"context"
	"errors"

	"github.com/quillpost/newsletter-service/internal/core/domain"
)

type mockSubscriptionRepository struct {
	createPendingErr    error
	createPendingCalls  int
	createdSubscriber   domain.Subscriber
	createdToken        domain.SubscriptionToken

	subscriberIDResult string
	subscriberIDErr    error
	subscriberIDCalls  int
	subscriberIDToken  string

	confirmErr   error
	confirmCalls int
	confirmedID  string

	listConfirmedResult []string
	listConfirmedErr    error
	listConfirmedCalls  int
}

func (m *mockSubscriptionRepository) CreatePending(_ context.Context, subscriber domain.Subscriber, token domain.SubscriptionToken) error {
	m.createPendingCalls++
	m.createdSubscriber = subscriber
	m.createdToken = token
	return m.createPendingErr
}

func (m *mockSubscriptionRepository) SubscriberIDByToken(_ context.Context, token string) (string, error) {
	m.subscriberIDCalls++
	m.subscriberIDToken = token
	if m.subscriberIDErr != nil {
		return "", m.subscriberIDErr
	}
	return m.subscriberIDResult, nil
}

func (m *mockSubscriptionRepository) Confirm(_ context.Context, subscriberID string) error {
	m.confirmCalls++
	m.confirmedID = subscriberID
	return m.confirmErr
}

func (m *mockSubscriptionRepository) ListConfirmedEmails(context.Context) ([]string, error) {
	m.listConfirmedCalls++
	if m.listConfirmedErr != nil {
		return nil, m.listConfirmedErr
	}
	out := make([]string, len(m.listConfirmedResult))
	copy(out, m.listConfirmedResult)
	return out, nil
}

type sentEmail struct {
	recipient string
	subject   string
	htmlBody  string
	textBody  string
}

type mockEmailSender struct {
	sendErr    error
	failAfter  int
	sendCalls  int
	sentEmails []sentEmail
}

func (m *mockEmailSender) Send(_ context.Context, recipient, subject, htmlBody, textBody string) error {
	m.sendCalls++
	if m.sendErr != nil && (m.failAfter == 0 || m.sendCalls > m.failAfter) {
		return m.sendErr
	}
	m.sentEmails = append(m.sentEmails, sentEmail{
		recipient: recipient,
		subject:   subject,
		htmlBody:  htmlBody,
		textBody:  textBody,
	})
	return nil
}

type mockEventPublisher struct {
	startedCalls   int
	startedEvent   domain.SubscriptionStartedEvent
	confirmedCalls int
	confirmedEvent domain.SubscriptionConfirmedEvent
	publishedCalls int
	publishedEvent domain.IssuePublishedEvent
	publishErr     error
}

func (m *mockEventPublisher) PublishSubscriptionStarted(_ context.Context, event domain.SubscriptionStartedEvent) error {
	m.startedCalls++
	m.startedEvent = event
	return m.publishErr
}

func (m *mockEventPublisher) PublishSubscriptionConfirmed(_ context.Context, event domain.SubscriptionConfirmedEvent) error {
	m.confirmedCalls++
	m.confirmedEvent = event
	return m.publishErr
}

func (m *mockEventPublisher) PublishIssuePublished(_ context.Context, event domain.IssuePublishedEvent) error {
	m.publishedCalls++
	m.publishedEvent = event
	return m.publishErr
}

type mockOperatorRepository struct {
	getResult *domain.Operator
	getErr    error
	getCalls  int
	lastName  string
}

func (m *mockOperatorRepository) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	m.getCalls++
	m.lastName = username
	if m.getResult != nil {
		copy := *m.getResult
		return &copy, m.getErr
	}
	return nil, m.getErr
}

func (m *mockOperatorRepository) Create(context.Context, domain.Operator) error {
	return errors.New("unexpected call: Create")
}

type mockPasswordVerifier struct {
	calls        int
	lastPassword string
	lastEncoded  string
	result       bool
	err          error
}

func (m *mockPasswordVerifier) Verify(_ context.Context, password, encoded string) (bool, error) {
	m.calls++
	m.lastPassword = password
	m.lastEncoded = encoded
	return m.result, m.err
}
