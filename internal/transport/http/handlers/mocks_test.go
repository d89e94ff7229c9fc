package handlers

import (
	"context"
	"errors"

	"github.com/quillpost/newsletter-service/internal/core/domain"
)

type fakeSubscriptionStore struct {
	createPendingErr   error
	createPendingCalls int
	createdSubscriber  domain.Subscriber
	createdToken       domain.SubscriptionToken

	subscriberIDResult string
	subscriberIDErr    error
	subscriberIDCalls  int

	confirmErr   error
	confirmCalls int

	listConfirmedResult []string
	listConfirmedErr    error
}

func (f *fakeSubscriptionStore) CreatePending(_ context.Context, subscriber domain.Subscriber, token domain.SubscriptionToken) error {
	f.createPendingCalls++
	f.createdSubscriber = subscriber
	f.createdToken = token
	return f.createPendingErr
}

func (f *fakeSubscriptionStore) SubscriberIDByToken(_ context.Context, token string) (string, error) {
	f.subscriberIDCalls++
	if f.subscriberIDErr != nil {
		return "", f.subscriberIDErr
	}
	return f.subscriberIDResult, nil
}

func (f *fakeSubscriptionStore) Confirm(_ context.Context, subscriberID string) error {
	f.confirmCalls++
	return f.confirmErr
}

func (f *fakeSubscriptionStore) ListConfirmedEmails(context.Context) ([]string, error) {
	if f.listConfirmedErr != nil {
		return nil, f.listConfirmedErr
	}
	return f.listConfirmedResult, nil
}

type fakeEmailSender struct {
	sendErr    error
	sendCalls  int
	recipients []string
}

func (f *fakeEmailSender) Send(_ context.Context, recipient, subject, htmlBody, textBody string) error {
	f.sendCalls++
	if f.sendErr != nil {
		return f.sendErr
	}
	f.recipients = append(f.recipients, recipient)
	return nil
}

type fakeOperatorStore struct {
	operator *domain.Operator
	getErr   error
	getCalls int
}

func (f *fakeOperatorStore) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	f.getCalls++
	if f.operator != nil {
		op := *f.operator
		return &op, f.getErr
	}
	return nil, f.getErr
}

func (f *fakeOperatorStore) Create(context.Context, domain.Operator) error {
	return errors.New("unexpected call: Create")
}

type fakePasswordVerifier struct {
	result bool
	calls  int
}

func (f *fakePasswordVerifier) Verify(_ context.Context, password, encoded string) (bool, error) {
	f.calls++
	return f.result, nil
}
