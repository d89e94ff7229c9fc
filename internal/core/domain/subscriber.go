package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// SubscriberStatus tracks where a subscriber sits in the confirmation flow.
type SubscriberStatus string

const (
	// SubscriberStatusPending marks a subscriber that has not confirmed yet.
	SubscriberStatusPending SubscriberStatus = "pending_confirmation"
	// SubscriberStatusConfirmed marks a subscriber eligible for newsletter delivery.
	SubscriberStatusConfirmed SubscriberStatus = "confirmed"
)

// ValidationError reports a rejected input value. The message is safe to
// return to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

const maxNameGraphemes = 256

var forbiddenNameCharacters = [...]rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName is a display name that passed the shared validation rules.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw input and wraps it as a SubscriberName.
// The input is rejected when it is empty or whitespace-only, longer than 256
// grapheme clusters, or contains characters that could break out of HTML or
// header contexts.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, newValidationError("name", "must not be empty")
	}

	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, newValidationError("name", "must not exceed 256 characters")
	}

	for _, r := range raw {
		for _, forbidden := range forbiddenNameCharacters {
			if r == forbidden {
				return SubscriberName{}, newValidationError("name", fmt.Sprintf("must not contain %q", forbidden))
			}
		}
	}

	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}

// emailRegex follows the WHATWG HTML5 email validation pattern.
var emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// SubscriberEmail is an email address that passed the syntactic check.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw input as a subscriber email address.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if !emailRegex.MatchString(raw) {
		return SubscriberEmail{}, newValidationError("email", "is not a valid email address")
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}

// NewSubscriber carries validated subscription input before persistence.
type NewSubscriber struct {
	Email SubscriberEmail
	Name  SubscriberName
}

// ParseNewSubscriber validates both fields of a subscription request.
func ParseNewSubscriber(name, email string) (NewSubscriber, error) {
	parsedName, err := ParseSubscriberName(name)
	if err != nil {
		return NewSubscriber{}, err
	}

	parsedEmail, err := ParseSubscriberEmail(email)
	if err != nil {
		return NewSubscriber{}, err
	}

	return NewSubscriber{Email: parsedEmail, Name: parsedName}, nil
}

// Subscriber is a stored mailing list member.
type Subscriber struct {
	ID           string
	Email        string
	Name         string
	SubscribedAt time.Time
	Status       SubscriberStatus
}

// SubscriptionToken links a confirmation token to its subscriber.
type SubscriptionToken struct {
	Value        string
	SubscriberID string
}
