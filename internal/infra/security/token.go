package security

import (
	"crypto/rand"
	"fmt"
)

const (
	subscriptionTokenLength   = 25
	subscriptionTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateSubscriptionToken returns a 25 character case-sensitive
// alphanumeric confirmation token.
func GenerateSubscriptionToken() (string, error) {
	return GenerateAlphanumericToken(subscriptionTokenLength)
}

// GenerateAlphanumericToken returns a random alphanumeric string of the
// given length.
func GenerateAlphanumericToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = subscriptionTokenAlphabet[int(b)%len(subscriptionTokenAlphabet)]
	}

	return string(out), nil
}
