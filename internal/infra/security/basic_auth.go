package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// BasicCredentials is the username and password pair extracted from an
// Authorization header.
type BasicCredentials struct {
	Username string
	Password string
}

var (
	// ErrMissingAuthorization indicates the Authorization header was absent.
	ErrMissingAuthorization = errors.New("authorization header is missing")
	// ErrNotBasicScheme indicates the header does not use the Basic scheme.
	ErrNotBasicScheme = errors.New("authorization scheme is not basic")
)

// ParseBasicAuth extracts credentials from a Basic Authorization header
// value. The password may contain colons; only the first colon splits the
// pair.
func ParseBasicAuth(header string) (BasicCredentials, error) {
	if header == "" {
		return BasicCredentials{}, ErrMissingAuthorization
	}

	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return BasicCredentials{}, ErrNotBasicScheme
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return BasicCredentials{}, fmt.Errorf("decode basic credentials: %w", err)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return BasicCredentials{}, errors.New("credentials must be a username:password pair")
	}

	return BasicCredentials{Username: username, Password: password}, nil
}
