package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/port"
	"github.com/quillpost/newsletter-service/internal/infra/security"
	"github.com/quillpost/newsletter-service/internal/repository"
)

// ErrInvalidCredentials indicates the Authorization header was malformed or
// the username/password pair did not match a stored operator.
var ErrInvalidCredentials = errors.New("invalid credentials")

// fallbackPasswordHash is verified when the username is unknown so that the
// request costs one Argon2id derivation either way.
const fallbackPasswordHash = "$argon2id$v=19$m=15000,t=2,p=1$gZiV/M1gPc22ElAH/Jh1Hw$CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

// PasswordVerifier checks a password against an encoded hash off the calling
// goroutine.
type PasswordVerifier interface {
	Verify(ctx context.Context, password, encoded string) (bool, error)
}

// OperatorAuthService verifies Basic credentials for publish operations.
type OperatorAuthService struct {
	operators port.OperatorRepository
	verifier  PasswordVerifier
	logger    *zap.Logger
}

// NewOperatorAuthService constructs an OperatorAuthService instance.
func NewOperatorAuthService(operators port.OperatorRepository, verifier PasswordVerifier, log *zap.Logger) *OperatorAuthService {
	if log == nil {
		log = zap.NewNop()
	}

	return &OperatorAuthService{
		operators: operators,
		verifier:  verifier,
		logger:    log,
	}
}

// ValidateCredentials parses the Authorization header and verifies the
// credential pair, returning the operator's user id. Unknown usernames still
// pay the full hashing cost before being rejected.
func (s *OperatorAuthService) ValidateCredentials(ctx context.Context, authorizationHeader string) (string, error) {
	creds, err := security.ParseBasicAuth(authorizationHeader)
	if err != nil {
		s.logger.Warn("rejected malformed authorization header", zap.Error(err))
		return "", ErrInvalidCredentials
	}

	expectedHash := fallbackPasswordHash
	userID := ""

	operator, err := s.operators.GetByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		expectedHash = operator.PasswordHash
		userID = operator.UserID
	case errors.Is(err, repository.ErrNotFound):
		// Keep going with the fallback hash so timing does not reveal
		// whether the username exists.
	default:
		return "", fmt.Errorf("lookup operator credentials: %w", err)
	}

	ok, err := s.verifier.Verify(ctx, creds.Password, expectedHash)
	if err != nil {
		return "", fmt.Errorf("verify password hash: %w", err)
	}

	if userID == "" || !ok {
		return "", ErrInvalidCredentials
	}

	return userID, nil
}
