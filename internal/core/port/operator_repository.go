package port

import (
	"context"

	"github.com/quillpost/newsletter-service/internal/core/domain"
)

// OperatorRepository stores accounts allowed to publish newsletter issues.
type OperatorRepository interface {
	// GetByUsername returns the stored operator for the given username.
	// Returns repository.ErrNotFound when no such account exists.
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
	// Create inserts a new operator account.
	Create(ctx context.Context, operator domain.Operator) error
}
