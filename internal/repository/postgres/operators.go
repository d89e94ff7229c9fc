package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/core/port"
	"github.com/quillpost/newsletter-service/internal/repository"
)

// OperatorRepository implements port.OperatorRepository using PostgreSQL.
type OperatorRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOperatorRepository wires a PostgreSQL-backed operator repository.
func NewOperatorRepository(pool *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *OperatorRepository) WithTx(tx pgx.Tx) *OperatorRepository {
	if tx == nil {
		return r
	}
	return &OperatorRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// GetByUsername retrieves an operator account by username.
func (r *OperatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	stmt, args, err := r.builder.
		Select("user_id", "username", "password_hash").
		From("users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select operator sql: %w", err)
	}

	var operator domain.Operator
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&operator.UserID,
		&operator.Username,
		&operator.PasswordHash,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan operator: %w", err)
	}

	return &operator, nil
}

// Create inserts a new operator account row.
func (r *OperatorRepository) Create(ctx context.Context, operator domain.Operator) error {
	stmt, args, err := r.builder.Insert("users").
		Columns("user_id", "username", "password_hash").
		Values(operator.UserID, operator.Username, operator.PasswordHash).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert operator sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}

	return nil
}

var _ port.OperatorRepository = (*OperatorRepository)(nil)
