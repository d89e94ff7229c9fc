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

// SubscriptionRepository implements port.SubscriptionRepository using PostgreSQL.
type SubscriptionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSubscriptionRepository wires a PostgreSQL-backed subscription repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *SubscriptionRepository) WithTx(tx pgx.Tx) *SubscriptionRepository {
	if tx == nil {
		return r
	}
	return &SubscriptionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// CreatePending inserts the subscriber row and its confirmation token inside
// a single transaction.
func (r *SubscriptionRepository) CreatePending(ctx context.Context, subscriber domain.Subscriber, token domain.SubscriptionToken) error {
	if r.pool == nil {
		return fmt.Errorf("create pending subscription: pool is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	scoped := r.WithTx(tx)

	if err := scoped.insertSubscriber(ctx, subscriber); err != nil {
		return err
	}

	if err := scoped.insertToken(ctx, token); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit pending subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepository) insertSubscriber(ctx context.Context, subscriber domain.Subscriber) error {
	stmt, args, err := r.builder.Insert("subscriptions").
		Columns("id", "email", "name", "subscribed_at", "status").
		Values(subscriber.ID, subscriber.Email, subscriber.Name, subscriber.SubscribedAt, subscriber.Status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert subscriber sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}

	return nil
}

func (r *SubscriptionRepository) insertToken(ctx context.Context, token domain.SubscriptionToken) error {
	stmt, args, err := r.builder.Insert("subscription_tokens").
		Columns("subscription_token", "subscriber_id").
		Values(token.Value, token.SubscriberID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert subscription token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert subscription token: %w", err)
	}

	return nil
}

// SubscriberIDByToken resolves a confirmation token to its subscriber id.
func (r *SubscriptionRepository) SubscriberIDByToken(ctx context.Context, token string) (string, error) {
	stmt, args, err := r.builder.
		Select("subscriber_id").
		From("subscription_tokens").
		Where(squirrel.Eq{"subscription_token": token}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select subscriber id sql: %w", err)
	}

	var subscriberID string
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&subscriberID); err != nil {
		if err == pgx.ErrNoRows {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("scan subscriber id: %w", err)
	}

	return subscriberID, nil
}

// Confirm marks the subscriber as confirmed. Updating an already confirmed
// subscriber affects the same row again, which keeps the operation
// idempotent.
func (r *SubscriptionRepository) Confirm(ctx context.Context, subscriberID string) error {
	stmt, args, err := r.builder.Update("subscriptions").
		Set("status", domain.SubscriberStatusConfirmed).
		Where(squirrel.Eq{"id": subscriberID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build confirm subscriber sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}

	return nil
}

// ListConfirmedEmails returns the stored email of every confirmed subscriber.
func (r *SubscriptionRepository) ListConfirmedEmails(ctx context.Context) ([]string, error) {
	stmt, args, err := r.builder.
		Select("email").
		From("subscriptions").
		Where(squirrel.Eq{"status": domain.SubscriberStatusConfirmed}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list confirmed emails sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query confirmed subscribers: %w", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan confirmed subscriber email: %w", err)
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confirmed subscribers: %w", err)
	}

	return emails, nil
}

var _ port.SubscriptionRepository = (*SubscriptionRepository)(nil)
