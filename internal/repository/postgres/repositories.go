package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Subscriptions *SubscriptionRepository
	Operators     *OperatorRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Subscriptions: NewSubscriptionRepository(pool),
		Operators:     NewOperatorRepository(pool),
	}
}
