package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/ErlanBelekov/newsletter/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Insert(ctx context.Context, tx repository.Tx, token domain.SubscriptionToken, subscriberID uuid.UUID) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = ptx.Exec(ctx,
		`INSERT INTO subscription_tokens (subscription_token, subscriber_id) VALUES ($1, $2)`,
		string(token), subscriberID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTokenCollision
		}
		return fmt.Errorf("insert subscription token: %w", err)
	}
	return nil
}

func (r *TokenRepository) SubscriberIDByToken(ctx context.Context, token domain.SubscriptionToken) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`,
		string(token),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("lookup subscription token: %w", err)
	}
	return id, nil
}
