package repository

import (
	"context"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/google/uuid"
)

type TokenRepository interface {
	// Insert stores token -> subscriberID inside tx. A duplicate token yields
	// domain.ErrTokenCollision.
	Insert(ctx context.Context, tx Tx, token domain.SubscriptionToken, subscriberID uuid.UUID) error

	// SubscriberIDByToken resolves an exact token match, or returns
	// domain.ErrTokenNotFound.
	SubscriberIDByToken(ctx context.Context, token domain.SubscriptionToken) (uuid.UUID, error)
}
