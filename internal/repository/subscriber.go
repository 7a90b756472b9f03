package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/google/uuid"
)

// Tx is the unit of work shared by the subscriber and token inserts of one
// registration. Rollback after a successful Commit is a no-op.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}

type SubscriberRepository interface {
	// Insert writes a new subscriber inside tx. Nothing is visible to other
	// readers until tx commits.
	Insert(ctx context.Context, tx Tx, s *domain.Subscriber) error

	// Confirm marks the subscriber confirmed. Confirming an already confirmed
	// subscriber is not an error.
	Confirm(ctx context.Context, id uuid.UUID) error

	// FindByEmail returns every subscriber registered with email, oldest first.
	// Email is not unique.
	FindByEmail(ctx context.Context, email domain.SubscriberEmail) ([]*domain.Subscriber, error)

	// CountPendingBefore counts subscribers still awaiting confirmation that
	// registered before cutoff.
	CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error)
}
