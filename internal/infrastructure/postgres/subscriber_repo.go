package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/ErlanBelekov/newsletter/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriberRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

func (r *SubscriberRepository) Insert(ctx context.Context, tx repository.Tx, s *domain.Subscriber) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = ptx.Exec(ctx, `
		INSERT INTO subscriptions (id, email, name, status, subscribed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, string(s.Email), string(s.Name), string(s.Status), s.SubscribedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status = 'confirmed' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email domain.SubscriberEmail) ([]*domain.Subscriber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, status, subscribed_at
		FROM subscriptions
		WHERE email = $1
		ORDER BY subscribed_at ASC, id ASC`, string(email))
	if err != nil {
		return nil, fmt.Errorf("find subscribers by email: %w", err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}
	return subscribers, nil
}

func (r *SubscriberRepository) CountPendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM subscriptions
		WHERE status = 'pending_confirmation' AND subscribed_at < $1`, cutoff,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending subscribers: %w", err)
	}
	return n, nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscriber(row rowScanner) (*domain.Subscriber, error) {
	var s domain.Subscriber
	var email, name, status string
	if err := row.Scan(&s.ID, &email, &name, &status, &s.SubscribedAt); err != nil {
		return nil, fmt.Errorf("scan subscriber: %w", err)
	}
	s.Email = domain.SubscriberEmail(email)
	s.Name = domain.SubscriberName(name)
	s.Status = domain.Status(status)
	return &s, nil
}
