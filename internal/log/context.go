package log

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

type subscriberIDKey struct{}

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns "" if no request ID is attached.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithSubscriberID tags every later log line of the request with the
// subscriber being registered or confirmed.
func WithSubscriberID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, subscriberIDKey{}, id)
}

func SubscriberIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(subscriberIDKey{}).(uuid.UUID)
	return id, ok
}
