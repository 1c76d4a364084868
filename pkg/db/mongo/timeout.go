package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTimeout bounds ctx by timeout unless it already expires sooner. Inside
// a transaction the SessionContext is returned unchanged with a no-op cancel,
// since wrapping it would detach the session.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}

// Now is the timestamp stored on writes: UTC at Mongo's millisecond precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
