// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them, services read them; keeping the
// package free of net/http lets services stay transport-agnostic.
package requestcontext

import (
	"context"
	"time"

	id "wardflow/pkg/domain"
)

type (
	userIDKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// UserID retrieves the authenticated caller from the context. Returns the
// zero (nil UUID) value when unauthenticated.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects the caller identity into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// RequestID retrieves the request correlation id, "" when absent.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// WithRequestID injects a request correlation id.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// Now returns the request time if one was injected (tests pin it), falling
// back to the wall clock.
func Now(ctx context.Context) time.Time {
	if ts, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return ts
	}
	return time.Now()
}

// WithTime pins the request time, primarily for deterministic tests.
func WithTime(ctx context.Context, ts time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, ts)
}
