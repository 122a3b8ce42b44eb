// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values; the case service reads them. Keeping this
// package free of net/http lets workers (outbox relay, passive-acceptance
// sweeper) and tests populate the same keys.
//
//	ctx = requestcontext.WithActor(ctx, "ola@entreprenor.no", "TE")
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	actorIDKey     struct{}
	actorRoleKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyActorID     = actorIDKey{}
	ContextKeyActorRole   = actorRoleKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// ActorID retrieves the authenticated actor identity.
func ActorID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyActorID).(string); ok {
		return v
	}
	return ""
}

// ActorRole retrieves the role claimed by the authenticated actor.
func ActorRole(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyActorRole).(string); ok {
		return v
	}
	return ""
}

// WithActor injects actor identity and role.
func WithActor(ctx context.Context, actorID, role string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyActorID, actorID)
	return context.WithValue(ctx, ContextKeyActorRole, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for workers and tests that never set it.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
