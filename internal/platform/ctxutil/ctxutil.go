package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceKey struct{}
type principalKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

// Principal is the authenticated caller, attached by the auth middleware
// and passed explicitly into service operations.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	td, _ := ctx.Value(traceKey{}).(*TraceData)
	return td
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
