package http

import (
	"context"

	"github.com/example/recruitd/internal/application"
)

type contextKey string

const (
	passIdentityContextKey contextKey = "pass_identity"
	requestIDContextKey    contextKey = "request_id"
	candidateIDContextKey  contextKey = "candidate_id"
	setupIDContextKey      contextKey = "setup_id"
	slotIDContextKey       contextKey = "slot_id"
)

// ContextWithPassIdentity returns a derived context carrying the verified
// pass identity.
func ContextWithPassIdentity(ctx context.Context, identity application.PassIdentity) context.Context {
	return context.WithValue(ctx, passIdentityContextKey, identity)
}

// PassIdentityFromContext extracts the verified pass identity if available.
func PassIdentityFromContext(ctx context.Context) (application.PassIdentity, bool) {
	identity, ok := ctx.Value(passIdentityContextKey).(application.PassIdentity)
	return identity, ok
}

// ContextWithRequestID injects the requisition identifier resolved from the
// request path.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext extracts a requisition identifier previously
// associated with the context.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

// ContextWithCandidateID injects the candidate identifier resolved from the
// request path.
func ContextWithCandidateID(ctx context.Context, candidateID string) context.Context {
	return context.WithValue(ctx, candidateIDContextKey, candidateID)
}

// CandidateIDFromContext extracts a candidate identifier previously
// associated with the context.
func CandidateIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(candidateIDContextKey).(string)
	return id, ok
}

// ContextWithSetupID injects the interview setup identifier resolved from the
// request path.
func ContextWithSetupID(ctx context.Context, setupID string) context.Context {
	return context.WithValue(ctx, setupIDContextKey, setupID)
}

// SetupIDFromContext extracts an interview setup identifier previously
// associated with the context.
func SetupIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(setupIDContextKey).(string)
	return id, ok
}

// ContextWithSlotID injects the slot identifier resolved from the request path.
func ContextWithSlotID(ctx context.Context, slotID string) context.Context {
	return context.WithValue(ctx, slotIDContextKey, slotID)
}

// SlotIDFromContext extracts a slot identifier previously associated with the
// context.
func SlotIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(slotIDContextKey).(string)
	return id, ok
}
