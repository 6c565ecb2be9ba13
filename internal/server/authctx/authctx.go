// Package authctx carries the signed-in RentFlow user through a request.
package authctx

import (
	"context"

	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
)

type contextKey struct{}

// CurrentUser is what the access token says about the caller.
type CurrentUser struct {
	ID    uuid.UUID
	Email string
	Role  domain.UserRole
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(contextKey{}).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}

// Actor names the caller in audit fields such as collectedBy, or "" for an
// anonymous request.
func Actor(ctx context.Context) string {
	if u := FromContext(ctx); u != nil {
		return u.Email
	}
	return ""
}
