package views

import (
	"context"

	"github.com/AdamBeresnev/shuttle-bracket/internal/middleware"
	users "github.com/AdamBeresnev/shuttle-bracket/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}

type adminKey struct{}

// WithAdmin marks the request as coming from a bracket administrator so admin controls render.
func WithAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, adminKey{}, isAdmin)
}

func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(adminKey{}).(bool)
	return isAdmin
}
