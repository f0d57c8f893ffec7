package common

import (
	"context"
	"strings"
)

// UserContext holds per-request user configuration injected via X-Ledgerd-*
// headers. Authentication itself is owned by the surrounding platform; the
// server only propagates the resolved user namespace. When absent (nil), the
// server operates in single-tenant mode using config file values.
type UserContext struct {
	UserID          string
	DisplayCurrency string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or "default" when no user
// context is present. Used by services and storage operations that need a
// user scope.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	return "default"
}

// ResolveDisplayCurrency returns the user-context display currency if present
// and valid, otherwise the supplied config default. Validates GBP/USD only.
func ResolveDisplayCurrency(ctx context.Context, configDefault string) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.DisplayCurrency != "" {
		dc := strings.ToUpper(uc.DisplayCurrency)
		if dc == "GBP" || dc == "USD" {
			return dc
		}
	}
	return configDefault
}
