package auth

import (
	"context"
	"net/http"
	"strings"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	// RoleSystem is used by background consumers (inbound kafka feed).
	RoleSystem = "system"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderRole   = "X-User-Role"
)

type UserContext struct {
	UserID string
	Role   string
}

type userContextKey struct{}

func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(userContextKey{}).(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, false
	}
	return user, true
}

// FromRequest reads the identity forwarded by the identity provider proxy.
func FromRequest(r *http.Request) (UserContext, bool) {
	user := UserContext{
		UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Role:   ForwardedRole(r.Header.Get(HeaderRole)),
	}
	if user.UserID == "" {
		return UserContext{}, false
	}
	return user, true
}

// ForwardedRole normalizes a role asserted by a remote caller. The system role
// is only granted in-process, so a forwarded one carries no role at all.
func ForwardedRole(raw string) string {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == RoleSystem {
		return ""
	}
	return role
}

// HasRole reports whether the caller may act as role. Admin and system satisfy every role.
func HasRole(ctx context.Context, role string) bool {
	user, ok := FromContext(ctx)
	if !ok {
		return false
	}
	switch user.Role {
	case RoleAdmin, RoleSystem:
		return true
	}
	return user.Role == role
}

func IsAuthenticated(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}
