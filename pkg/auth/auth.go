package auth

import (
	"context"
)

const (
	XUserIDHeader   = "X-User-Id"
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

type Role string

const (
	RolePatron Role = "patron"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
	// RoleKiosk is the self-checkout terminal: it acts on behalf of the
	// patron standing at it, so it carries no staff privileges.
	RoleKiosk Role = "kiosk"
)

// User is the acting user attached to every engine call. It is resolved
// upstream; here it is only used for audit attribution and authorization.
type User struct {
	ID   string
	Name string
	Role Role
}

type userKey struct{}

func SetAuthContext(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}

// IsStaff reports whether the acting user may perform desk-side operations.
func IsStaff(ctx context.Context) bool {
	u, ok := UserFromContext(ctx)
	return ok && (u.Role == RoleStaff || u.Role == RoleAdmin)
}

func IsAdmin(ctx context.Context) bool {
	u, ok := UserFromContext(ctx)
	return ok && u.Role == RoleAdmin
}
