package utils

import "context"

type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	UserEmailKey    contextKey = "email"
	UserRoleKey     contextKey = "role"
	UserVerifiedKey contextKey = "verified"
)

// SetUserContext sets the acting user into context (called by middleware).
func SetUserContext(ctx context.Context, id uint, email, role string, verified bool) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	ctx = context.WithValue(ctx, UserVerifiedKey, verified)
	return ctx
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRoleFromContext(ctx) == "admin"
}
