package handlers

import (
	"context"
	"strings"
)

// contextKey тип для ключей контекста
type contextKey string

// UsernameKey ключ для хранения имени пользователя в контексте
const UsernameKey contextKey = "username"

// WithUsername returns a context carrying the authenticated username
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUsername извлекает имя пользователя из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}

// CanAccess reports whether the request context may use database db.
// Without authentication every database is open; an authenticated user
// owns the databases named <anything>_<username>.
func CanAccess(ctx context.Context, db string) bool {
	username, ok := GetUsername(ctx)
	if !ok {
		return true
	}
	return strings.HasSuffix(db, "_"+username)
}
