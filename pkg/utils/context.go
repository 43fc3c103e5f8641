package utils

import (
	"context"

	"token-auth/internal/data/entity"
)

type contextKey string

const (
	UserKey    contextKey = "user"
	SessionKey contextKey = "session"
)

// SetAuthContext stores the resolved owner and session of a bearer token.
func SetAuthContext(ctx context.Context, user *entity.User, session *entity.Session) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, SessionKey, session)
	return ctx
}

func GetUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserKey).(*entity.User)
	return user, ok && user != nil
}

func GetSessionFromContext(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	return session, ok && session != nil
}
