package repository

import (
	"errors"

	"token-auth/pkg/database"

	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

type Repository struct {
	User    UserRepository
	Session SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
	}
}
