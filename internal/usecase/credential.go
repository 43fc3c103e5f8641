package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository"
	"token-auth/pkg/utils"

	"go.uber.org/zap"
)

// CredentialVerifier checks an email/password pair against the user store.
// Unknown emails, inactive accounts and wrong passwords all come back as
// ErrInvalidCredentials so callers cannot probe for accounts.
type CredentialVerifier struct {
	users repository.UserRepository
	log   *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialVerifier(users repository.UserRepository, log *zap.Logger) *CredentialVerifier {
	return &CredentialVerifier{
		users: users,
		log:   log.With(zap.String("service", "credential")),
	}
}

func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if user == nil {
		// burn the same bcrypt time as a real comparison
		utils.CheckPasswordHash(password, v.dummy())
		v.log.Warn("Login for unknown email", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		v.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		v.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (v *CredentialVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		hash, err := utils.HashPassword("not-a-real-password")
		if err == nil {
			v.dummyHash = hash
		}
	})
	return v.dummyHash
}
