package usecase

import (
	"testing"
	"time"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository/repotest"
	"token-auth/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "password"

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clock    *utils.FrozenClock
	users    *repotest.UserStore
	sessions *repotest.SessionStore
	config   utils.Config
	member   *entity.User
	admin    *entity.User
}

func newTestUser(t *testing.T, email string, role entity.UserRole) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	return &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: testEpoch, UpdatedAt: testEpoch},
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	member := newTestUser(t, "user@example.com", entity.RoleMember)
	admin := newTestUser(t, "admin@example.com", entity.RoleAdmin)
	return &fixture{
		clock:    utils.NewFrozenClock(testEpoch),
		users:    repotest.NewUserStore(member, admin),
		sessions: repotest.NewSessionStore(),
		config: utils.Config{
			JWT: utils.JWTConfig{
				Secret:     "test-secret",
				Issuer:     "token-auth-test",
				AccessTTL:  time.Hour,
				RefreshTTL: 24 * time.Hour,
			},
			Auth: utils.AuthConfig{MaxFailedLogins: 3, LockoutWindow: time.Minute},
		},
		member: member,
		admin:  admin,
	}
}

func (f *fixture) issuer() *TokenIssuer {
	return NewTokenIssuer(f.config.JWT, f.clock)
}

func (f *fixture) validator() *TokenValidator {
	return NewTokenValidator(f.config.JWT, f.clock, f.users, f.sessions, zap.NewNop())
}

func (f *fixture) authService(t *testing.T) AuthService {
	t.Helper()
	throttle := NewLoginThrottle(f.config.Auth)
	t.Cleanup(throttle.Close)
	return NewAuthService(
		f.sessions,
		NewCredentialVerifier(f.users, zap.NewNop()),
		throttle,
		f.issuer(),
		f.validator(),
		f.config.JWT.IssueRefresh,
		f.clock,
		zap.NewNop(),
	)
}
