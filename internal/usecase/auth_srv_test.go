package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository/repotest"
	"token-auth/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one session and returns only an access token", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		resp, err := svc.Login(ctx, &request.LoginRequest{
			Email:     f.member.Email,
			Password:  testPassword,
			UserAgent: "curl/8.0",
			IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Access)
		assert.Empty(t, resp.Refresh)
		assert.Nil(t, resp.RefreshExpiresAt)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, testEpoch.Add(time.Hour), resp.ExpiresAt)

		sessions := f.sessions.ForUser(f.member.ID)
		require.Len(t, sessions, 1)
		assert.True(t, sessions[0].IsLive())
		assert.Equal(t, testEpoch, sessions[0].CreatedAt)
		require.NotNil(t, sessions[0].UserAgent)
		assert.Equal(t, "curl/8.0", *sessions[0].UserAgent)
		require.NotNil(t, sessions[0].IPAddress)
		assert.Equal(t, "10.0.0.1", *sessions[0].IPAddress)
	})

	t.Run("issues a refresh token when the policy allows it", func(t *testing.T) {
		f := newFixture(t)
		f.config.JWT.IssueRefresh = true
		svc := f.authService(t)

		resp, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Refresh)
		require.NotNil(t, resp.RefreshExpiresAt)
		assert.Equal(t, testEpoch.Add(24*time.Hour), *resp.RefreshExpiresAt)
	})

	t.Run("each login is a separate session", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		for i := 0; i < 3; i++ {
			_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
			require.NoError(t, err)
		}
		assert.Len(t, f.sessions.ForUser(f.member.ID), 3)
	})

	t.Run("email is matched case-insensitively", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: " USER@example.com ", Password: testPassword})
		require.NoError(t, err)
		assert.Equal(t, 1, f.sessions.Len())
	})

	failures := []struct {
		name string
		req  func(f *fixture) *request.LoginRequest
		want *Error
	}{
		{
			name: "missing email",
			req:  func(*fixture) *request.LoginRequest { return &request.LoginRequest{Password: testPassword} },
			want: ErrMissingEmail,
		},
		{
			name: "missing password",
			req:  func(f *fixture) *request.LoginRequest { return &request.LoginRequest{Email: f.member.Email} },
			want: ErrMissingPassword,
		},
		{
			name: "wrong password",
			req: func(f *fixture) *request.LoginRequest {
				return &request.LoginRequest{Email: f.member.Email, Password: "nope"}
			},
			want: ErrInvalidCredentials,
		},
		{
			name: "unknown email",
			req: func(*fixture) *request.LoginRequest {
				return &request.LoginRequest{Email: "ghost@example.com", Password: testPassword}
			},
			want: ErrInvalidCredentials,
		},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.authService(t)

			resp, err := svc.Login(ctx, tc.req(f))
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.sessions.Len())
		})
	}

	t.Run("inactive user cannot login", func(t *testing.T) {
		f := newFixture(t)
		f.users.SetActive(f.member.ID, false)
		svc := f.authService(t)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Zero(t, f.sessions.Len())
	})

	t.Run("store failure creates no session", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.Err = repotest.ErrUnavailable
		svc := f.authService(t)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		assert.ErrorIs(t, err, repotest.ErrUnavailable)
		f.sessions.Err = nil
		assert.Zero(t, f.sessions.Len())
	})

	t.Run("missing fields do not count toward the lockout", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		for i := 0; i < f.config.Auth.MaxFailedLogins+1; i++ {
			_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email})
			require.ErrorIs(t, err, ErrMissingPassword)
		}

		_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		assert.NoError(t, err)
	})

	t.Run("locks out after repeated failures", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		for i := 0; i < f.config.Auth.MaxFailedLogins; i++ {
			_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: "nope"})
			require.ErrorIs(t, err, ErrInvalidCredentials)
		}

		_, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		assert.ErrorIs(t, err, ErrTooManyAttempts)
		assert.Zero(t, f.sessions.Len())
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates the session with the owner as actor", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		resp, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)
		principal, err := f.validator().Resolve(ctx, resp.Access)
		require.NoError(t, err)

		f.clock.Advance(5 * time.Minute)
		require.NoError(t, svc.Logout(ctx, principal))

		sessions := f.sessions.ForUser(f.member.ID)
		require.Len(t, sessions, 1)
		require.True(t, sessions[0].IsInvalidated())
		assert.Equal(t, testEpoch.Add(5*time.Minute), *sessions[0].InvalidatedAt)
		actor, ok := sessions[0].InvalidatedBy()
		require.True(t, ok)
		assert.Equal(t, entity.OwnerActor(f.member.ID), actor)

		_, err = f.validator().Resolve(ctx, resp.Access)
		assert.ErrorIs(t, err, ErrSessionInvalidated)
	})

	t.Run("repeating it keeps the first invalidation", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		resp, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)
		principal, err := f.validator().Resolve(ctx, resp.Access)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, principal))
		f.clock.Advance(time.Minute)
		require.NoError(t, svc.Logout(ctx, principal))

		sessions := f.sessions.ForUser(f.member.ID)
		require.Len(t, sessions, 1)
		assert.Equal(t, testEpoch, *sessions[0].InvalidatedAt)
	})

	t.Run("only the caller's session is touched", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		first, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)
		_, err = svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)

		principal, err := f.validator().Resolve(ctx, first.Access)
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, principal))

		live := 0
		for _, s := range f.sessions.ForUser(f.member.ID) {
			if s.IsLive() {
				live++
			}
		}
		assert.Equal(t, 1, live)
	})

	t.Run("no principal", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.authService(t).Logout(ctx, nil), ErrTokenMissing)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a new access token for the same session", func(t *testing.T) {
		f := newFixture(t)
		f.config.JWT.IssueRefresh = true
		svc := f.authService(t)

		login, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)

		f.clock.Advance(2 * time.Hour)
		_, err = f.validator().Resolve(ctx, login.Access)
		require.ErrorIs(t, err, ErrTokenExpired)

		resp, err := svc.Refresh(ctx, &request.RefreshRequest{Refresh: login.Refresh})
		require.NoError(t, err)
		assert.Empty(t, resp.Refresh)

		principal, err := f.validator().Resolve(ctx, resp.Access)
		require.NoError(t, err)
		assert.Equal(t, f.member.ID, principal.User.ID)
		assert.Equal(t, 1, f.sessions.Len())
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		login, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, &request.RefreshRequest{Refresh: login.Access})
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("invalidated session cannot be refreshed", func(t *testing.T) {
		f := newFixture(t)
		f.config.JWT.IssueRefresh = true
		svc := f.authService(t)

		login, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
		require.NoError(t, err)
		principal, err := f.validator().Resolve(ctx, login.Access)
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, principal))

		_, err = svc.Refresh(ctx, &request.RefreshRequest{Refresh: login.Refresh})
		assert.ErrorIs(t, err, ErrSessionInvalidated)
	})

	t.Run("empty and garbage tokens", func(t *testing.T) {
		f := newFixture(t)
		svc := f.authService(t)

		_, err := svc.Refresh(ctx, &request.RefreshRequest{})
		assert.ErrorIs(t, err, ErrTokenMissing)

		_, err = svc.Refresh(ctx, &request.RefreshRequest{Refresh: "not-a-jwt"})
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})
}

func TestAuthService_ConcurrentLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.authService(t)

	resp, err := svc.Login(ctx, &request.LoginRequest{Email: f.member.Email, Password: testPassword})
	require.NoError(t, err)
	principal, err := f.validator().Resolve(ctx, resp.Access)
	require.NoError(t, err)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.sessions.Invalidate(ctx, principal.Session.ID, entity.OwnerActor(f.member.ID), f.clock.Now())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				changed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, changed)
}
