package usecase

import (
	"context"
	"errors"
	"fmt"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository"
	"token-auth/internal/dto/request"
	"token-auth/internal/dto/response"
	"token-auth/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("token-auth/internal/usecase")

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error)
	Logout(ctx context.Context, principal *Principal) error
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokenResponse, error)
}

type authService struct {
	sessions     repository.SessionRepository
	verifier     *CredentialVerifier
	throttle     *LoginThrottle
	issuer       *TokenIssuer
	validator    *TokenValidator
	issueRefresh bool
	clock        utils.Clock
	log          *zap.Logger
}

func NewAuthService(
	sessions repository.SessionRepository,
	verifier *CredentialVerifier,
	throttle *LoginThrottle,
	issuer *TokenIssuer,
	validator *TokenValidator,
	issueRefresh bool,
	clock utils.Clock,
	log *zap.Logger,
) AuthService {
	return &authService{
		sessions:     sessions,
		verifier:     verifier,
		throttle:     throttle,
		issuer:       issuer,
		validator:    validator,
		issueRefresh: issueRefresh,
		clock:        clock,
		log:          log.With(zap.String("service", "auth")),
	}
}

// Login creates exactly one session on success and none on any failure.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	// 1. Throttle
	if err := s.throttle.Allow(req.Email); err != nil {
		s.log.Warn("Login throttled", zap.String("email", req.Email))
		return nil, err
	}

	// 2. Verify credentials
	user, err := s.verifier.Verify(ctx, req.Email, req.Password)
	if err != nil {
		// only a credential mismatch keeps the attempt counted
		if !errors.Is(err, ErrInvalidCredentials) {
			s.throttle.Release(req.Email)
		}
		return nil, err
	}
	s.throttle.Reset(req.Email)

	// 3. Create session
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		UserID:    user.ID,
		UserAgent: optional(req.UserAgent),
		IPAddress: optional(req.IPAddress),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// 4. Issue tokens
	pair, err := s.issuer.Issue(session, s.issueRefresh)
	if err != nil {
		// no token will ever reference this session
		if _, invErr := s.sessions.Invalidate(ctx, session.ID, entity.SystemActor(), s.clock.Now()); invErr != nil {
			s.log.Error("Failed to invalidate unusable session", zap.Error(invErr),
				zap.String("session_id", session.ID.String()))
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", session.ID.String()),
		zap.Bool("refresh", pair.Refresh != ""))

	resp := &response.TokenResponse{
		Access:    pair.Access,
		Refresh:   pair.Refresh,
		TokenType: "Bearer",
		ExpiresAt: pair.AccessExpiresAt,
	}
	if pair.Refresh != "" {
		resp.RefreshExpiresAt = &pair.RefreshExpiresAt
	}
	return resp, nil
}

// Logout invalidates the caller's own session. Repeating it is a no-op that
// keeps the original actor and time.
func (s *authService) Logout(ctx context.Context, principal *Principal) error {
	ctx, span := tracer.Start(ctx, "auth.Logout")
	defer span.End()

	if principal == nil || principal.Session == nil {
		return ErrTokenMissing
	}
	if err := Authorize(principal.User, ActionLogout); err != nil {
		return err
	}

	changed, err := s.sessions.Invalidate(ctx, principal.Session.ID, entity.OwnerActor(principal.User.ID), s.clock.Now())
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info("User logged out",
		zap.String("user_id", principal.User.ID.String()),
		zap.String("session_id", principal.Session.ID.String()),
		zap.Bool("changed", changed))
	return nil
}

// Refresh mints a new access token for the live session behind a refresh
// token. The refresh token itself is not rotated.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokenResponse, error) {
	if req.Refresh == "" {
		return nil, ErrTokenMissing
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Refresh validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, ErrTokenMalformed
	}

	principal, err := s.validator.ResolveRefresh(ctx, req.Refresh)
	if err != nil {
		return nil, err
	}

	access, expiresAt, err := s.issuer.IssueAccess(principal.Session)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.log.Info("Access token refreshed", zap.String("session_id", principal.Session.ID.String()))

	return &response.TokenResponse{
		Access:    access,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
