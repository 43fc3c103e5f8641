package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository"
	"token-auth/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenClaims binds a token to exactly one session.
type TokenClaims struct {
	jwt.RegisteredClaims
	SessionID string    `json:"sid"`
	Type      TokenType `json:"typ"`
}

type TokenPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
}

// Principal is what a valid token resolves to.
type Principal struct {
	User    *entity.User
	Session *entity.Session
}

// TokenIssuer mints HS256 tokens for sessions.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      utils.Clock
}

func NewTokenIssuer(cfg utils.JWTConfig, clock utils.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      clock,
	}
}

// Issue always returns an access token; the refresh token is only minted
// when withRefresh is set.
func (i *TokenIssuer) Issue(session *entity.Session, withRefresh bool) (*TokenPair, error) {
	access, accessExp, err := i.sign(session, TokenAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	pair := &TokenPair{Access: access, AccessExpiresAt: accessExp}

	if withRefresh {
		pair.Refresh, pair.RefreshExpiresAt, err = i.sign(session, TokenRefresh, i.refreshTTL)
		if err != nil {
			return nil, err
		}
	}
	return pair, nil
}

func (i *TokenIssuer) IssueAccess(session *entity.Session) (string, time.Time, error) {
	return i.sign(session, TokenAccess, i.accessTTL)
}

func (i *TokenIssuer) sign(session *entity.Session, typ TokenType, ttl time.Duration) (string, time.Time, error) {
	now := i.clock.Now()
	expiresAt := now.Add(ttl)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   session.UserID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: session.ID.String(),
		Type:      typ,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return token, expiresAt, nil
}

// TokenValidator resolves bearer tokens to a live session and its owner.
// Token expiry is the only time-based check; a session stays usable until
// it is invalidated.
type TokenValidator struct {
	secret   []byte
	issuer   string
	clock    utils.Clock
	users    repository.UserRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

func NewTokenValidator(
	cfg utils.JWTConfig,
	clock utils.Clock,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	log *zap.Logger,
) *TokenValidator {
	return &TokenValidator{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		clock:    clock,
		users:    users,
		sessions: sessions,
		log:      log.With(zap.String("service", "token")),
	}
}

func (v *TokenValidator) Resolve(ctx context.Context, token string) (*Principal, error) {
	return v.resolve(ctx, token, TokenAccess)
}

func (v *TokenValidator) ResolveRefresh(ctx context.Context, token string) (*Principal, error) {
	return v.resolve(ctx, token, TokenRefresh)
}

func (v *TokenValidator) resolve(ctx context.Context, token string, want TokenType) (*Principal, error) {
	ctx, span := tracer.Start(ctx, "token.Resolve")
	defer span.End()

	if token == "" {
		return nil, ErrTokenMissing
	}

	claims, err := v.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrTokenMalformed
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	session, err := v.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if session.IsInvalidated() {
		return nil, ErrSessionInvalidated
	}

	user, err := v.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve token owner: %w", err)
	}
	if user == nil || !user.IsActive {
		if _, err := v.sessions.Invalidate(ctx, session.ID, entity.SystemActor(), v.clock.Now()); err != nil {
			return nil, fmt.Errorf("invalidate orphaned session: %w", err)
		}
		v.log.Info("Session invalidated for unavailable user",
			zap.String("session_id", session.ID.String()),
			zap.String("user_id", userID.String()))
		return nil, ErrSessionInvalidated
	}

	return &Principal{User: user, Session: session}, nil
}

func (v *TokenValidator) parse(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenMalformed
	}
}
