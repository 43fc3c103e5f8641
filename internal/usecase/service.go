package usecase

import (
	"token-auth/internal/data/repository"
	"token-auth/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Session   SessionService
	Validator *TokenValidator

	throttle *LoginThrottle
}

func NewService(repo *repository.Repository, config *utils.Config, clock utils.Clock, log *zap.Logger) *Service {
	verifier := NewCredentialVerifier(repo.User, log)
	throttle := NewLoginThrottle(config.Auth)
	issuer := NewTokenIssuer(config.JWT, clock)
	validator := NewTokenValidator(config.JWT, clock, repo.User, repo.Session, log)

	return &Service{
		Auth:      NewAuthService(repo.Session, verifier, throttle, issuer, validator, config.JWT.IssueRefresh, clock, log),
		User:      NewUserService(repo.User, clock, log),
		Session:   NewSessionService(repo.User, repo.Session, clock, log),
		Validator: validator,
		throttle:  throttle,
	}
}

// Close releases background resources.
func (s *Service) Close() {
	s.throttle.Close()
}
